package vehicle

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("vehicle not found")
	ErrNotOwner = errors.New("vehicle owned by another user")
)

type Type string

const (
	TypeCar  Type = "car"
	TypeBike Type = "bike"
)

func (t Type) Valid() bool { return t == TypeCar || t == TypeBike }

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type Vehicle struct {
	ID              int64       `json:"id"`
	OwnerID         int64       `json:"ownerId"`
	Title           string      `json:"title"`
	Type            Type        `json:"type"`
	PricePerHour    float64     `json:"pricePerHour"`
	PricePerDay     float64     `json:"pricePerDay"`
	Images          []string    `json:"images"`
	Location        Location    `json:"location"`
	AvailableRanges []DateRange `json:"availableRanges"`
	Description     string      `json:"description"`
	Status          Status      `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Filter narrows List results. Nil/empty fields match everything.
type Filter struct {
	OwnerID *int64
	Type    Type
	Status  Status
}
