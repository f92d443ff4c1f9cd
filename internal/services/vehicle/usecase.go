package vehicle

import (
	"context"
	"errors"
	"fmt"
	"slices"

	domainvehicle "github.com/flexiride/backend/internal/domain/vehicle"
)

type Usecase struct {
	vehicles domainvehicle.Repo
}

func NewUsecase(vehicles domainvehicle.Repo) *Usecase {
	return &Usecase{vehicles: vehicles}
}

type CreateInput struct {
	Title           string
	Type            domainvehicle.Type
	PricePerHour    float64
	PricePerDay     float64
	Location        domainvehicle.Location
	AvailableRanges []domainvehicle.DateRange
	Description     string
	Images          []string
}

func (u *Usecase) Create(ctx context.Context, ownerID int64, in CreateInput) (*domainvehicle.Vehicle, error) {
	v := &domainvehicle.Vehicle{
		OwnerID:         ownerID,
		Title:           in.Title,
		Type:            in.Type,
		PricePerHour:    in.PricePerHour,
		PricePerDay:     in.PricePerDay,
		Location:        in.Location,
		AvailableRanges: in.AvailableRanges,
		Description:     in.Description,
		Images:          in.Images,
		Status:          domainvehicle.StatusActive,
	}
	if err := u.vehicles.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (*domainvehicle.Vehicle, error) {
	return u.vehicles.GetByID(ctx, id)
}

// List returns matching vehicles, newest first.
func (u *Usecase) List(ctx context.Context, f domainvehicle.Filter) ([]*domainvehicle.Vehicle, error) {
	vs, err := u.vehicles.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vs, nil
}

type UpdateInput struct {
	Title           *string
	PricePerHour    *float64
	PricePerDay     *float64
	Location        *domainvehicle.Location
	AvailableRanges *[]domainvehicle.DateRange
	Description     *string
	Status          *domainvehicle.Status
	NewImages       []string
}

// Update applies in to the vehicle. Only the owner may update; new images
// are appended to the existing set.
func (u *Usecase) Update(ctx context.Context, id, callerID int64, in UpdateInput) (*domainvehicle.Vehicle, error) {
	v, err := u.owned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		v.Title = *in.Title
	}
	if in.PricePerHour != nil {
		v.PricePerHour = *in.PricePerHour
	}
	if in.PricePerDay != nil {
		v.PricePerDay = *in.PricePerDay
	}
	if in.Location != nil {
		v.Location = *in.Location
	}
	if in.AvailableRanges != nil {
		v.AvailableRanges = *in.AvailableRanges
	}
	if in.Description != nil {
		v.Description = *in.Description
	}
	if in.Status != nil {
		v.Status = *in.Status
	}
	if len(in.NewImages) > 0 {
		v.Images = append(v.Images, in.NewImages...)
	}
	if err := u.vehicles.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return v, nil
}

func (u *Usecase) Delete(ctx context.Context, id, callerID int64) error {
	if _, err := u.owned(ctx, id, callerID); err != nil {
		return err
	}
	if err := u.vehicles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return nil
}

func (u *Usecase) RemoveImage(ctx context.Context, id, callerID int64, imageURL string) (*domainvehicle.Vehicle, error) {
	v, err := u.owned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	before := len(v.Images)
	v.Images = slices.DeleteFunc(v.Images, func(s string) bool { return s == imageURL })
	if len(v.Images) == before {
		return v, nil
	}
	if err := u.vehicles.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return v, nil
}

func (u *Usecase) owned(ctx context.Context, id, callerID int64) (*domainvehicle.Vehicle, error) {
	v, err := u.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainvehicle.ErrNotFound) {
			return nil, domainvehicle.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	if v.OwnerID != callerID {
		return nil, domainvehicle.ErrNotOwner
	}
	return v, nil
}
