package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/flexiride/backend/internal/domain/vehicle"
)

var _ vehicle.Repo = (*VehicleRepo)(nil)

type VehicleRepo struct {
	db *DB
}

func NewVehicleRepo(db *DB) *VehicleRepo { return &VehicleRepo{db: db} }

const (
	vehicleCols = `id, owner_id, title, type, price_per_hour, price_per_day,
images, address, lat, lng, available_ranges, description, status, created_at, updated_at`

	qVehicleInsert = `
INSERT INTO vehicles (owner_id, title, type, price_per_hour, price_per_day,
                      images, address, lat, lng, available_ranges, description, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, created_at, updated_at;`

	qVehicleByID = `
SELECT ` + vehicleCols + `
FROM vehicles
WHERE id = $1;`

	qVehicleUpdate = `
UPDATE vehicles
SET title            = $2,
    price_per_hour   = $3,
    price_per_day    = $4,
    images           = $5,
    address          = $6,
    lat              = $7,
    lng              = $8,
    available_ranges = $9,
    description      = $10,
    status           = $11,
    updated_at       = NOW()
WHERE id = $1
RETURNING updated_at;`

	qVehicleDelete = `
DELETE FROM vehicles WHERE id = $1;`
)

func (r *VehicleRepo) Create(ctx context.Context, v *vehicle.Vehicle) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if v.Images == nil {
		v.Images = []string{}
	}
	if err := r.db.Pool.QueryRow(ctx, qVehicleInsert,
		v.OwnerID, v.Title, v.Type, v.PricePerHour, v.PricePerDay,
		v.Images, v.Location.Address, v.Location.Lat, v.Location.Lng,
		v.AvailableRanges, v.Description, v.Status).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("vehicle insert: %w", err)
	}
	return nil
}

func (r *VehicleRepo) GetByID(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	v, err := scanVehicle(r.db.Pool.QueryRow(ctx, qVehicleByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vehicle.ErrNotFound
		}
		return nil, fmt.Errorf("vehicle by id: %w", err)
	}
	return v, nil
}

func (r *VehicleRepo) List(ctx context.Context, f vehicle.Filter) ([]*vehicle.Vehicle, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	q := "SELECT " + vehicleCols + " FROM vehicles"
	var conds []string
	var args []any
	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC;"

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("vehicle list: %w", err)
	}
	defer rows.Close()

	var out []*vehicle.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("vehicle list scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VehicleRepo) Update(ctx context.Context, v *vehicle.Vehicle) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qVehicleUpdate,
		v.ID, v.Title, v.PricePerHour, v.PricePerDay, v.Images,
		v.Location.Address, v.Location.Lat, v.Location.Lng,
		v.AvailableRanges, v.Description, v.Status).
		Scan(&v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vehicle.ErrNotFound
		}
		return fmt.Errorf("vehicle update: %w", err)
	}
	return nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qVehicleDelete, id)
	if err != nil {
		return fmt.Errorf("vehicle delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return vehicle.ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (*vehicle.Vehicle, error) {
	var v vehicle.Vehicle
	if err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Type, &v.PricePerHour, &v.PricePerDay,
		&v.Images, &v.Location.Address, &v.Location.Lat, &v.Location.Lng,
		&v.AvailableRanges, &v.Description, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
