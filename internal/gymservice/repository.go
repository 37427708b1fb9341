package gymservice

import (
	"context"
	"database/sql"
	"errors"

	"gymhub/internal/db"

	"github.com/jmoiron/sqlx"
)

const selectService = `
	SELECT s.id, s.name, s.description, s.price_cents, s.duration_minutes,
	       s.location_id, l.name AS location_name,
	       s.created_by, u.first_name || ' ' || u.last_name AS created_by_name,
	       s.active, s.created_at, s.updated_at
	FROM gym_services s
	JOIN locations l ON l.id = s.location_id
	JOIN users u ON u.id = s.created_by
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req ServiceRequest, createdBy int64) (*GymService, error) {
	query := `
		INSERT INTO gym_services (name, description, price_cents, duration_minutes, location_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		req.Name, req.Description, req.PriceCents, req.DurationMinutes, req.LocationID, createdBy)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) List(ctx context.Context) ([]GymService, error) {
	services := []GymService{}
	if err := r.db.SelectContext(ctx, &services, selectService+` ORDER BY s.name`); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repository) ListByLocation(ctx context.Context, locationID int64) ([]GymService, error) {
	services := []GymService{}
	err := r.db.SelectContext(ctx, &services,
		selectService+` WHERE s.location_id = $1 AND s.active ORDER BY s.name`, locationID)
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*GymService, error) {
	var s GymService
	err := r.db.GetContext(ctx, &s, selectService+` WHERE s.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, id int64, req ServiceRequest) (*GymService, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE gym_services
		SET name = $2, description = $3, price_cents = $4, duration_minutes = $5, updated_at = NOW()
		WHERE id = $1
	`, id, req.Name, req.Description, req.PriceCents, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrServiceNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE gym_services SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *repository) NameTaken(ctx context.Context, name string, locationID, exceptID int64) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM gym_services WHERE name = $1 AND location_id = $2 AND id <> $3)`,
		name, locationID, exceptID)
}

func (r *repository) LocationExists(ctx context.Context, locationID int64) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1 AND active)`, locationID)
}
