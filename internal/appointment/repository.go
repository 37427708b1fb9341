package appointment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymhub/internal/db"

	"github.com/jmoiron/sqlx"
)

const selectAppointment = `
	SELECT a.id, a.start_time, a.end_time,
	       a.location_id, l.name AS location_name,
	       a.gym_service_id, s.name AS gym_service_name,
	       a.max_capacity, a.current_bookings,
	       a.created_by, u.first_name || ' ' || u.last_name AS created_by_name,
	       a.active, a.created_at, a.updated_at
	FROM appointments a
	JOIN locations l ON l.id = a.location_id
	JOIN gym_services s ON s.id = a.gym_service_id
	JOIN users u ON u.id = a.created_by
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req AppointmentRequest, createdBy int64) (*Appointment, error) {
	query := `
		INSERT INTO appointments (start_time, end_time, location_id, gym_service_id, max_capacity, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		req.StartTime.UTC(), req.EndTime.UTC(), req.LocationID, req.GymServiceID, req.MaxCapacity, createdBy)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	err := r.db.GetContext(ctx, &a, selectAppointment+` WHERE a.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	a.derive()
	return &a, nil
}

func (r *repository) ListAvailable(ctx context.Context, now time.Time) ([]Appointment, error) {
	return r.list(ctx, `
		WHERE a.active AND a.start_time > $1 AND a.current_bookings < a.max_capacity
		ORDER BY a.start_time
	`, now.UTC())
}

func (r *repository) ListByLocation(ctx context.Context, locationID int64) ([]Appointment, error) {
	return r.list(ctx, ` WHERE a.location_id = $1 AND a.active ORDER BY a.start_time`, locationID)
}

func (r *repository) ListUpcomingByLocation(ctx context.Context, locationID int64, now time.Time) ([]Appointment, error) {
	return r.list(ctx, `
		WHERE a.location_id = $1 AND a.active AND a.start_time > $2
		ORDER BY a.start_time
	`, locationID, now.UTC())
}

func (r *repository) list(ctx context.Context, where string, args ...any) ([]Appointment, error) {
	items := []Appointment{}
	if err := r.db.SelectContext(ctx, &items, selectAppointment+where, args...); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].derive()
	}
	return items, nil
}

// Update rewrites the schedule. max_capacity may never drop below the live
// current_bookings.
func (r *repository) Update(ctx context.Context, id int64, req AppointmentRequest) (*Appointment, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET start_time = $2, end_time = $3, location_id = $4, gym_service_id = $5,
		    max_capacity = $6, updated_at = NOW()
		WHERE id = $1 AND current_bookings <= $6
	`, id, req.StartTime.UTC(), req.EndTime.UTC(), req.LocationID, req.GymServiceID, req.MaxCapacity)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrCapacityBelowBookings
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET active = FALSE, updated_at = NOW()
		WHERE id = $1 AND current_bookings = 0
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrHasBookings
	}
	return nil
}

func (r *repository) LocationExists(ctx context.Context, locationID int64) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1 AND active)`, locationID)
}

func (r *repository) ServiceExists(ctx context.Context, serviceID int64) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM gym_services WHERE id = $1 AND active)`, serviceID)
}
