package appointment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Slot is the row-locked view of an appointment used while booking.
type Slot struct {
	ID              int64     `db:"id"`
	StartTime       time.Time `db:"start_time"`
	GymServiceID    int64     `db:"gym_service_id"`
	GymServiceName  string    `db:"gym_service_name"`
	LocationName    string    `db:"location_name"`
	MaxCapacity     int       `db:"max_capacity"`
	CurrentBookings int       `db:"current_bookings"`
	Active          bool      `db:"active"`
}

// Lock reads appointment id with a row lock held until tx ends. Concurrent
// bookings of the same appointment queue behind it.
func Lock(ctx context.Context, tx *sqlx.Tx, id int64) (*Slot, error) {
	var s Slot
	err := tx.GetContext(ctx, &s, `
		SELECT a.id, a.start_time, a.gym_service_id, s.name AS gym_service_name,
		       l.name AS location_name, a.max_capacity, a.current_bookings, a.active
		FROM appointments a
		JOIN gym_services s ON s.id = a.gym_service_id
		JOIN locations l ON l.id = a.location_id
		WHERE a.id = $1
		FOR UPDATE OF a
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AdjustBookings moves current_bookings by delta and returns the new absolute
// counts.
func AdjustBookings(ctx context.Context, tx *sqlx.Tx, id int64, delta int) (current, maxCapacity int, err error) {
	row := tx.QueryRowxContext(ctx, `
		UPDATE appointments
		SET current_bookings = current_bookings + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING current_bookings, max_capacity
	`, id, delta)
	if err := row.Scan(&current, &maxCapacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrAppointmentNotFound
		}
		return 0, 0, err
	}
	return current, maxCapacity, nil
}
