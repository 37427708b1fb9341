package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymhub/internal/appointment"
	"gymhub/internal/db"

	"github.com/jmoiron/sqlx"
)

const selectBooking = `
	SELECT b.id, b.appointment_id, a.start_time AS appointment_start_time,
	       a.end_time AS appointment_end_time, a.gym_service_id,
	       s.name AS service_name, l.name AS location_name,
	       b.member_id, u.first_name || ' ' || u.last_name AS member_name,
	       u.email AS member_email, b.member_credit_id,
	       b.status, b.created_at, b.cancelled_at
	FROM bookings b
	JOIN appointments a ON a.id = b.appointment_id
	JOIN gym_services s ON s.id = a.gym_service_id
	JOIN locations l ON l.id = a.location_id
	JOIN users u ON u.id = b.member_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Book(ctx context.Context, memberID, appointmentID int64, now time.Time) (*Change, error) {
	var change *Change

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		slot, err := appointment.Lock(ctx, tx, appointmentID)
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		if err != nil {
			return err
		}
		if !slot.Active {
			return ErrAppointmentNotFound
		}
		if slot.CurrentBookings >= slot.MaxCapacity {
			return ErrAppointmentFull
		}

		booked, err := db.Exists(ctx, tx, `
			SELECT EXISTS(
				SELECT 1 FROM bookings
				WHERE appointment_id = $1 AND member_id = $2 AND status = 'CONFIRMED'
			)
		`, appointmentID, memberID)
		if err != nil {
			return err
		}
		if booked {
			return ErrAlreadyBooked
		}
		if slot.StartTime.Before(now) {
			return ErrPastAppointment
		}

		var creditID int64
		err = tx.GetContext(ctx, &creditID, `
			SELECT id FROM member_credits
			WHERE member_id = $1 AND gym_service_id = $2 AND used = FALSE
			ORDER BY purchased_at, id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		`, memberID, slot.GymServiceID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoCredits
		}
		if err != nil {
			return err
		}

		var bookingID int64
		err = tx.GetContext(ctx, &bookingID, `
			INSERT INTO bookings (appointment_id, member_id, member_credit_id, status)
			VALUES ($1, $2, $3, 'CONFIRMED')
			RETURNING id
		`, appointmentID, memberID, creditID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE member_credits SET used = TRUE, used_at = NOW() WHERE id = $1`, creditID); err != nil {
			return err
		}

		current, maxCapacity, err := appointment.AdjustBookings(ctx, tx, appointmentID, 1)
		if err != nil {
			return err
		}

		b, err := getBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		change = &Change{Booking: b, CurrentParticipants: current, MaxCapacity: maxCapacity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (r *repository) Cancel(ctx context.Context, memberID, bookingID int64, now time.Time) (*Change, error) {
	var change *Change

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		b, err := getBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.MemberID != memberID {
			return ErrNotOwner
		}
		if b.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}
		if b.AppointmentStartTime.Before(now) {
			return ErrPastBooking
		}

		if _, err := appointment.Lock(ctx, tx, b.AppointmentID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE bookings SET status = 'CANCELLED', cancelled_at = NOW()
			WHERE id = $1 AND status = 'CONFIRMED'
		`, bookingID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrAlreadyCancelled
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE member_credits SET used = FALSE, used_at = NULL WHERE id = $1`, b.MemberCreditID); err != nil {
			return err
		}

		current, maxCapacity, err := appointment.AdjustBookings(ctx, tx, b.AppointmentID, -1)
		if err != nil {
			return err
		}

		cancelledAt := now
		b.Status = StatusCancelled
		b.CancelledAt = &cancelledAt
		change = &Change{Booking: b, CurrentParticipants: current, MaxCapacity: maxCapacity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return getBooking(ctx, r.db, id)
}

func (r *repository) ListByMember(ctx context.Context, memberID int64) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings,
		selectBooking+` WHERE b.member_id = $1 AND b.status = 'CONFIRMED' ORDER BY a.start_time`, memberID)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByAppointment(ctx context.Context, appointmentID int64) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings,
		selectBooking+` WHERE b.appointment_id = $1 ORDER BY b.created_at`, appointmentID)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func getBooking(ctx context.Context, q sqlx.QueryerContext, id int64) (*Booking, error) {
	var b Booking
	err := sqlx.GetContext(ctx, q, &b, selectBooking+` WHERE b.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
