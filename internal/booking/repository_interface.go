package booking

import (
	"context"
	"time"
)

type Repository interface {
	// Book locks the appointment, spends the member's oldest unused credit for
	// its service and takes a seat, all in one transaction.
	Book(ctx context.Context, memberID, appointmentID int64, now time.Time) (*Change, error)
	// Cancel releases the seat and refunds the credit in one transaction.
	Cancel(ctx context.Context, memberID, bookingID int64, now time.Time) (*Change, error)
	GetByID(ctx context.Context, id int64) (*Booking, error)
	ListByMember(ctx context.Context, memberID int64) ([]Booking, error)
	ListByAppointment(ctx context.Context, appointmentID int64) ([]Booking, error)
}
