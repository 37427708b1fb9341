package booking

import (
	"context"
	"errors"
	"time"

	"gymhub/internal/capacity"
	"gymhub/internal/logger"
	"gymhub/internal/metrics"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentFull     = errors.New("appointment is full")
	ErrAlreadyBooked       = errors.New("appointment already booked by member")
	ErrPastAppointment     = errors.New("cannot book past appointments")
	ErrNoCredits           = errors.New("no available credits for service")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrNotOwner            = errors.New("booking belongs to another member")
	ErrAlreadyCancelled    = errors.New("booking already cancelled")
	ErrPastBooking         = errors.New("cannot cancel past bookings")
)

// Publisher announces capacity changes to live subscribers.
type Publisher interface {
	PublishCapacity(ctx context.Context, ev capacity.Event) error
}

// Notifier queues member emails. *email.Service satisfies it.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, service, location string, when time.Time) error
	SendCancellation(ctx context.Context, to, name, service string, when time.Time) error
}

type Service interface {
	Book(ctx context.Context, memberID, appointmentID int64) (*Booking, error)
	Cancel(ctx context.Context, memberID, bookingID int64) (*Booking, error)
	MyBookings(ctx context.Context, memberID int64) ([]Booking, error)
	ByAppointment(ctx context.Context, appointmentID int64) ([]Booking, error)
}

type service struct {
	repo      Repository
	publisher Publisher
	notifier  Notifier
	now       func() time.Time
}

func NewService(repo Repository, publisher Publisher, notifier Notifier) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *service) Book(ctx context.Context, memberID, appointmentID int64) (*Booking, error) {
	change, err := s.repo.Book(ctx, memberID, appointmentID, s.now())
	if err != nil {
		metrics.RecordBooking(outcome(err))
		return nil, err
	}
	metrics.RecordBooking("created")

	b := change.Booking
	logger.Info("booking created",
		"booking_id", b.ID,
		"appointment_id", appointmentID,
		"member_id", memberID,
		"current", change.CurrentParticipants,
		"max", change.MaxCapacity,
	)

	s.publish(ctx, appointmentID, change, capacity.BookingCreated)

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, b.MemberEmail, b.MemberName, b.ServiceName, b.LocationName, b.AppointmentStartTime); err != nil {
			logger.Error("failed to queue booking confirmation", "booking_id", b.ID, "error", err)
		}
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, memberID, bookingID int64) (*Booking, error) {
	change, err := s.repo.Cancel(ctx, memberID, bookingID, s.now())
	if err != nil {
		return nil, err
	}
	metrics.RecordBookingCancellation()

	b := change.Booking
	logger.Info("booking cancelled",
		"booking_id", b.ID,
		"appointment_id", b.AppointmentID,
		"member_id", memberID,
		"current", change.CurrentParticipants,
	)

	s.publish(ctx, b.AppointmentID, change, capacity.BookingCancelled)

	if s.notifier != nil {
		if err := s.notifier.SendCancellation(ctx, b.MemberEmail, b.MemberName, b.ServiceName, b.AppointmentStartTime); err != nil {
			logger.Error("failed to queue cancellation email", "booking_id", b.ID, "error", err)
		}
	}
	return b, nil
}

func (s *service) MyBookings(ctx context.Context, memberID int64) ([]Booking, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) ByAppointment(ctx context.Context, appointmentID int64) ([]Booking, error) {
	return s.repo.ListByAppointment(ctx, appointmentID)
}

// publish runs after commit. A failed publish is logged and never undoes
// the booking.
func (s *service) publish(ctx context.Context, appointmentID int64, change *Change, kind capacity.EventType) {
	if s.publisher == nil {
		return
	}
	ev := capacity.Event{
		AppointmentID:       appointmentID,
		CurrentParticipants: change.CurrentParticipants,
		MaxCapacity:         change.MaxCapacity,
		EventType:           kind,
		Timestamp:           s.now().UnixMilli(),
	}
	if err := s.publisher.PublishCapacity(ctx, ev); err != nil {
		logger.Error("failed to publish capacity event", "appointment_id", appointmentID, "error", err)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return "not_found"
	case errors.Is(err, ErrAppointmentFull):
		return "full"
	case errors.Is(err, ErrAlreadyBooked):
		return "duplicate"
	case errors.Is(err, ErrPastAppointment):
		return "past"
	case errors.Is(err, ErrNoCredits):
		return "no_credit"
	default:
		return "error"
	}
}
