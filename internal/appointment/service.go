package appointment

import (
	"context"
	"errors"
	"time"

	"gymhub/internal/logger"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrInvalidTimeRange      = errors.New("end time must be after start time")
	ErrLocationNotFound      = errors.New("location not found")
	ErrServiceNotFound       = errors.New("gym service not found")
	ErrCapacityBelowBookings = errors.New("max capacity below current bookings")
	ErrHasBookings           = errors.New("appointment has bookings")
)

type Service interface {
	Create(ctx context.Context, req AppointmentRequest, createdBy int64) (*Appointment, error)
	Get(ctx context.Context, id int64) (*Appointment, error)
	Available(ctx context.Context) ([]Appointment, error)
	ByLocation(ctx context.Context, locationID int64) ([]Appointment, error)
	UpcomingByLocation(ctx context.Context, locationID int64) ([]Appointment, error)
	Update(ctx context.Context, id int64, req AppointmentRequest) (*Appointment, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, req AppointmentRequest, createdBy int64) (*Appointment, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	a, err := s.repo.Create(ctx, req, createdBy)
	if err != nil {
		return nil, err
	}
	logger.Info("appointment created", "appointment_id", a.ID, "location_id", a.LocationID, "service_id", a.GymServiceID)
	return a, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Available(ctx context.Context) ([]Appointment, error) {
	return s.repo.ListAvailable(ctx, s.now())
}

func (s *service) ByLocation(ctx context.Context, locationID int64) ([]Appointment, error) {
	return s.repo.ListByLocation(ctx, locationID)
}

func (s *service) UpcomingByLocation(ctx context.Context, locationID int64) ([]Appointment, error) {
	return s.repo.ListUpcomingByLocation(ctx, locationID, s.now())
}

func (s *service) Update(ctx context.Context, id int64, req AppointmentRequest) (*Appointment, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	if req.MaxCapacity < current.CurrentBookings {
		return nil, ErrCapacityBelowBookings
	}
	return s.repo.Update(ctx, id, req)
}

// Delete deactivates the appointment. It is refused while any booking holds a
// spot.
func (s *service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.CurrentBookings > 0 {
		return ErrHasBookings
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	logger.Info("appointment deactivated", "appointment_id", id)
	return nil
}

func (s *service) validate(ctx context.Context, req AppointmentRequest) error {
	if !req.EndTime.After(req.StartTime) {
		return ErrInvalidTimeRange
	}

	ok, err := s.repo.LocationExists(ctx, req.LocationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLocationNotFound
	}

	ok, err = s.repo.ServiceExists(ctx, req.GymServiceID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrServiceNotFound
	}
	return nil
}
