package appointment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req AppointmentRequest, createdBy int64) (*Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	ListAvailable(ctx context.Context, now time.Time) ([]Appointment, error)
	ListByLocation(ctx context.Context, locationID int64) ([]Appointment, error)
	ListUpcomingByLocation(ctx context.Context, locationID int64, now time.Time) ([]Appointment, error)
	Update(ctx context.Context, id int64, req AppointmentRequest) (*Appointment, error)
	Deactivate(ctx context.Context, id int64) error
	LocationExists(ctx context.Context, locationID int64) (bool, error)
	ServiceExists(ctx context.Context, serviceID int64) (bool, error)
}
