package gymservice

import "context"

type Repository interface {
	Create(ctx context.Context, req ServiceRequest, createdBy int64) (*GymService, error)
	List(ctx context.Context) ([]GymService, error)
	ListByLocation(ctx context.Context, locationID int64) ([]GymService, error)
	GetByID(ctx context.Context, id int64) (*GymService, error)
	Update(ctx context.Context, id int64, req ServiceRequest) (*GymService, error)
	Deactivate(ctx context.Context, id int64) error
	NameTaken(ctx context.Context, name string, locationID, exceptID int64) (bool, error)
	LocationExists(ctx context.Context, locationID int64) (bool, error)
}
