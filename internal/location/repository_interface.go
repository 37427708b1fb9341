package location

import "context"

type Repository interface {
	Create(ctx context.Context, name, address string) (*Location, error)
	List(ctx context.Context) ([]Location, error)
	GetByID(ctx context.Context, id int64) (*Location, error)
	Update(ctx context.Context, id int64, name, address string) (*Location, error)
	Deactivate(ctx context.Context, id int64) error
	NameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
}
