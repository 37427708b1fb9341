package user

import "context"

type Repository interface {
	Create(ctx context.Context, u NewUser) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	LocationExists(ctx context.Context, locationID int64) (bool, error)
	ListByRole(ctx context.Context, role string, locationID *int64) ([]User, error)
	Deactivate(ctx context.Context, id int64, role string) error
}
