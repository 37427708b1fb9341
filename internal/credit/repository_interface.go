package credit

import "context"

type Repository interface {
	ServicePrice(ctx context.Context, serviceID int64) (*Priced, error)
	CreatePayment(ctx context.Context, p *Payment) error
	// Confirm completes the payment and mints its credits exactly once.
	// minted is false when the payment was already completed.
	Confirm(ctx context.Context, intentID string) (p *Payment, minted bool, err error)
	GetByIntent(ctx context.Context, intentID string) (*Payment, error)
	ListByMember(ctx context.Context, memberID int64) ([]Payment, error)
	AvailableCredits(ctx context.Context, memberID, serviceID int64) (int64, error)
}
