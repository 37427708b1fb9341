package credit

import "time"

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusRefunded  = "REFUNDED"

	Currency = "eur"
)

// Payment is a purchase of Quantity credits for one gym service. Amounts are
// in euro cents.
type Payment struct {
	ID                    int64      `db:"id" json:"id"`
	MemberID              int64      `db:"member_id" json:"memberId"`
	MemberName            string     `db:"member_name" json:"memberName"`
	MemberEmail           string     `db:"member_email" json:"-"`
	GymServiceID          int64      `db:"gym_service_id" json:"gymServiceId"`
	GymServiceName        string     `db:"gym_service_name" json:"gymServiceName"`
	Quantity              int        `db:"quantity" json:"quantity"`
	AmountCents           int64      `db:"amount_cents" json:"amountCents"`
	StripePaymentIntentID string     `db:"stripe_payment_intent_id" json:"stripePaymentIntentId"`
	ClientSecret          string     `db:"-" json:"clientSecret,omitempty"`
	Status                string     `db:"status" json:"status"`
	CreatedAt             time.Time  `db:"created_at" json:"createdAt"`
	CompletedAt           *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

type PaymentRequest struct {
	GymServiceID int64 `json:"gymServiceId" binding:"required,gte=1"`
	Quantity     int   `json:"quantity" binding:"required,gte=1,lte=100"`
}

type Balance struct {
	GymServiceID     int64 `json:"gymServiceId"`
	AvailableCredits int64 `json:"availableCredits"`
}

// Priced is the part of a gym service a purchase needs.
type Priced struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	PriceCents int64  `db:"price_cents"`
}
