package credit

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type IntentParams struct {
	AmountCents int64
	Currency    string
	Description string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// IntentSucceeded is the processor status of a fully paid intent.
const IntentSucceeded = "succeeded"

// Provider creates payment intents with the card processor and reports
// their status.
type Provider interface {
	CreateIntent(ctx context.Context, p IntentParams) (*Intent, error)
	IntentStatus(ctx context.Context, intentID string) (string, error)
}

type stripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) Provider {
	return &stripeProvider{api: client.New(secretKey, nil)}
}

func (s *stripeProvider) CreateIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(p.AmountCents),
		Currency:    stripe.String(p.Currency),
		Description: stripe.String(p.Description),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, err
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *stripeProvider) IntentStatus(ctx context.Context, intentID string) (string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return "", err
	}
	return string(pi.Status), nil
}

// localProvider issues intents without a processor, for development setups
// with no Stripe key.
type localProvider struct{}

func NewLocalProvider() Provider {
	return localProvider{}
}

func (localProvider) CreateIntent(_ context.Context, _ IntentParams) (*Intent, error) {
	id := "pi_local_" + uuid.NewString()
	return &Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

// IntentStatus reports every local intent as paid.
func (localProvider) IntentStatus(_ context.Context, _ string) (string, error) {
	return IntentSucceeded, nil
}
