package credit

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gymhub/internal/logger"
	"gymhub/internal/metrics"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrProvider        = errors.New("payment provider error")
	ErrNotPaid         = errors.New("payment has not succeeded")
)

// Notifier queues payment receipts. *email.Service satisfies it.
type Notifier interface {
	SendPaymentReceipt(ctx context.Context, to, name, service string, quantity int, amountCents int64) error
}

type Service interface {
	CreatePayment(ctx context.Context, memberID int64, req PaymentRequest) (*Payment, error)
	ConfirmPayment(ctx context.Context, memberID int64, intentID string) (*Payment, error)
	MyPayments(ctx context.Context, memberID int64) ([]Payment, error)
	AvailableCredits(ctx context.Context, memberID, serviceID int64) (*Balance, error)
}

type service struct {
	repo     Repository
	provider Provider
	notifier Notifier
}

func NewService(repo Repository, provider Provider, notifier Notifier) Service {
	return &service{repo: repo, provider: provider, notifier: notifier}
}

// CreatePayment opens a PENDING payment for price x quantity and returns the
// intent's client secret for the card form.
func (s *service) CreatePayment(ctx context.Context, memberID int64, req PaymentRequest) (*Payment, error) {
	svc, err := s.repo.ServicePrice(ctx, req.GymServiceID)
	if err != nil {
		return nil, err
	}

	amount := svc.PriceCents * int64(req.Quantity)
	intent, err := s.provider.CreateIntent(ctx, IntentParams{
		AmountCents: amount,
		Currency:    Currency,
		Description: fmt.Sprintf("Purchase of %dx %s", req.Quantity, svc.Name),
		Metadata: map[string]string{
			"memberId":     strconv.FormatInt(memberID, 10),
			"gymServiceId": strconv.FormatInt(svc.ID, 10),
			"quantity":     strconv.Itoa(req.Quantity),
		},
	})
	if err != nil {
		logger.Error("failed to create payment intent", "member_id", memberID, "service_id", svc.ID, "error", err)
		metrics.RecordPayment(StatusFailed)
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	p := &Payment{
		MemberID:              memberID,
		GymServiceID:          svc.ID,
		GymServiceName:        svc.Name,
		Quantity:              req.Quantity,
		AmountCents:           amount,
		StripePaymentIntentID: intent.ID,
		ClientSecret:          intent.ClientSecret,
		Status:                StatusPending,
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	metrics.RecordPayment(StatusPending)
	logger.Info("payment created", "payment_id", p.ID, "member_id", memberID, "amount_cents", amount)
	return p, nil
}

// ConfirmPayment mints credits once the processor reports the intent paid.
// It is idempotent: confirming a completed payment mints nothing.
func (s *service) ConfirmPayment(ctx context.Context, memberID int64, intentID string) (*Payment, error) {
	current, err := s.repo.GetByIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if current.MemberID != memberID {
		return nil, ErrPaymentNotFound
	}
	if current.Status != StatusCompleted {
		status, err := s.provider.IntentStatus(ctx, intentID)
		if err != nil {
			logger.Error("payment status lookup failed", "payment_id", current.ID, "error", err)
			return nil, fmt.Errorf("%w: %v", ErrProvider, err)
		}
		if status != IntentSucceeded {
			logger.Info("payment not yet paid", "payment_id", current.ID, "status", status)
			return nil, ErrNotPaid
		}
	}

	p, minted, err := s.repo.Confirm(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if !minted {
		logger.Info("payment already completed", "payment_id", p.ID)
		return p, nil
	}

	metrics.RecordPayment(StatusCompleted)
	metrics.RecordCreditsPurchased(strconv.FormatInt(p.GymServiceID, 10), p.Quantity)
	logger.Info("credits minted", "payment_id", p.ID, "member_id", p.MemberID, "quantity", p.Quantity)

	if s.notifier != nil {
		if err := s.notifier.SendPaymentReceipt(ctx, p.MemberEmail, p.MemberName, p.GymServiceName, p.Quantity, p.AmountCents); err != nil {
			logger.Error("failed to queue payment receipt", "payment_id", p.ID, "error", err)
		}
	}
	return p, nil
}

func (s *service) MyPayments(ctx context.Context, memberID int64) ([]Payment, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *service) AvailableCredits(ctx context.Context, memberID, serviceID int64) (*Balance, error) {
	n, err := s.repo.AvailableCredits(ctx, memberID, serviceID)
	if err != nil {
		return nil, err
	}
	return &Balance{GymServiceID: serviceID, AvailableCredits: n}, nil
}
