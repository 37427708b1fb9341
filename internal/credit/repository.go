package credit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gymhub/internal/db"

	"github.com/jmoiron/sqlx"
)

const selectPayment = `
	SELECT p.id, p.member_id, u.first_name || ' ' || u.last_name AS member_name,
	       u.email AS member_email, p.gym_service_id, s.name AS gym_service_name,
	       p.quantity, p.amount_cents, p.stripe_payment_intent_id, p.status,
	       p.created_at, p.completed_at
	FROM payments p
	JOIN users u ON u.id = p.member_id
	JOIN gym_services s ON s.id = p.gym_service_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ServicePrice(ctx context.Context, serviceID int64) (*Priced, error) {
	var p Priced
	err := r.db.GetContext(ctx, &p,
		`SELECT id, name, price_cents FROM gym_services WHERE id = $1 AND active`, serviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) CreatePayment(ctx context.Context, p *Payment) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO payments (member_id, gym_service_id, quantity, amount_cents, stripe_payment_intent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.MemberID, p.GymServiceID, p.Quantity, p.AmountCents, p.StripePaymentIntentID, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repository) Confirm(ctx context.Context, intentID string) (*Payment, bool, error) {
	var (
		payment *Payment
		minted  bool
	)

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var p Payment
		err := tx.GetContext(ctx, &p, selectPayment+` WHERE p.stripe_payment_intent_id = $1 FOR UPDATE OF p`, intentID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return err
		}
		payment = &p

		if p.Status == StatusCompleted {
			return nil
		}

		var completedAt time.Time
		if err := tx.QueryRowxContext(ctx, `
			UPDATE payments SET status = 'COMPLETED', completed_at = NOW()
			WHERE id = $1
			RETURNING completed_at
		`, p.ID).Scan(&completedAt); err != nil {
			return err
		}
		p.Status = StatusCompleted
		p.CompletedAt = &completedAt

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO member_credits (member_id, gym_service_id, payment_id)
			SELECT $1, $2, $3 FROM generate_series(1, $4)
		`, p.MemberID, p.GymServiceID, p.ID, p.Quantity); err != nil {
			return err
		}
		minted = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return payment, minted, nil
}

func (r *repository) GetByIntent(ctx context.Context, intentID string) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, selectPayment+` WHERE p.stripe_payment_intent_id = $1`, intentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByMember(ctx context.Context, memberID int64) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments,
		selectPayment+` WHERE p.member_id = $1 ORDER BY p.created_at DESC`, memberID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) AvailableCredits(ctx context.Context, memberID, serviceID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM member_credits
		WHERE member_id = $1 AND gym_service_id = $2 AND used = FALSE
	`, memberID, serviceID)
	return n, err
}
