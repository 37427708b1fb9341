package user

import (
	"context"
	"database/sql"
	"errors"

	"gymhub/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const selectUser = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.role,
	       u.phone, u.active, u.location_id, l.name AS location_name,
	       u.created_at, u.updated_at
	FROM users u
	LEFT JOIN locations l ON l.id = u.location_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u NewUser) (*User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, role, phone, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Phone, u.LocationID)
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.one(ctx, selectUser+` WHERE u.email = $1`, email)
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.one(ctx, selectUser+` WHERE u.id = $1`, id)
}

func (r *repository) one(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) LocationExists(ctx context.Context, locationID int64) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM locations WHERE id = $1 AND active)`, locationID)
}

func (r *repository) ListByRole(ctx context.Context, role string, locationID *int64) ([]User, error) {
	query := selectUser + ` WHERE u.role = $1`
	args := []any{role}
	if locationID != nil {
		query += ` AND u.location_id = $2`
		args = append(args, *locationID)
	}
	query += ` ORDER BY u.last_name, u.first_name`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) Deactivate(ctx context.Context, id int64, role string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1 AND role = $2`, id, role)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
