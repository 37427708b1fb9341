package location

import (
	"context"
	"database/sql"
	"errors"

	"gymhub/internal/db"

	"github.com/jmoiron/sqlx"
)

const columns = `id, name, address, active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, address string) (*Location, error) {
	query := `
		INSERT INTO locations (name, address)
		VALUES ($1, $2)
		RETURNING ` + columns

	var loc Location
	if err := r.db.GetContext(ctx, &loc, query, name, address); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *repository) List(ctx context.Context) ([]Location, error) {
	locs := []Location{}
	err := r.db.SelectContext(ctx, &locs, `SELECT `+columns+` FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Location, error) {
	var loc Location
	err := r.db.GetContext(ctx, &loc, `SELECT `+columns+` FROM locations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *repository) Update(ctx context.Context, id int64, name, address string) (*Location, error) {
	query := `
		UPDATE locations SET name = $2, address = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columns

	var loc Location
	err := r.db.GetContext(ctx, &loc, query, id, name, address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE locations SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

func (r *repository) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM locations WHERE name = $1 AND id <> $2)`, name, exceptID)
}
