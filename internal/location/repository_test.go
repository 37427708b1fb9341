package location

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var locColumns = []string{"id", "name", "address", "active", "created_at", "updated_at"}

func newTestRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateLocation(t *testing.T) {
	repo, mock := newTestRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO locations`).
		WithArgs("Downtown", "Main St 1").
		WillReturnRows(sqlmock.NewRows(locColumns).AddRow(1, "Downtown", "Main St 1", true, now, now))

	loc, err := repo.Create(context.Background(), "Downtown", "Main St 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), loc.ID)
	assert.True(t, loc.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListLocations(t *testing.T) {
	repo, mock := newTestRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, address, active, created_at, updated_at FROM locations ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(locColumns).
			AddRow(1, "Downtown", "Main St 1", true, now, now).
			AddRow(2, "North", "Elm 4", false, now, now))

	locs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, locs, 2)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`FROM locations WHERE id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(locColumns))

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestNameTaken(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM locations WHERE name = \$1 AND id <> \$2\)`).
		WithArgs("Downtown", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.NameTaken(context.Background(), "Downtown", 1)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDeactivateLocation(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`UPDATE locations SET active = FALSE`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Deactivate(context.Background(), 3), ErrLocationNotFound)
}
