package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash", "role",
	"phone", "active", "location_id", "location_name", "created_at", "updated_at",
}

func newTestRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newTestRepo(t)
	now := time.Now()
	loc := int64(2)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ana", "Lopez", "ana@example.com", "hash", "MEMBER", nil, loc).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`FROM users u\s+LEFT JOIN locations l ON l.id = u.location_id\s+WHERE u.id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "Ana", "Lopez", "ana@example.com", "hash", "MEMBER", nil, true, loc, "Downtown", now, now))

	u, err := repo.Create(context.Background(), NewUser{
		FirstName:    "Ana",
		LastName:     "Lopez",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		Role:         "MEMBER",
		LocationID:   &loc,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "Downtown", *u.LocationName)
	assert.Equal(t, "Ana Lopez", u.FullName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`WHERE u.email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListByRole(t *testing.T) {
	repo, mock := newTestRepo(t)
	now := time.Now()
	loc := int64(3)

	mock.ExpectQuery(`WHERE u.role = \$1 AND u.location_id = \$2 ORDER BY`).
		WithArgs("EMPLOYEE", loc).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "Eva", "Novak", "eva@example.com", "h", "EMPLOYEE", "555", true, loc, "North", now, now).
			AddRow(2, "Ivo", "Horvat", "ivo@example.com", "h", "EMPLOYEE", nil, false, loc, "North", now, now))

	users, err := repo.ListByRole(context.Background(), "EMPLOYEE", &loc)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "555", *users[0].Phone)
	assert.False(t, users[1].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec(`UPDATE users SET active = FALSE`).
		WithArgs(int64(4), "EMPLOYEE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET active = FALSE`).
		WithArgs(int64(5), "EMPLOYEE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Deactivate(context.Background(), 4, "EMPLOYEE"))
	assert.ErrorIs(t, repo.Deactivate(context.Background(), 5, "EMPLOYEE"), ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
