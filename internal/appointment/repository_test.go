package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appointmentColumns = []string{
	"id", "start_time", "end_time", "location_id", "location_name",
	"gym_service_id", "gym_service_name", "max_capacity", "current_bookings",
	"created_by", "created_by_name", "active", "created_at", "updated_at",
}

func newTestRepo(t *testing.T) (Repository, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	db := sqlx.NewDb(raw, "sqlmock")
	return NewRepository(db), db, mock
}

func spinRow(start time.Time, current, capacity int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(appointmentColumns).
		AddRow(12, start, start.Add(time.Hour), 2, "Downtown", 4, "Spin", capacity, current, 9, "Eva Novak", true, now, now)
}

func TestGetByID_DerivesSpots(t *testing.T) {
	repo, _, mock := newTestRepo(t)
	start := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery(`FROM appointments a.*WHERE a.id = \$1`).
		WithArgs(int64(12)).
		WillReturnRows(spinRow(start, 8, 8))

	a, err := repo.GetByID(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "Spin", a.GymServiceName)
	assert.Equal(t, "Downtown", a.LocationName)
	assert.Equal(t, 0, a.AvailableSpots)
	assert.True(t, a.IsFull)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectQuery(`FROM appointments a`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListAvailable(t *testing.T) {
	repo, _, mock := newTestRepo(t)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE a.active AND a.start_time > \$1 AND a.current_bookings < a.max_capacity`).
		WithArgs(now).
		WillReturnRows(spinRow(now.Add(time.Hour), 3, 8))

	items, err := repo.ListAvailable(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].AvailableSpots)
	assert.False(t, items[0].IsFull)
}

func TestUpdate_CapacityGuard(t *testing.T) {
	repo, _, mock := newTestRepo(t)
	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	req := AppointmentRequest{StartTime: start, EndTime: start.Add(time.Hour), LocationID: 2, GymServiceID: 4, MaxCapacity: 2}

	mock.ExpectExec(`UPDATE appointments`).
		WithArgs(int64(12), start, start.Add(time.Hour), int64(2), int64(4), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM appointments a`).
		WithArgs(int64(12)).
		WillReturnRows(spinRow(start, 3, 8))

	_, err := repo.Update(context.Background(), 12, req)
	assert.ErrorIs(t, err, ErrCapacityBelowBookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivate_WithBookings(t *testing.T) {
	repo, _, mock := newTestRepo(t)

	mock.ExpectExec(`UPDATE appointments SET active = FALSE`).
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM appointments a`).
		WithArgs(int64(12)).
		WillReturnRows(spinRow(time.Now(), 1, 8))

	assert.ErrorIs(t, repo.Deactivate(context.Background(), 12), ErrHasBookings)
}

func TestLockAndAdjust(t *testing.T) {
	_, db, mock := newTestRepo(t)
	start := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE OF a`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "start_time", "gym_service_id", "gym_service_name", "location_name",
			"max_capacity", "current_bookings", "active",
		}).AddRow(12, start, 4, "Spin", "Downtown", 8, 3, true))
	mock.ExpectQuery(`SET current_bookings = current_bookings \+ \$2`).
		WithArgs(int64(12), 1).
		WillReturnRows(sqlmock.NewRows([]string{"current_bookings", "max_capacity"}).AddRow(4, 8))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	slot, err := Lock(context.Background(), tx, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(4), slot.GymServiceID)
	assert.Equal(t, 3, slot.CurrentBookings)

	current, maxCapacity, err := AdjustBookings(context.Background(), tx, 12, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, current)
	assert.Equal(t, 8, maxCapacity)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
