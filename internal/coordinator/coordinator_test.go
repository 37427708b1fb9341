package coordinator

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"gymhub/internal/capacity"
	"gymhub/internal/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct{ mock.Mock }

func (m *MockAPI) CreateBooking(ctx context.Context, appointmentID int64) (client.Booking, error) {
	args := m.Called(ctx, appointmentID)
	return args.Get(0).(client.Booking), args.Error(1)
}

func (m *MockAPI) CancelBooking(ctx context.Context, bookingID int64) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *MockAPI) AvailableCredits(ctx context.Context, serviceID int64) (int, error) {
	args := m.Called(ctx, serviceID)
	return args.Int(0), args.Error(1)
}

func yoga() capacity.Appointment {
	return capacity.Appointment{
		ID:              11,
		ServiceID:       3,
		ServiceName:     "Yoga",
		MaxCapacity:     10,
		CurrentBookings: 4,
		AvailableSpots:  6,
	}
}

func TestBook_NoCreditsRefusesLocally(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)
	c.Credits().Set(3, 0)

	out := c.Book(context.Background(), yoga())

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, MsgNeedCredits, out.Message)
	api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "AvailableCredits", mock.Anything, mock.Anything)
}

func TestBook_SuccessRefetchesCredits(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)
	c.Credits().Set(3, 2)

	api.On("CreateBooking", mock.Anything, int64(11)).Return(client.Booking{ID: 90, AppointmentID: 11}, nil)
	api.On("AvailableCredits", mock.Anything, int64(3)).Return(1, nil)

	var states []State
	c.Observe(func(id int64, s State) {
		assert.Equal(t, int64(11), id)
		states = append(states, s)
	})

	a := yoga()
	out := c.Book(context.Background(), a)

	assert.Equal(t, Confirmed, out.State)
	assert.Equal(t, "Successfully booked Yoga!", out.Message)
	assert.Equal(t, int64(90), out.Booking.ID)
	assert.Equal(t, []State{CheckingCredits, Submitting, Confirmed}, states)

	n, ok := c.Credits().Get(3)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
	// counts come from the feed, never from the booking response
	assert.Equal(t, 4, a.CurrentBookings)
	assert.False(t, c.Submitting(11))
	api.AssertExpectations(t)
}

func TestBook_ServerErrorKeepsCache(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)
	c.Credits().Set(3, 2)

	api.On("CreateBooking", mock.Anything, int64(11)).
		Return(client.Booking{}, &client.APIError{Status: http.StatusBadRequest, Message: "You already have a booking for this appointment"})

	out := c.Book(context.Background(), yoga())

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, "You already have a booking for this appointment", out.Message)
	n, _ := c.Credits().Get(3)
	assert.Equal(t, 2, n)
	api.AssertNotCalled(t, "AvailableCredits", mock.Anything, mock.Anything)
}

func TestBook_TransportErrorUsesFallback(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)
	c.Credits().Set(3, 1)

	api.On("CreateBooking", mock.Anything, int64(11)).Return(client.Booking{}, errors.New("connection refused"))

	out := c.Book(context.Background(), yoga())

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, MsgBookFailed, out.Message)
}

func TestBook_CacheMissFetchesBalance(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)

	api.On("AvailableCredits", mock.Anything, int64(3)).Return(0, nil).Once()

	out := c.Book(context.Background(), yoga())

	assert.Equal(t, MsgNeedCredits, out.Message)
	n, ok := c.Credits().Get(3)
	assert.True(t, ok)
	assert.Equal(t, 0, n)
	api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBook_CreditLookupFailureIsNotARejection(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)

	api.On("AvailableCredits", mock.Anything, int64(3)).Return(0, errors.New("connection refused")).Once()

	out := c.Book(context.Background(), yoga())

	assert.Equal(t, Failed, out.State)
	assert.Equal(t, MsgCreditsError, out.Message)
	_, ok := c.Credits().Get(3)
	assert.False(t, ok)
	assert.False(t, c.Submitting(11))
	api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBook_FullAppointment(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)
	c.Credits().Set(3, 5)

	a := yoga()
	a.CurrentBookings, a.AvailableSpots, a.IsFull = 10, 0, true

	assert.False(t, c.CanBook(a))
	out := c.Book(context.Background(), a)
	assert.Equal(t, MsgFull, out.Message)
	api.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBook_InFlightGate(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)
	c.Credits().Set(3, 5)

	release := make(chan struct{})
	entered := make(chan struct{})
	api.On("CreateBooking", mock.Anything, int64(11)).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(client.Booking{ID: 1}, nil).Once()
	api.On("AvailableCredits", mock.Anything, int64(3)).Return(4, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var first Outcome
	go func() {
		defer wg.Done()
		first = c.Book(context.Background(), yoga())
	}()

	<-entered
	assert.False(t, c.CanBook(yoga()))
	second := c.Book(context.Background(), yoga())
	assert.True(t, second.Busy)

	close(release)
	wg.Wait()

	assert.Equal(t, Confirmed, first.State)
	assert.True(t, c.CanBook(yoga()))
	api.AssertNumberOfCalls(t, "CreateBooking", 1)
}

func TestCancel(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		api := new(MockAPI)
		c := New(api, nil)

		out := c.Cancel(context.Background(), 90, 3, func() bool { return false })

		assert.Equal(t, Idle, out.State)
		api.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything)
	})

	t.Run("refunded", func(t *testing.T) {
		api := new(MockAPI)
		c := New(api, nil)
		c.Credits().Set(3, 0)
		api.On("CancelBooking", mock.Anything, int64(90)).Return(nil)

		out := c.Cancel(context.Background(), 90, 3, func() bool { return true })

		assert.Equal(t, Confirmed, out.State)
		assert.Equal(t, MsgCancelled, out.Message)
		_, ok := c.Credits().Get(3)
		assert.False(t, ok)
	})

	t.Run("rejected", func(t *testing.T) {
		api := new(MockAPI)
		c := New(api, nil)
		c.Credits().Set(3, 0)
		api.On("CancelBooking", mock.Anything, int64(90)).
			Return(&client.APIError{Status: http.StatusBadRequest, Message: "Booking is already cancelled"})

		out := c.Cancel(context.Background(), 90, 3, nil)

		assert.Equal(t, Failed, out.State)
		assert.Equal(t, "Booking is already cancelled", out.Message)
		_, ok := c.Credits().Get(3)
		assert.True(t, ok)
	})
}

func TestPrimeCredits(t *testing.T) {
	api := new(MockAPI)
	c := New(api, nil)
	api.On("AvailableCredits", mock.Anything, int64(3)).Return(2, nil).Once()
	api.On("AvailableCredits", mock.Anything, int64(4)).Return(0, errors.New("nope")).Once()

	c.PrimeCredits(context.Background(), []int64{3, 4, 3})

	assert.Equal(t, map[int64]int{3: 2, 4: 0}, c.Credits().Snapshot())
	api.AssertExpectations(t)
}
