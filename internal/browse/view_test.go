package browse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymhub/internal/capacity"
	"gymhub/internal/client"
	"gymhub/internal/coordinator"
	"gymhub/internal/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct{ mock.Mock }

func (m *MockAPI) AvailableAppointments(ctx context.Context) ([]capacity.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]capacity.Appointment), args.Error(1)
}

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

type fakeFeed struct {
	mu          sync.Mutex
	handler     stream.Handler
	onReconnect func()
	started     bool
	closed      bool
	connected   bool
}

func (f *fakeFeed) OnEvent(h stream.Handler)         { f.mu.Lock(); f.handler = h; f.mu.Unlock() }
func (f *fakeFeed) OnStateChange(func(stream.State)) {}
func (f *fakeFeed) OnReconnect(fn func())            { f.mu.Lock(); f.onReconnect = fn; f.mu.Unlock() }
func (f *fakeFeed) Start(context.Context)            { f.mu.Lock(); f.started = true; f.mu.Unlock() }
func (f *fakeFeed) Close()                           { f.mu.Lock(); f.closed = true; f.mu.Unlock() }
func (f *fakeFeed) Connected() bool                  { f.mu.Lock(); defer f.mu.Unlock(); return f.connected }

func (f *fakeFeed) emit(ev capacity.Event) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	h(ev)
}

func listing() []capacity.Appointment {
	return capacity.NormalizeAll([]capacity.Raw{
		{"id": 1, "gymServiceId": 3, "gymServiceName": "Yoga", "maxCapacity": 10, "currentBookings": 2},
		{"id": 2, "gymServiceId": 4, "gymServiceName": "Spin", "maxCapacity": 8, "currentBookings": 7},
	})
}

func TestMount_LoadsListAndCredits(t *testing.T) {
	api := new(MockAPI)
	feed := &fakeFeed{}
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil)
	api.On("AvailableCredits", mock.Anything, int64(3)).Return(2, nil)
	api.On("AvailableCredits", mock.Anything, int64(4)).Return(0, errors.New("down"))

	v := New(api, feed, Options{RefetchOnReconnect: true})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	assert.True(t, feed.started)
	assert.Len(t, v.Appointments(), 2)
	assert.Equal(t, map[int64]int{3: 2, 4: 0}, v.Coordinator().Credits().Snapshot())
	assert.ErrorIs(t, v.Mount(context.Background()), ErrMounted)
}

func TestMount_EventsReconcileBoard(t *testing.T) {
	api := new(MockAPI)
	feed := &fakeFeed{}
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil)
	api.On("AvailableCredits", mock.Anything, mock.Anything).Return(1, nil)

	v := New(api, feed, Options{})
	require.NoError(t, v.Mount(context.Background()))

	feed.emit(capacity.Event{AppointmentID: 2, CurrentParticipants: 8, MaxCapacity: 8, EventType: capacity.BookingCreated})
	feed.emit(capacity.Event{AppointmentID: 99, CurrentParticipants: 1, MaxCapacity: 5, EventType: capacity.BookingCreated})

	spin, ok := v.Board().Get(2)
	require.True(t, ok)
	assert.True(t, spin.IsFull)
	assert.Equal(t, 0, spin.AvailableSpots)
	assert.False(t, v.Coordinator().CanBook(spin))

	yoga, _ := v.Board().Get(1)
	assert.Equal(t, 2, yoga.CurrentBookings)
	assert.Equal(t, 2, v.Board().Len())

	v.Unmount()
	assert.True(t, feed.closed)
}

func TestMount_LoadFailureKeepsFeed(t *testing.T) {
	api := new(MockAPI)
	feed := &fakeFeed{}
	api.On("AvailableAppointments", mock.Anything).Return(nil, errors.New("timeout"))

	v := New(api, feed, Options{})
	err := v.Mount(context.Background())
	defer v.Unmount()

	assert.Error(t, err)
	assert.True(t, feed.started)
	assert.Equal(t, 0, v.Board().Len())
	n, ok := v.Banner().Current()
	require.True(t, ok)
	assert.Equal(t, KindError, n.Kind)
	assert.Equal(t, MsgLoadFailed, n.Message)
}

func TestReconnect_RefetchesList(t *testing.T) {
	api := new(MockAPI)
	feed := &fakeFeed{}
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil).Once()
	api.On("AvailableAppointments", mock.Anything).Return(listing()[:1], nil).Once()
	api.On("AvailableCredits", mock.Anything, mock.Anything).Return(1, nil)

	v := New(api, feed, Options{RefetchOnReconnect: true})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	require.NotNil(t, feed.onReconnect)
	feed.onReconnect()

	assert.Equal(t, 1, v.Board().Len())
	api.AssertNumberOfCalls(t, "AvailableAppointments", 2)
}

func TestReconnect_DisabledByOption(t *testing.T) {
	api := new(MockAPI)
	feed := &fakeFeed{}
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil)
	api.On("AvailableCredits", mock.Anything, mock.Anything).Return(1, nil)

	v := New(api, feed, Options{})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	assert.Nil(t, feed.onReconnect)
}

func TestBook_ShowsOutcome(t *testing.T) {
	api := new(MockAPI)
	feed := &fakeFeed{}
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil)
	api.On("AvailableCredits", mock.Anything, int64(3)).Return(1, nil)
	api.On("AvailableCredits", mock.Anything, int64(4)).Return(0, nil)
	api.On("CreateBooking", mock.Anything, int64(1)).Return(client.Booking{ID: 5, AppointmentID: 1}, nil)

	v := New(api, feed, Options{})
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	out := v.Book(context.Background(), 1)
	assert.Equal(t, coordinator.Confirmed, out.State)
	n, _ := v.Banner().Current()
	assert.Equal(t, KindInfo, n.Kind)
	assert.Equal(t, "Successfully booked Yoga!", n.Message)

	out = v.Book(context.Background(), 2)
	assert.Equal(t, coordinator.MsgNeedCredits, out.Message)
	n, _ = v.Banner().Current()
	assert.Equal(t, KindError, n.Kind)

	out = v.Book(context.Background(), 77)
	assert.Equal(t, MsgNotFound, out.Message)
	api.AssertNumberOfCalls(t, "CreateBooking", 1)
}

func TestLive(t *testing.T) {
	feed := &fakeFeed{connected: true}
	v := New(new(MockAPI), feed, Options{})
	assert.True(t, v.Live())
}

func TestBanner_Expires(t *testing.T) {
	b := NewBanner(time.Second)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.Show(KindError, "nope")
	_, ok := b.Current()
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = b.Current()
	assert.False(t, ok)

	b.Show(KindInfo, "hi")
	b.Dismiss()
	_, ok = b.Current()
	assert.False(t, ok)
}

func TestRemount_WithoutFactory(t *testing.T) {
	api := new(MockAPI)
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil)
	api.On("AvailableCredits", mock.Anything, mock.Anything).Return(1, nil)

	v := New(api, &fakeFeed{}, Options{})
	require.NoError(t, v.Mount(context.Background()))
	v.Unmount()

	assert.ErrorIs(t, v.Mount(context.Background()), ErrUnmounted)
}

func TestRemount_BuildsFreshFeed(t *testing.T) {
	api := new(MockAPI)
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil)
	api.On("AvailableCredits", mock.Anything, mock.Anything).Return(1, nil)

	first := &fakeFeed{}
	second := &fakeFeed{connected: true}
	v := New(api, first, Options{NewFeed: func() Feed { return second }})

	require.NoError(t, v.Mount(context.Background()))
	v.Unmount()
	assert.True(t, first.closed)

	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	assert.True(t, second.started)
	assert.NotNil(t, second.handler)
	assert.True(t, v.Live())
}

func TestReconnect_AfterUnmountIsIgnored(t *testing.T) {
	api := new(MockAPI)
	feed := &fakeFeed{}
	api.On("AvailableAppointments", mock.Anything).Return(listing(), nil).Once()
	api.On("AvailableCredits", mock.Anything, mock.Anything).Return(1, nil)

	v := New(api, feed, Options{RefetchOnReconnect: true})
	require.NoError(t, v.Mount(context.Background()))
	v.Unmount()

	feed.onReconnect()

	api.AssertNumberOfCalls(t, "AvailableAppointments", 1)
	_, shown := v.Banner().Current()
	assert.False(t, shown)
}

func TestRefresh_CancelledContextShowsNoBanner(t *testing.T) {
	api := new(MockAPI)
	api.On("AvailableAppointments", mock.Anything).Return(nil, context.Canceled)

	v := New(api, &fakeFeed{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, v.Refresh(ctx))
	_, shown := v.Banner().Current()
	assert.False(t, shown)
}
