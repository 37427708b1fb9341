package browse

import (
	"context"
	"errors"
	"sync"

	"gymhub/internal/capacity"
	"gymhub/internal/coordinator"
	"gymhub/internal/logger"
	"gymhub/internal/stream"
)

const (
	MsgLoadFailed = "Failed to load appointments"
	MsgNotFound   = "Appointment is no longer available"
)

var (
	ErrMounted   = errors.New("view already mounted")
	ErrUnmounted = errors.New("view was unmounted and has no feed factory")
)

// API is everything the view asks of the server.
type API interface {
	coordinator.API
	AvailableAppointments(ctx context.Context) ([]capacity.Appointment, error)
}

// Feed is the live capacity subscription. *stream.Subscription satisfies it.
type Feed interface {
	OnEvent(h stream.Handler)
	OnStateChange(fn func(stream.State))
	OnReconnect(fn func())
	Start(ctx context.Context)
	Close()
	Connected() bool
}

type Options struct {
	// RefetchOnReconnect reloads the full list after the feed comes back.
	RefetchOnReconnect bool
	Banner             *Banner
	Credits            *coordinator.Credits
	// NewFeed builds a fresh feed for each Mount after the first. Without it
	// a view cannot be mounted again once unmounted.
	NewFeed func() Feed
}

// View is the member-facing list of bookable appointments kept current by
// the capacity feed.
type View struct {
	api    API
	feed   Feed
	board  *capacity.Board
	coord  *coordinator.Coordinator
	banner *Banner
	opts   Options

	mu      sync.Mutex
	mounted bool
	used    bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(api API, feed Feed, opts Options) *View {
	banner := opts.Banner
	if banner == nil {
		banner = NewBanner(0)
	}
	return &View{
		api:    api,
		feed:   feed,
		board:  capacity.NewBoard(),
		coord:  coordinator.New(api, opts.Credits),
		banner: banner,
		opts:   opts,
	}
}

func (v *View) Board() *capacity.Board                { return v.board }
func (v *View) Coordinator() *coordinator.Coordinator { return v.coord }
func (v *View) Banner() *Banner                       { return v.banner }

// Mount loads the list and credits and starts the feed. A failed list load
// leaves the board empty, shows a banner and is returned, but the feed is
// still started.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return ErrMounted
	}
	if v.used {
		if v.opts.NewFeed == nil {
			v.mu.Unlock()
			return ErrUnmounted
		}
		v.feed = v.opts.NewFeed()
	}
	v.mounted = true
	v.used = true
	v.ctx, v.cancel = context.WithCancel(ctx)
	mctx := v.ctx
	feed := v.feed
	v.mu.Unlock()

	loadErr := v.Refresh(mctx)

	feed.OnEvent(func(ev capacity.Event) {
		if v.board.Apply(ev) {
			logger.Debug("capacity updated", "appointment_id", ev.AppointmentID, "current", ev.CurrentParticipants, "max", ev.MaxCapacity)
		}
	})
	feed.OnStateChange(func(s stream.State) {
		logger.Info("capacity feed", "state", s.String())
	})
	if v.opts.RefetchOnReconnect {
		feed.OnReconnect(func() {
			if mctx.Err() != nil {
				return
			}
			if err := v.Refresh(mctx); err != nil {
				logger.Debug("refetch after reconnect failed", "error", err)
			}
		})
	}
	feed.Start(mctx)

	return loadErr
}

// Refresh reloads the appointment list and primes credits for its services.
// On failure the board keeps its last good contents.
func (v *View) Refresh(ctx context.Context) error {
	items, err := v.api.AvailableAppointments(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		logger.Error("failed to load appointments", "error", err)
		v.banner.Show(KindError, MsgLoadFailed)
		return err
	}
	v.board.Replace(items)

	ids := make([]int64, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.ServiceID)
	}
	v.coord.PrimeCredits(ctx, ids)
	return nil
}

// Unmount stops the feed. No event handler runs after it returns.
func (v *View) Unmount() {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return
	}
	v.mounted = false
	cancel := v.cancel
	feed := v.feed
	v.mu.Unlock()

	feed.Close()
	cancel()
}

// Live mirrors the feed's connected flag.
func (v *View) Live() bool {
	v.mu.Lock()
	feed := v.feed
	v.mu.Unlock()
	return feed.Connected()
}

func (v *View) Appointments() []capacity.Appointment {
	return v.board.Snapshot()
}

// Book books the appointment with the given id and shows the outcome.
func (v *View) Book(ctx context.Context, id int64) coordinator.Outcome {
	a, ok := v.board.Get(id)
	if !ok {
		v.banner.Show(KindError, MsgNotFound)
		return coordinator.Outcome{State: coordinator.Failed, Message: MsgNotFound}
	}
	out := v.coord.Book(ctx, a)
	v.show(out)
	return out
}

func (v *View) Cancel(ctx context.Context, bookingID, serviceID int64, confirm func() bool) coordinator.Outcome {
	out := v.coord.Cancel(ctx, bookingID, serviceID, confirm)
	v.show(out)
	return out
}

func (v *View) show(out coordinator.Outcome) {
	switch out.State {
	case coordinator.Failed:
		v.banner.Show(KindError, out.Message)
	case coordinator.Confirmed:
		v.banner.Show(KindInfo, out.Message)
	}
}
