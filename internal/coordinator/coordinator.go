package coordinator

import (
	"context"
	"fmt"
	"sync"

	"gymhub/internal/capacity"
	"gymhub/internal/client"
	"gymhub/internal/logger"
)

const (
	MsgNeedCredits  = "You need to purchase credits for this service first!"
	MsgFull         = "This appointment is full"
	MsgBookFailed   = "Failed to book appointment"
	MsgCancelled    = "Booking cancelled. Your credit has been refunded."
	MsgCancelFailed = "Failed to cancel booking"
	MsgCreditsError = "Failed to load your credits. Please try again."
)

// State is where a single booking or cancellation attempt stands.
type State string

const (
	Idle            State = "idle"
	CheckingCredits State = "checking-credits"
	Submitting      State = "submitting"
	Confirmed       State = "idle-with-confirmation"
	Failed          State = "idle-with-error"
)

type Outcome struct {
	State   State
	Message string
	Booking *client.Booking
	// Busy is set when the attempt was dropped because one is already in flight.
	Busy bool
}

// API is the part of the gymhub client the coordinator needs.
type API interface {
	CreateBooking(ctx context.Context, appointmentID int64) (client.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) error
	AvailableCredits(ctx context.Context, serviceID int64) (int, error)
}

// Coordinator gates bookings on the cached credit balance and keeps that
// cache fresh after every mutation. It never touches appointment counts;
// those arrive through the capacity feed.
type Coordinator struct {
	api     API
	credits *Credits

	mu       sync.Mutex
	inflight map[int64]bool
	observer func(id int64, s State)
}

func New(api API, credits *Credits) *Coordinator {
	if credits == nil {
		credits = NewCredits()
	}
	return &Coordinator{
		api:      api,
		credits:  credits,
		inflight: make(map[int64]bool),
	}
}

func (c *Coordinator) Credits() *Credits {
	return c.credits
}

// Observe registers fn to see every state transition. Keys are appointment
// ids for bookings and booking ids for cancellations.
func (c *Coordinator) Observe(fn func(id int64, s State)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

// CanBook reports whether the booking action should be enabled.
func (c *Coordinator) CanBook(a capacity.Appointment) bool {
	if a.IsFull {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.inflight[a.ID]
}

// Submitting reports whether a request for appointment id is in flight.
func (c *Coordinator) Submitting(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[id]
}

// PrimeCredits loads balances for the given services. A failed lookup is
// cached as zero.
func (c *Coordinator) PrimeCredits(ctx context.Context, serviceIDs []int64) {
	seen := make(map[int64]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		n, err := c.api.AvailableCredits(ctx, id)
		if err != nil {
			logger.Debug("credit lookup failed", "service_id", id, "error", err)
			n = 0
		}
		c.credits.Set(id, n)
	}
}

// Book runs one booking attempt for a.
func (c *Coordinator) Book(ctx context.Context, a capacity.Appointment) Outcome {
	if a.IsFull {
		return Outcome{State: Failed, Message: MsgFull}
	}
	if !c.acquire(a.ID) {
		return Outcome{State: Submitting, Busy: true}
	}
	defer c.release(a.ID)

	c.transition(a.ID, CheckingCredits)
	credits, ok := c.credits.Get(a.ServiceID)
	if !ok {
		n, err := c.api.AvailableCredits(ctx, a.ServiceID)
		if err != nil {
			logger.Error("credit lookup failed", "service_id", a.ServiceID, "error", err)
			return c.finish(a.ID, Outcome{State: Failed, Message: client.MessageOf(err, MsgCreditsError)})
		}
		c.credits.Set(a.ServiceID, n)
		credits = n
	}
	if credits <= 0 {
		return c.finish(a.ID, Outcome{State: Failed, Message: MsgNeedCredits})
	}

	c.transition(a.ID, Submitting)
	b, err := c.api.CreateBooking(ctx, a.ID)
	if err != nil {
		logger.Info("booking rejected", "appointment_id", a.ID, "error", err)
		return c.finish(a.ID, Outcome{State: Failed, Message: client.MessageOf(err, MsgBookFailed)})
	}

	c.refreshCredits(ctx, a.ServiceID)

	return c.finish(a.ID, Outcome{
		State:   Confirmed,
		Message: fmt.Sprintf("Successfully booked %s!", a.ServiceName),
		Booking: &b,
	})
}

// Cancel cancels bookingID after confirm approves it. serviceID names the
// balance to invalidate; the refund itself is trusted, not verified.
func (c *Coordinator) Cancel(ctx context.Context, bookingID, serviceID int64, confirm func() bool) Outcome {
	if confirm != nil && !confirm() {
		return Outcome{State: Idle}
	}
	key := -bookingID
	if !c.acquire(key) {
		return Outcome{State: Submitting, Busy: true}
	}
	defer c.release(key)

	c.transition(bookingID, Submitting)
	if err := c.api.CancelBooking(ctx, bookingID); err != nil {
		logger.Info("cancellation rejected", "booking_id", bookingID, "error", err)
		return c.finish(bookingID, Outcome{State: Failed, Message: client.MessageOf(err, MsgCancelFailed)})
	}

	c.credits.Invalidate(serviceID)
	return c.finish(bookingID, Outcome{State: Confirmed, Message: MsgCancelled})
}

func (c *Coordinator) refreshCredits(ctx context.Context, serviceID int64) {
	n, err := c.api.AvailableCredits(ctx, serviceID)
	if err != nil {
		logger.Error("failed to refresh credits", "service_id", serviceID, "error", err)
		c.credits.Invalidate(serviceID)
		return
	}
	c.credits.Set(serviceID, n)
}

func (c *Coordinator) acquire(key int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return false
	}
	c.inflight[key] = true
	return true
}

func (c *Coordinator) release(key int64) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

func (c *Coordinator) finish(id int64, o Outcome) Outcome {
	c.transition(id, o.State)
	return o
}

func (c *Coordinator) transition(id int64, s State) {
	c.mu.Lock()
	fn := c.observer
	c.mu.Unlock()
	if fn != nil {
		fn(id, s)
	}
}
