package capacity

import "sync"

// Apply merges ev into appointments. Only the capacity fields of the matching
// record change; every other field is carried over from the prior record.
// When no record matches, the input slice is returned as is and applied is false.
// The input slice is never modified.
func Apply(appointments []Appointment, ev Event) (out []Appointment, applied bool) {
	idx := -1
	for i := range appointments {
		if appointments[i].ID == ev.AppointmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return appointments, false
	}

	out = make([]Appointment, len(appointments))
	copy(out, appointments)

	a := out[idx]
	a.CurrentBookings = ev.CurrentParticipants
	a.MaxCapacity = ev.MaxCapacity
	a.AvailableSpots = ev.MaxCapacity - ev.CurrentParticipants
	a.IsFull = ev.CurrentParticipants >= ev.MaxCapacity
	out[idx] = a

	return out, true
}

// Board is the appointment collection owned by one view. Events are applied
// in the order Apply is called; there is no version check, so the last
// applied event wins.
type Board struct {
	mu    sync.RWMutex
	items []Appointment
}

func NewBoard() *Board {
	return &Board{}
}

// Replace swaps the whole collection, typically after a list fetch.
func (b *Board) Replace(items []Appointment) {
	cp := make([]Appointment, len(items))
	copy(cp, items)

	b.mu.Lock()
	b.items = cp
	b.mu.Unlock()
}

func (b *Board) Apply(ev Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, applied := Apply(b.items, ev)
	b.items = next
	return applied
}

// Snapshot returns a copy safe to read without holding the board.
func (b *Board) Snapshot() []Appointment {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cp := make([]Appointment, len(b.items))
	copy(cp, b.items)
	return cp
}

func (b *Board) Get(id int64) (Appointment, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, a := range b.items {
		if a.ID == id {
			return a, true
		}
	}
	return Appointment{}, false
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}
