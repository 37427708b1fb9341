package capacity

import "time"

// Appointment is the canonical client-side projection of a bookable slot.
type Appointment struct {
	ID              int64     `json:"id"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	LocationID      int64     `json:"locationId"`
	LocationName    string    `json:"locationName"`
	ServiceID       int64     `json:"gymServiceId"`
	ServiceName     string    `json:"gymServiceName"`
	MaxCapacity     int       `json:"maxCapacity"`
	CurrentBookings int       `json:"currentBookings"`
	AvailableSpots  int       `json:"availableSpots"`
	IsFull          bool      `json:"isFull"`
	CreatedByID     int64     `json:"createdById,omitempty"`
	CreatedByName   string    `json:"createdByName,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type EventType string

const (
	BookingCreated   EventType = "BOOKING_CREATED"
	BookingCancelled EventType = "BOOKING_CANCELLED"
)

// Event is a pushed capacity change. Counts are absolute, never deltas.
type Event struct {
	AppointmentID       int64     `json:"appointmentId"`
	CurrentParticipants int       `json:"currentParticipants"`
	MaxCapacity         int       `json:"maxCapacity"`
	EventType           EventType `json:"eventType"`
	Timestamp           int64     `json:"timestamp"`
}

// Band classifies how close an appointment is to capacity.
type Band string

const (
	BandOpen       Band = "green"
	BandBusy       Band = "yellow"
	BandAlmostFull Band = "red"
)

func BandFor(current, max int) Band {
	if max <= 0 {
		return BandAlmostFull
	}
	pct := float64(current) / float64(max) * 100
	switch {
	case pct >= 90:
		return BandAlmostFull
	case pct >= 70:
		return BandBusy
	default:
		return BandOpen
	}
}

// FormatEU renders a timestamp as dd/mm/yyyy hh:mm in local time.
func FormatEU(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04")
}
