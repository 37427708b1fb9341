package booking

import "time"

const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Booking is a member's seat in an appointment, paid for with one credit.
type Booking struct {
	ID                   int64      `db:"id" json:"id"`
	AppointmentID        int64      `db:"appointment_id" json:"appointmentId"`
	AppointmentStartTime time.Time  `db:"appointment_start_time" json:"appointmentStartTime"`
	AppointmentEndTime   time.Time  `db:"appointment_end_time" json:"appointmentEndTime"`
	GymServiceID         int64      `db:"gym_service_id" json:"gymServiceId"`
	ServiceName          string     `db:"service_name" json:"serviceName"`
	LocationName         string     `db:"location_name" json:"locationName"`
	MemberID             int64      `db:"member_id" json:"memberId"`
	MemberName           string     `db:"member_name" json:"memberName"`
	MemberEmail          string     `db:"member_email" json:"memberEmail,omitempty"`
	MemberCreditID       int64      `db:"member_credit_id" json:"-"`
	Status               string     `db:"status" json:"status"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAt"`
	CancelledAt          *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`
}

type CreateBookingRequest struct {
	AppointmentID int64 `json:"appointmentId" binding:"required,gte=1"`
}

// Change is the outcome of a committed booking mutation with the
// appointment's absolute counts after it.
type Change struct {
	Booking             *Booking
	CurrentParticipants int
	MaxCapacity         int
}
