package appointment

import "time"

// Appointment is a scheduled session of a gym service with fixed capacity.
// AvailableSpots and IsFull are derived from the counts on every read.
type Appointment struct {
	ID              int64     `db:"id" json:"id"`
	StartTime       time.Time `db:"start_time" json:"startTime"`
	EndTime         time.Time `db:"end_time" json:"endTime"`
	LocationID      int64     `db:"location_id" json:"locationId"`
	LocationName    string    `db:"location_name" json:"locationName"`
	GymServiceID    int64     `db:"gym_service_id" json:"gymServiceId"`
	GymServiceName  string    `db:"gym_service_name" json:"gymServiceName"`
	MaxCapacity     int       `db:"max_capacity" json:"maxCapacity"`
	CurrentBookings int       `db:"current_bookings" json:"currentBookings"`
	AvailableSpots  int       `db:"-" json:"availableSpots"`
	IsFull          bool      `db:"-" json:"isFull"`
	CreatedByID     int64     `db:"created_by" json:"createdById"`
	CreatedByName   string    `db:"created_by_name" json:"createdByName"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

func (a *Appointment) derive() {
	a.AvailableSpots = a.MaxCapacity - a.CurrentBookings
	if a.AvailableSpots < 0 {
		a.AvailableSpots = 0
	}
	a.IsFull = a.CurrentBookings >= a.MaxCapacity
}

// Bookable reports whether a member could book a at now.
func (a Appointment) Bookable(now time.Time) bool {
	return a.Active && a.StartTime.After(now) && a.CurrentBookings < a.MaxCapacity
}

type AppointmentRequest struct {
	StartTime    time.Time `json:"startTime" binding:"required"`
	EndTime      time.Time `json:"endTime" binding:"required"`
	LocationID   int64     `json:"locationId" binding:"required"`
	GymServiceID int64     `json:"gymServiceId" binding:"required"`
	MaxCapacity  int       `json:"maxCapacity" binding:"required,gte=1,lte=500"`
}
