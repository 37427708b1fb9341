package gymservice

import "time"

// GymService is a bookable offering at a location. Price is in euro cents.
type GymService struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	PriceCents      int64     `db:"price_cents" json:"price"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	LocationID      int64     `db:"location_id" json:"locationId"`
	LocationName    string    `db:"location_name" json:"locationName"`
	CreatedByID     int64     `db:"created_by" json:"createdById"`
	CreatedByName   string    `db:"created_by_name" json:"createdByName"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

type ServiceRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Description     string `json:"description" binding:"max=1000"`
	PriceCents      int64  `json:"price" binding:"required,gte=1"`
	DurationMinutes int    `json:"durationMinutes" binding:"omitempty,gte=1"`
	LocationID      int64  `json:"locationId" binding:"required"`
}

const DefaultDuration = 60
