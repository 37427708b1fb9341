package user

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Active       bool      `db:"active" json:"active"`
	LocationID   *int64    `db:"location_id" json:"locationId,omitempty"`
	LocationName *string   `db:"location_name" json:"locationName,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// NewUser is the insert payload for Repository.Create.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	Phone        *string
	LocationID   *int64
}

type RegisterRequest struct {
	FirstName  string  `json:"firstName" binding:"required,max=50"`
	LastName   string  `json:"lastName" binding:"required,max=50"`
	Email      string  `json:"email" binding:"required,email,max=100"`
	Password   string  `json:"password" binding:"required,min=6"`
	Phone      *string `json:"phone" binding:"omitempty,max=20"`
	LocationID *int64  `json:"locationId"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateEmployeeRequest struct {
	FirstName  string  `json:"firstName" binding:"required,max=50"`
	LastName   string  `json:"lastName" binding:"required,max=50"`
	Email      string  `json:"email" binding:"required,email,max=100"`
	Password   string  `json:"password" binding:"required,min=6"`
	Phone      *string `json:"phone" binding:"omitempty,max=20"`
	LocationID int64   `json:"locationId" binding:"required"`
}

type AuthResponse struct {
	Token        string  `json:"token"`
	Type         string  `json:"type"`
	UserID       int64   `json:"userId"`
	Email        string  `json:"email"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Role         string  `json:"role"`
	LocationID   *int64  `json:"locationId,omitempty"`
	LocationName *string `json:"locationName,omitempty"`
}
