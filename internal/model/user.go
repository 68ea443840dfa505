package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User represents a climber in the system
type User struct {
	ID                   uuid.UUID   `db:"id" json:"id"`
	Username             string      `db:"username" json:"username"`
	Email                string      `db:"email" json:"email"`
	FirstName            string      `db:"first_name" json:"first_name"`
	LastName             string      `db:"last_name" json:"last_name"`
	Bio                  *string     `db:"bio" json:"bio"`
	Location             *string     `db:"location" json:"location"`
	HomeLatitude         *float64    `db:"home_latitude" json:"home_latitude"`
	HomeLongitude        *float64    `db:"home_longitude" json:"home_longitude"`
	PreferredGradeSystem GradeSystem `db:"preferred_grade_system" json:"preferred_grade_system"`
	CreatedAt            time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at" json:"updated_at"`
}

// UserSummary is the compact author/friend representation embedded in other payloads.
type UserSummary struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
}

// Summary returns the compact form of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// CreateUserRequest represents the data needed to register a new user
type CreateUserRequest struct {
	Username             string      `json:"username" validate:"required,min=1,max=50"`
	Email                string      `json:"email" validate:"required,email,max=100"`
	FirstName            string      `json:"first_name" validate:"required,max=50"`
	LastName             string      `json:"last_name" validate:"required,max=50"`
	Bio                  *string     `json:"bio"`
	Location             *string     `json:"location" validate:"omitempty,max=100"`
	HomeLatitude         *float64    `json:"home_latitude" validate:"omitempty,latitude"`
	HomeLongitude        *float64    `json:"home_longitude" validate:"omitempty,longitude"`
	PreferredGradeSystem GradeSystem `json:"preferred_grade_system" validate:"omitempty,oneof=v_scale yds font"`
}

// UpdateUserRequest is a partial profile edit; nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName            *string      `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName             *string      `json:"last_name" validate:"omitempty,min=1,max=50"`
	Bio                  *string      `json:"bio"`
	Location             *string      `json:"location" validate:"omitempty,max=100"`
	HomeLatitude         *float64     `json:"home_latitude" validate:"omitempty,latitude"`
	HomeLongitude        *float64     `json:"home_longitude" validate:"omitempty,longitude"`
	PreferredGradeSystem *GradeSystem `json:"preferred_grade_system" validate:"omitempty,oneof=v_scale yds font"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when attempting to create a user with a taken email
	ErrEmailExists = errors.New("email already exists")
)
