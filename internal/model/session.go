package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ClimbingSession is a single visit during which climbs are attempted.
// TotalClimbs, Sends, Attempts and MaxGrade are derived from the session's
// climbs and are only written by the metrics recompute.
type ClimbingSession struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	LocationID      *uuid.UUID `db:"location_id" json:"location_id"`
	Date            time.Time  `db:"date" json:"date"`
	DurationMinutes *int       `db:"duration_minutes" json:"duration_minutes"`
	Notes           *string    `db:"notes" json:"notes"`
	EnergyLevel     *int       `db:"energy_level" json:"energy_level"`
	Conditions      *string    `db:"conditions" json:"conditions"`

	TotalClimbs int     `db:"total_climbs" json:"total_climbs"`
	Sends       int     `db:"sends" json:"sends"`
	Attempts    int     `db:"attempts" json:"attempts"`
	MaxGrade    *string `db:"max_grade" json:"max_grade"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined field (not in climbing_sessions table)
	Climbs []Climb `json:"climbs,omitempty"`
}

// SessionMetrics are the derived counters stored on a session.
type SessionMetrics struct {
	TotalClimbs int     `json:"total_climbs"`
	Sends       int     `json:"sends"`
	Attempts    int     `json:"attempts"`
	MaxGrade    *string `json:"max_grade"`
}

// Climb is one route or problem attempted within a session.
type Climb struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	SessionID   uuid.UUID   `db:"session_id" json:"session_id"`
	ClimbType   ClimbType   `db:"climb_type" json:"climb_type"`
	Grade       string      `db:"grade" json:"grade"`
	GradeSystem GradeSystem `db:"grade_system" json:"grade_system"`
	RouteName   *string     `db:"route_name" json:"route_name"`
	RouteSetter *string     `db:"route_setter" json:"route_setter"`
	Color       *string     `db:"color" json:"color"`
	Sent        bool        `db:"sent" json:"sent"`
	Attempts    int         `db:"attempts" json:"attempts"`
	Flash       bool        `db:"flash" json:"flash"`
	Onsight     bool        `db:"onsight" json:"onsight"`
	StyleNotes  *string     `db:"style_notes" json:"style_notes"`
	Beta        *string     `db:"beta" json:"beta"`
	Rating      *int        `db:"rating" json:"rating"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// ClimbRequest is the body used to add or replace a climb.
type ClimbRequest struct {
	ClimbType   ClimbType   `json:"climb_type" validate:"required,oneof=boulder sport trad top_rope"`
	Grade       string      `json:"grade" validate:"required,max=10"`
	GradeSystem GradeSystem `json:"grade_system" validate:"required,oneof=v_scale yds font"`
	RouteName   *string     `json:"route_name" validate:"omitempty,max=200"`
	RouteSetter *string     `json:"route_setter" validate:"omitempty,max=100"`
	Color       *string     `json:"color" validate:"omitempty,max=50"`
	Sent        bool        `json:"sent"`
	Attempts    *int        `json:"attempts" validate:"omitempty,min=1"`
	Flash       bool        `json:"flash"`
	Onsight     bool        `json:"onsight"`
	StyleNotes  *string     `json:"style_notes"`
	Beta        *string     `json:"beta"`
	Rating      *int        `json:"rating" validate:"omitempty,min=1,max=5"`
}

// ToClimb builds a climb row for the given session, applying the default of one attempt.
func (r ClimbRequest) ToClimb(sessionID uuid.UUID) Climb {
	attempts := 1
	if r.Attempts != nil {
		attempts = *r.Attempts
	}
	return Climb{
		SessionID:   sessionID,
		ClimbType:   r.ClimbType,
		Grade:       r.Grade,
		GradeSystem: r.GradeSystem,
		RouteName:   r.RouteName,
		RouteSetter: r.RouteSetter,
		Color:       r.Color,
		Sent:        r.Sent,
		Attempts:    attempts,
		Flash:       r.Flash,
		Onsight:     r.Onsight,
		StyleNotes:  r.StyleNotes,
		Beta:        r.Beta,
		Rating:      r.Rating,
	}
}

// CreateSessionRequest is the request body for POST /sessions.
type CreateSessionRequest struct {
	LocationID      *uuid.UUID     `json:"location_id"`
	Date            time.Time      `json:"date" validate:"required"`
	DurationMinutes *int           `json:"duration_minutes" validate:"omitempty,gte=0"`
	Notes           *string        `json:"notes"`
	EnergyLevel     *int           `json:"energy_level" validate:"omitempty,min=1,max=10"`
	Conditions      *string        `json:"conditions" validate:"omitempty,max=100"`
	Climbs          []ClimbRequest `json:"climbs" validate:"dive"`
}

// SessionScore pairs a session with its feed score (session date in Unix milliseconds).
type SessionScore struct {
	SessionID uuid.UUID
	Score     int64
}

// Pagination defaults for session listings
const (
	DefaultSessionPageSize = 20
	MaxSessionPageSize     = 100
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrClimbNotFound   = errors.New("climb not found")
)
