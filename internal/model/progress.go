package model

import "errors"

// ProgressReport summarises a user's climbing over a trailing window of days.
type ProgressReport struct {
	PeriodDays              int            `json:"period_days"`
	TotalSessions           int            `json:"total_sessions"`
	TotalClimbs             int            `json:"total_climbs"`
	TotalSends              int            `json:"total_sends"`
	SendRatio               float64        `json:"send_ratio"`
	SessionFrequencyPerWeek float64        `json:"session_frequency_per_week"`
	GradeDistribution       map[string]int `json:"grade_distribution"`
	AvgSessionDuration      float64        `json:"avg_session_duration"`
}

// DefaultProgressDays is the window used when the caller does not pass days.
const DefaultProgressDays = 90

// MaxProgressDays keeps the window start well after year 1.
const MaxProgressDays = 700000

var ErrInvalidDays = errors.New("days must be between 1 and 700000")
