package stats

import (
	"math"

	"github.com/google/uuid"

	"climbtracker/internal/model"
)

// ComputeProgress builds a progress report for a window of days from the
// sessions inside the window and the climbs belonging to them. Climbs whose
// session is not in sessions are ignored.
func ComputeProgress(days int, sessions []model.ClimbingSession, climbs []model.Climb) model.ProgressReport {
	inWindow := make(map[uuid.UUID]struct{}, len(sessions))
	totalDuration := 0
	for _, s := range sessions {
		inWindow[s.ID] = struct{}{}
		if s.DurationMinutes != nil {
			totalDuration += *s.DurationMinutes
		}
	}

	report := model.ProgressReport{
		PeriodDays:        days,
		TotalSessions:     len(sessions),
		GradeDistribution: make(map[string]int),
	}

	for _, c := range climbs {
		if _, ok := inWindow[c.SessionID]; !ok {
			continue
		}
		report.TotalClimbs++
		if c.Sent {
			report.TotalSends++
			report.GradeDistribution[c.Grade]++
		}
	}

	if report.TotalClimbs > 0 {
		report.SendRatio = round(float64(report.TotalSends)/float64(report.TotalClimbs), 3)
	}

	// The one-week floor applies to the divisor, so windows shorter than a
	// week report raw session counts.
	weeks := math.Max(1, float64(days)/7)
	report.SessionFrequencyPerWeek = round(float64(report.TotalSessions)/weeks, 2)

	report.AvgSessionDuration = float64(totalDuration) / float64(max(1, report.TotalSessions))

	return report
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
