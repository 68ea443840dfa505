package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"climbtracker/internal/model"
)

func TestProgressService_GetProgress(t *testing.T) {
	// ARRANGE
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	sessions := newMemSessionRepo()
	climbs := &memClimbRepo{}
	userID := uuid.New()

	for i := 0; i < 9; i++ {
		s := sessions.add(userID, now.AddDate(0, 0, -i*10))
		s.DurationMinutes = intPtr(90)
		_ = climbs.Create(context.Background(), nil, &model.Climb{SessionID: s.ID, Grade: "V4", Sent: i%3 == 0, Attempts: 1})
	}
	// Outside the window.
	old := sessions.add(userID, now.AddDate(0, 0, -120))
	_ = climbs.Create(context.Background(), nil, &model.Climb{SessionID: old.ID, Grade: "V9", Sent: true, Attempts: 1})

	svc := NewProgressService(sessions, climbs)
	svc.now = func() time.Time { return now }

	// ACT
	report, err := svc.GetProgress(context.Background(), userID, 90)

	// ASSERT
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalSessions != 9 {
		t.Errorf("total_sessions = %d, want 9", report.TotalSessions)
	}
	if report.SessionFrequencyPerWeek < 0.69 || report.SessionFrequencyPerWeek > 0.71 {
		t.Errorf("session_frequency_per_week = %v, want ~0.70", report.SessionFrequencyPerWeek)
	}
	if report.TotalSends != 3 || report.GradeDistribution["V4"] != 3 {
		t.Errorf("sends = %d dist = %v, want 3 V4 sends", report.TotalSends, report.GradeDistribution)
	}
	if _, ok := report.GradeDistribution["V9"]; ok {
		t.Error("climbs outside the window must not count")
	}
	if report.AvgSessionDuration != 90 {
		t.Errorf("avg_session_duration = %v, want 90", report.AvgSessionDuration)
	}
}

func TestProgressService_UnknownUserGetsZeroReport(t *testing.T) {
	svc := NewProgressService(newMemSessionRepo(), &memClimbRepo{})

	report, err := svc.GetProgress(context.Background(), uuid.New(), 30)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalSessions != 0 || report.SendRatio != 0 || report.PeriodDays != 30 {
		t.Errorf("report = %+v, want zero report for 30 days", report)
	}
}

func TestProgressService_InvalidDays(t *testing.T) {
	svc := NewProgressService(newMemSessionRepo(), &memClimbRepo{})

	for _, days := range []int{0, -7, model.MaxProgressDays + 1} {
		if _, err := svc.GetProgress(context.Background(), uuid.New(), days); !errors.Is(err, model.ErrInvalidDays) {
			t.Errorf("days=%d: error = %v, want ErrInvalidDays", days, err)
		}
	}
}

func TestProgressService_VeryLongWindow(t *testing.T) {
	// ARRANGE: a window far longer than a time.Duration can express.
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	sessions := newMemSessionRepo()
	userID := uuid.New()
	sessions.add(userID, now.AddDate(-1, 0, 0))
	sessions.add(userID, now.AddDate(-2, 0, 0))

	svc := NewProgressService(sessions, &memClimbRepo{})
	svc.now = func() time.Time { return now }

	// ACT
	report, err := svc.GetProgress(context.Background(), userID, 200000)

	// ASSERT
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalSessions != 2 {
		t.Errorf("total_sessions = %d, want 2", report.TotalSessions)
	}
}
