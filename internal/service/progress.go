package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"climbtracker/internal/model"
	"climbtracker/internal/repository"
	"climbtracker/internal/stats"
)

type ProgressService struct {
	sessionRepo repository.SessionRepository
	climbRepo   repository.ClimbRepository
	now         func() time.Time
}

func NewProgressService(sessionRepo repository.SessionRepository, climbRepo repository.ClimbRepository) *ProgressService {
	return &ProgressService{
		sessionRepo: sessionRepo,
		climbRepo:   climbRepo,
		now:         time.Now,
	}
}

// GetProgress summarises the user's sessions dated within the last days days.
// An unknown user gets an all-zero report.
func (s *ProgressService) GetProgress(ctx context.Context, userID uuid.UUID, days int) (*model.ProgressReport, error) {
	if days < 1 || days > model.MaxProgressDays {
		return nil, model.ErrInvalidDays
	}

	// Calendar arithmetic: a Duration overflows past roughly 292 years.
	cutoff := s.now().AddDate(0, 0, -days)
	sessions, err := s.sessionRepo.ListByUserSince(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var climbs []model.Climb
	if len(sessions) > 0 {
		ids := make([]uuid.UUID, len(sessions))
		for i, sess := range sessions {
			ids[i] = sess.ID
		}
		climbs, err = s.climbRepo.ListBySessions(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list climbs: %w", err)
		}
	}

	report := stats.ComputeProgress(days, sessions, climbs)
	return &report, nil
}
