package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"climbtracker/internal/database"
	"climbtracker/internal/logging"
	"climbtracker/internal/metrics"
	"climbtracker/internal/model"
	"climbtracker/internal/queue"
	"climbtracker/internal/repository"
	"climbtracker/internal/stats"
)

type SessionService struct {
	tx           database.Transactor
	sessionRepo  repository.SessionRepository
	climbRepo    repository.ClimbRepository
	userRepo     repository.UserRepository
	locationRepo repository.LocationRepository
	publisher    queue.Publisher
}

func NewSessionService(
	tx database.Transactor,
	sessionRepo repository.SessionRepository,
	climbRepo repository.ClimbRepository,
	userRepo repository.UserRepository,
	locationRepo repository.LocationRepository,
	publisher queue.Publisher,
) *SessionService {
	return &SessionService{
		tx:           tx,
		sessionRepo:  sessionRepo,
		climbRepo:    climbRepo,
		userRepo:     userRepo,
		locationRepo: locationRepo,
		publisher:    publisher,
	}
}

// Create logs a session with its climbs in one transaction and recomputes the
// session counters before commit. A session_created event is published afterwards.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, req *model.CreateSessionRequest) (*model.ClimbingSession, error) {
	if err := validateSessionRequest(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if req.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *req.LocationID); err != nil {
			return nil, err
		}
	}

	session := &model.ClimbingSession{
		UserID:          userID,
		LocationID:      req.LocationID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		EnergyLevel:     req.EnergyLevel,
		Conditions:      req.Conditions,
	}

	var climbs []model.Climb
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.sessionRepo.Create(ctx, tx, session); err != nil {
			return err
		}

		climbs = make([]model.Climb, 0, len(req.Climbs))
		for _, cr := range req.Climbs {
			climb := cr.ToClimb(session.ID)
			if err := s.climbRepo.Create(ctx, tx, &climb); err != nil {
				return err
			}
			climbs = append(climbs, climb)
		}

		m, err := s.RecomputeMetrics(ctx, tx, session.ID)
		if err != nil {
			return err
		}
		applyMetrics(session, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Climbs = climbs

	metrics.SessionsCreated.Inc()
	metrics.ClimbsRecorded.Add(float64(len(climbs)))

	logger := logging.Component("sessions")
	logger.Info().
		Str("session_id", session.ID.String()).
		Str("user_id", userID.String()).
		Int("climbs", len(climbs)).
		Msg("Session created")

	publish(ctx, s.publisher, queue.NewSessionCreatedEvent(session))
	return session, nil
}

// GetByID returns the session with its climbs.
func (s *SessionService) GetByID(ctx context.Context, id uuid.UUID) (*model.ClimbingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	climbs, err := s.climbRepo.ListBySession(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get climbs: %w", err)
	}
	session.Climbs = climbs
	return session, nil
}

// ListByUser returns one page of the user's sessions, newest first.
func (s *SessionService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.ClimbingSession, error) {
	if limit <= 0 {
		limit = model.DefaultSessionPageSize
	}
	if limit > model.MaxSessionPageSize {
		limit = model.MaxSessionPageSize
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// AddClimb appends a climb to an existing session and recomputes its counters.
func (s *SessionService) AddClimb(ctx context.Context, sessionID uuid.UUID, req *model.ClimbRequest) (*model.Climb, error) {
	if err := validateClimbRequest(req, "climb"); err != nil {
		return nil, err
	}

	climb := req.ToClimb(sessionID)
	err := s.mutateClimbs(ctx, sessionID, func(tx *sqlx.Tx) error {
		return s.climbRepo.Create(ctx, tx, &climb)
	})
	if err != nil {
		return nil, err
	}

	metrics.ClimbsRecorded.Inc()
	return &climb, nil
}

// UpdateClimb replaces a climb of the session and recomputes its counters.
func (s *SessionService) UpdateClimb(ctx context.Context, sessionID, climbID uuid.UUID, req *model.ClimbRequest) (*model.Climb, error) {
	if err := validateClimbRequest(req, "climb"); err != nil {
		return nil, err
	}

	climb := req.ToClimb(sessionID)
	climb.ID = climbID
	err := s.mutateClimbs(ctx, sessionID, func(tx *sqlx.Tx) error {
		return s.climbRepo.Update(ctx, tx, &climb)
	})
	if err != nil {
		return nil, err
	}
	return &climb, nil
}

// DeleteClimb removes a climb from the session and recomputes its counters.
func (s *SessionService) DeleteClimb(ctx context.Context, sessionID, climbID uuid.UUID) error {
	return s.mutateClimbs(ctx, sessionID, func(tx *sqlx.Tx) error {
		return s.climbRepo.Delete(ctx, tx, sessionID, climbID)
	})
}

// mutateClimbs locks the session row, applies fn and recomputes the counters,
// all in one transaction.
func (s *SessionService) mutateClimbs(ctx context.Context, sessionID uuid.UUID, fn func(tx *sqlx.Tx) error) error {
	return s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.sessionRepo.LockForUpdate(ctx, tx, sessionID); err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			return err
		}
		_, err := s.RecomputeMetrics(ctx, tx, sessionID)
		return err
	})
}

// RecomputeMetrics derives the session counters from its current climbs and
// stores them. It must run inside the transaction that changed the climbs.
func (s *SessionService) RecomputeMetrics(ctx context.Context, tx *sqlx.Tx, sessionID uuid.UUID) (model.SessionMetrics, error) {
	climbs, err := s.climbRepo.ListBySession(ctx, tx, sessionID)
	if err != nil {
		return model.SessionMetrics{}, fmt.Errorf("load climbs: %w", err)
	}

	m := stats.AggregateSession(climbs)
	if err := s.sessionRepo.UpdateMetrics(ctx, tx, sessionID, m); err != nil {
		return model.SessionMetrics{}, fmt.Errorf("update metrics: %w", err)
	}
	return m, nil
}

func applyMetrics(session *model.ClimbingSession, m model.SessionMetrics) {
	session.TotalClimbs = m.TotalClimbs
	session.Sends = m.Sends
	session.Attempts = m.Attempts
	session.MaxGrade = m.MaxGrade
}

func validateSessionRequest(req *model.CreateSessionRequest) error {
	if req.Date.IsZero() {
		return &model.ValidationError{Fields: map[string]string{"date": "is required"}}
	}
	for i := range req.Climbs {
		if err := validateClimbRequest(&req.Climbs[i], fmt.Sprintf("climbs[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateClimbRequest(req *model.ClimbRequest, prefix string) error {
	fields := make(map[string]string)
	if !req.ClimbType.Valid() {
		fields[prefix+".climb_type"] = "must be one of: boulder sport trad top_rope"
	}
	if !req.GradeSystem.Valid() {
		fields[prefix+".grade_system"] = "must be one of: v_scale yds font"
	}
	if req.Grade == "" {
		fields[prefix+".grade"] = "is required"
	}
	if req.Attempts != nil && *req.Attempts < 1 {
		fields[prefix+".attempts"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return &model.ValidationError{Fields: fields}
	}
	return nil
}
