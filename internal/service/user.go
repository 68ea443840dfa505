package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"climbtracker/internal/model"
	"climbtracker/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new climber profile. Username and email must be unique.
func (s *UserService) Register(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return nil, &model.ValidationError{Fields: map[string]string{"username": "is required"}}
	}
	if email == "" {
		return nil, &model.ValidationError{Fields: map[string]string{"email": "is required"}}
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	gradeSystem := req.PreferredGradeSystem
	if gradeSystem == "" {
		gradeSystem = model.GradeSystemVScale
	}

	user := &model.User{
		Username:             username,
		Email:                email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Bio:                  req.Bio,
		Location:             req.Location,
		HomeLatitude:         req.HomeLatitude,
		HomeLongitude:        req.HomeLongitude,
		PreferredGradeSystem: gradeSystem,
	}

	// The unique indexes still catch a concurrent registration.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial profile edit.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	if req.PreferredGradeSystem != nil && !req.PreferredGradeSystem.Valid() {
		return nil, &model.ValidationError{Fields: map[string]string{"preferred_grade_system": "must be one of: v_scale yds font"}}
	}

	user, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
