// internal/profile/service.go

// Package profile manages the one-to-one student profiles, created lazily
// on first access.
package profile

import (
	"context"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/models"
)

type Store interface {
	GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	Create(ctx context.Context, userID string) (*models.StudentProfile, error)
	Update(ctx context.Context, p *models.StudentProfile) error
}

type Service struct {
	store  Store
	logger logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "profile"}),
	}
}

// Get returns the user's profile, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, user *models.User) (*models.StudentProfile, error) {
	p, err := s.store.GetByUserID(ctx, user.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}
	return s.store.Create(ctx, user.ID)
}

// Update applies partial changes to the user's profile; empty fields are
// left untouched.
func (s *Service) Update(ctx context.Context, user *models.User, bio, phone, cv string) (*models.StudentProfile, error) {
	p, err := s.Get(ctx, user)
	if err != nil {
		return nil, err
	}
	if bio != "" {
		p.Bio = bio
	}
	if phone != "" {
		p.Phone = phone
	}
	if cv != "" {
		p.CV = cv
	}
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
