// internal/identity/service.go

// Package identity is the user and role directory. A user holds exactly one
// role; superusers bypass all role checks.
package identity

import (
	"context"

	"stageconnect/internal/authz"
	"stageconnect/internal/common/errors"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/models"
	"stageconnect/internal/notify"
)

type UserStore interface {
	Create(ctx context.Context, username, email string, role models.Role) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) error
	List(ctx context.Context) ([]models.User, error)
}

type ProfileStore interface {
	Create(ctx context.Context, userID string) (*models.StudentProfile, error)
}

type Service struct {
	users    UserStore
	profiles ProfileStore
	gate     *authz.Gate
	logger   logger.Logger
}

func NewService(users UserStore, profiles ProfileStore, gate *authz.Gate, log logger.Logger) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		gate:     gate,
		logger:   log.WithFields(map[string]interface{}{"component": "identity"}),
	}
}

// Register creates an account with the given role, defaulting to Student.
// Students get their profile eagerly so the first application has a dossier
// to attach.
func (s *Service) Register(ctx context.Context, username, email string, role models.Role) (*models.User, []notify.Event, error) {
	if username == "" {
		return nil, nil, errors.NewValidationError("username requis")
	}
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return nil, nil, errors.NewValidationError("rôle inconnu: " + string(role))
	}

	user, err := s.users.Create(ctx, username, email, role)
	if err != nil {
		return nil, nil, err
	}

	if role == models.RoleStudent {
		if _, err := s.profiles.Create(ctx, user.ID); err != nil {
			s.logger.Warn("student profile creation failed", map[string]interface{}{
				"userId": user.ID,
				"error":  err.Error(),
			})
		}
	}

	s.logger.Info("user registered", map[string]interface{}{
		"userId": user.ID,
		"role":   role,
	})
	return user, []notify.Event{notify.UserEvent(notify.EventUserRegistered, user)}, nil
}

// ChangeRole rewrites a user's role. Admin grants carry the staff and
// superuser flags; everything else revokes them.
func (s *Service) ChangeRole(ctx context.Context, userID string, newRole models.Role, actor *models.User) (*models.User, error) {
	if err := s.gate.CanManageUsers(actor); err != nil {
		return nil, err
	}
	if !models.ValidRole(newRole) {
		return nil, errors.NewValidationError("rôle inconnu: " + string(newRole))
	}
	if err := s.users.SetRole(ctx, userID, newRole); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// Get returns one user by id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns all users, admin-only.
func (s *Service) List(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := s.gate.CanManageUsers(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}
