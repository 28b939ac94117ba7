// internal/store/profiles.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"

	"github.com/google/uuid"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// GetByUserID returns the profile for a user, or NotFound when none exists
// yet. Lazy creation is the service's job, not the store's.
func (s *ProfileStore) GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	var p models.StudentProfile
	var bio, phone, cv sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, bio, phone, cv
		FROM student_profiles WHERE user_id = $1`, userID).
		Scan(&p.ID, &p.UserID, &bio, &phone, &cv)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Profil étudiant", userID)
	}
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("get profile: %w", err))
	}
	p.Bio = bio.String
	p.Phone = phone.String
	p.CV = cv.String
	return &p, nil
}

func (s *ProfileStore) Create(ctx context.Context, userID string) (*models.StudentProfile, error) {
	p := &models.StudentProfile{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO student_profiles (id, user_id) VALUES ($1, $2)`,
		p.ID, p.UserID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("insert profile: %w", err))
	}
	return p, nil
}

func (s *ProfileStore) Update(ctx context.Context, p *models.StudentProfile) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE student_profiles SET bio = $2, phone = $3, cv = $4 WHERE id = $1`,
		p.ID, nullable(p.Bio), nullable(p.Phone), nullable(p.CV))
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("update profile: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("Profil étudiant", p.ID)
	}
	return nil
}
