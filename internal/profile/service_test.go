package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/common/logger"
	"stageconnect/internal/models"
)

type memStore struct {
	byUser  map[string]*models.StudentProfile
	created int
}

func newMemStore() *memStore {
	return &memStore{byUser: make(map[string]*models.StudentProfile)}
}

func (s *memStore) GetByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	p, ok := s.byUser[userID]
	if !ok {
		return nil, errors.NewNotFoundError("Profil", userID)
	}
	copied := *p
	return &copied, nil
}

func (s *memStore) Create(ctx context.Context, userID string) (*models.StudentProfile, error) {
	s.created++
	p := &models.StudentProfile{ID: fmt.Sprintf("profile-%d", s.created), UserID: userID}
	s.byUser[userID] = p
	return p, nil
}

func (s *memStore) Update(ctx context.Context, p *models.StudentProfile) error {
	if _, ok := s.byUser[p.UserID]; !ok {
		return errors.NewNotFoundError("Profil", p.UserID)
	}
	copied := *p
	s.byUser[p.UserID] = &copied
	return nil
}

func TestGet_CreatesLazily(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, logger.NewTestLogger(t))
	user := &models.User{ID: "student-1", Role: models.RoleStudent}

	p, err := svc.Get(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "student-1", p.UserID)
	assert.Equal(t, 1, store.created)

	// Second access reuses the stored profile.
	again, err := svc.Get(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, 1, store.created)
}

func TestUpdate_PartialFields(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, logger.NewTestLogger(t))
	user := &models.User{ID: "student-1", Role: models.RoleStudent}

	p, err := svc.Update(context.Background(), user, "Étudiante en informatique", "+33600000000", "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Étudiante en informatique", p.Bio)

	// Empty fields leave previous values in place.
	p, err = svc.Update(context.Background(), user, "", "+33611111111", "")
	require.NoError(t, err)
	assert.Equal(t, "Étudiante en informatique", p.Bio)
	assert.Equal(t, "+33611111111", p.Phone)
	assert.Equal(t, "cv.pdf", p.CV)

	stored, _ := store.GetByUserID(context.Background(), "student-1")
	assert.Equal(t, "+33611111111", stored.Phone)
}
