// internal/store/candidatures.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type CandidatureStore struct {
	db Querier
}

func NewCandidatureStore(db *sql.DB) *CandidatureStore {
	return &CandidatureStore{db: db}
}

// InTx returns a copy of the store that runs its SQL through tx. A nil tx
// returns the store unchanged.
func (s *CandidatureStore) InTx(tx *sql.Tx) *CandidatureStore {
	if tx == nil {
		return s
	}
	return &CandidatureStore{db: tx}
}

// Create inserts a pending application. The (student_id, offer_id) unique
// constraint is the hard backstop for the duplicate check.
func (s *CandidatureStore) Create(ctx context.Context, offerID, studentID string) (*models.Candidature, error) {
	c := &models.Candidature{
		ID:              uuid.New().String(),
		OfferID:         offerID,
		StudentID:       studentID,
		Status:          models.CandidaturePending,
		DateCandidature: time.Now().UTC().Format(time.RFC3339),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidatures (id, offer_id, student_id, status, date_candidature)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.OfferID, c.StudentID, c.Status, c.DateCandidature,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
			return nil, errors.NewDuplicateApplicationError(studentID, offerID)
		}
		return nil, errors.NewInternalError(fmt.Errorf("insert candidature: %w", err))
	}
	return c, nil
}

func (s *CandidatureStore) GetByID(ctx context.Context, id string) (*models.Candidature, error) {
	var c models.Candidature
	err := s.db.QueryRowContext(ctx, `
		SELECT id, offer_id, student_id, status, date_candidature
		FROM candidatures WHERE id = $1`, id).
		Scan(&c.ID, &c.OfferID, &c.StudentID, &c.Status, &c.DateCandidature)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Candidature", id)
	}
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("get candidature: %w", err))
	}
	return &c, nil
}

func (s *CandidatureStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidatures WHERE id = $1`, id)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("delete candidature: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("Candidature", id)
	}
	return nil
}

// CountByOffer returns a fresh count; the engines never cache this.
func (s *CandidatureStore) CountByOffer(ctx context.Context, offerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM candidatures WHERE offer_id = $1`, offerID).Scan(&count)
	if err != nil {
		return 0, errors.NewInternalError(fmt.Errorf("count candidatures: %w", err))
	}
	return count, nil
}

func (s *CandidatureStore) Exists(ctx context.Context, studentID, offerID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM candidatures
			WHERE student_id = $1 AND offer_id = $2
		)`, studentID, offerID).Scan(&exists)
	if err != nil {
		return false, errors.NewInternalError(fmt.Errorf("candidature exists check: %w", err))
	}
	return exists, nil
}

func (s *CandidatureStore) UpdateStatus(ctx context.Context, id string, status models.CandidatureStatus) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE candidatures SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("update candidature status: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("Candidature", id)
	}
	return nil
}

func (s *CandidatureStore) ListByStudent(ctx context.Context, studentID string) ([]models.Candidature, error) {
	return s.list(ctx, `
		SELECT id, offer_id, student_id, status, date_candidature
		FROM candidatures WHERE student_id = $1
		ORDER BY date_candidature DESC`, studentID)
}

func (s *CandidatureStore) ListByOffer(ctx context.Context, offerID string) ([]models.Candidature, error) {
	return s.list(ctx, `
		SELECT id, offer_id, student_id, status, date_candidature
		FROM candidatures WHERE offer_id = $1
		ORDER BY date_candidature ASC`, offerID)
}

func (s *CandidatureStore) list(ctx context.Context, query string, args ...interface{}) ([]models.Candidature, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list candidatures: %w", err))
	}
	defer rows.Close()

	var out []models.Candidature
	for rows.Next() {
		var c models.Candidature
		if err := rows.Scan(&c.ID, &c.OfferID, &c.StudentID, &c.Status, &c.DateCandidature); err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("scan candidature: %w", err))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list candidatures: %w", err))
	}
	return out, nil
}

// Roster joins each application of an offer with its applicant and their
// profile, as shown to the owning company and staff.
func (s *CandidatureStore) Roster(ctx context.Context, offerID string) ([]models.RosterEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.offer_id, c.student_id, c.status, c.date_candidature,
		       u.id, u.username, u.email, u.first_name, u.last_name, u.role,
		       p.id, p.bio, p.phone, p.cv
		FROM candidatures c
		JOIN users u ON u.id = c.student_id
		LEFT JOIN student_profiles p ON p.user_id = u.id
		WHERE c.offer_id = $1
		ORDER BY c.date_candidature ASC`, offerID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("roster query: %w", err))
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		var firstName, lastName sql.NullString
		var profileID, bio, phone, cv sql.NullString
		err := rows.Scan(
			&e.Candidature.ID, &e.Candidature.OfferID, &e.Candidature.StudentID,
			&e.Candidature.Status, &e.Candidature.DateCandidature,
			&e.Student.ID, &e.Student.Username, &e.Student.Email,
			&firstName, &lastName, &e.Student.Role,
			&profileID, &bio, &phone, &cv,
		)
		if err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("scan roster entry: %w", err))
		}
		e.Student.FirstName = firstName.String
		e.Student.LastName = lastName.String
		if profileID.Valid {
			e.Profile = &models.StudentProfile{
				ID:     profileID.String,
				UserID: e.Student.ID,
				Bio:    bio.String,
				Phone:  phone.String,
				CV:     cv.String,
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("roster query: %w", err))
	}
	return entries, nil
}
