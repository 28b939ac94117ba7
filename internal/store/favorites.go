// internal/store/favorites.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"
)

type FavoriteStore struct {
	db *sql.DB
}

func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

func (s *FavoriteStore) Exists(ctx context.Context, studentID, offerID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM favorites
			WHERE student_id = $1 AND offer_id = $2
		)`, studentID, offerID).Scan(&exists)
	if err != nil {
		return false, errors.NewInternalError(fmt.Errorf("favorite exists check: %w", err))
	}
	return exists, nil
}

func (s *FavoriteStore) Create(ctx context.Context, studentID, offerID string) error {
	// ON CONFLICT keeps toggle races idempotent.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (student_id, offer_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, offer_id) DO NOTHING`,
		studentID, offerID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("insert favorite: %w", err))
	}
	return nil
}

func (s *FavoriteStore) Delete(ctx context.Context, studentID, offerID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE student_id = $1 AND offer_id = $2`,
		studentID, offerID)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("delete favorite: %w", err))
	}
	return nil
}

// ListOffers returns the bookmarked offers of a student, newest bookmark first.
func (s *FavoriteStore) ListOffers(ctx context.Context, studentID string) ([]models.Offer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.company_id, o.organisme, o.contact_name, o.contact_email,
		       o.title, o.description, o.city, o.duration, o.domain, o.remote,
		       o.state, o.closing_reason, o.date_depot
		FROM favorites f
		JOIN offers o ON o.id = f.offer_id
		WHERE f.student_id = $1
		ORDER BY f.created_at DESC`, studentID)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list favorite offers: %w", err))
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		var o models.Offer
		var companyID, closingReason sql.NullString
		err := rows.Scan(
			&o.ID, &companyID, &o.Organisme, &o.ContactName, &o.ContactEmail,
			&o.Title, &o.Description, &o.City, &o.Duration, &o.Domain, &o.Remote,
			&o.State, &closingReason, &o.DateDepot,
		)
		if err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("scan favorite offer: %w", err))
		}
		o.CompanyID = companyID.String
		o.ClosingReason = closingReason.String
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list favorite offers: %w", err))
	}
	return offers, nil
}
