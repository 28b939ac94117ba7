// internal/store/offers.go

// Package store contains the PostgreSQL persistence layer. Each store runs
// its SQL inline against *sql.DB so tests can drive it with sqlmock.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"

	"github.com/google/uuid"
)

type OfferStore struct {
	db Querier
}

func NewOfferStore(db *sql.DB) *OfferStore {
	return &OfferStore{db: db}
}

// InTx returns a copy of the store that runs its SQL through tx. A nil tx
// returns the store unchanged.
func (s *OfferStore) InTx(tx *sql.Tx) *OfferStore {
	if tx == nil {
		return s
	}
	return &OfferStore{db: tx}
}

const offerColumns = `id, company_id, organisme, contact_name, contact_email, title, description, city, duration, domain, remote, state, closing_reason, date_depot`

func scanOffer(row interface{ Scan(...interface{}) error }) (*models.Offer, error) {
	var o models.Offer
	var companyID, closingReason sql.NullString
	err := row.Scan(
		&o.ID, &companyID, &o.Organisme, &o.ContactName, &o.ContactEmail,
		&o.Title, &o.Description, &o.City, &o.Duration, &o.Domain, &o.Remote,
		&o.State, &closingReason, &o.DateDepot,
	)
	if err != nil {
		return nil, err
	}
	o.CompanyID = companyID.String
	o.ClosingReason = closingReason.String
	return &o, nil
}

func (s *OfferStore) Create(ctx context.Context, draft models.OfferDraft, companyID string) (*models.Offer, error) {
	offer := &models.Offer{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Organisme:    draft.Organisme,
		ContactName:  draft.ContactName,
		ContactEmail: draft.ContactEmail,
		Title:        draft.Title,
		Description:  draft.Description,
		City:         draft.City,
		Duration:     draft.Duration,
		Domain:       draft.Domain,
		Remote:       draft.Remote,
		State:        models.OfferPending,
		DateDepot:    time.Now().UTC().Format(time.RFC3339),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO offers (
			id, company_id, organisme, contact_name, contact_email,
			title, description, city, duration, domain, remote,
			state, closing_reason, date_depot
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULL, $13)`,
		offer.ID,
		nullable(offer.CompanyID),
		offer.Organisme,
		offer.ContactName,
		offer.ContactEmail,
		offer.Title,
		offer.Description,
		offer.City,
		offer.Duration,
		offer.Domain,
		offer.Remote,
		offer.State,
		offer.DateDepot,
	)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("insert offer: %w", err))
	}
	return offer, nil
}

func (s *OfferStore) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	offer, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("Offre", id)
	}
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("get offer: %w", err))
	}
	return offer, nil
}

// SetState persists a state transition decided by the lifecycle engine. The
// engine is the only caller; nothing else writes state or closing_reason.
func (s *OfferStore) SetState(ctx context.Context, id string, state models.OfferState, closingReason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE offers SET state = $2, closing_reason = $3 WHERE id = $1`,
		id, state, nullable(closingReason))
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("update offer state: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("Offre", id)
	}
	return nil
}

// List returns offers matching the filter, newest first.
func (s *OfferStore) List(ctx context.Context, filter models.OfferFilter) ([]models.Offer, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s OR organisme ILIKE %s)", p, p, p))
	}
	if filter.City != "" {
		conds = append(conds, fmt.Sprintf("city ILIKE %s", arg("%"+filter.City+"%")))
	}
	if filter.Duration != "" {
		conds = append(conds, fmt.Sprintf("duration = %s", arg(filter.Duration)))
	}
	if filter.Domain != "" {
		conds = append(conds, fmt.Sprintf("domain = %s", arg(filter.Domain)))
	}
	if filter.Remote != nil {
		conds = append(conds, fmt.Sprintf("remote = %s", arg(*filter.Remote)))
	}
	if len(filter.States) > 0 {
		var ph []string
		for _, st := range filter.States {
			ph = append(ph, arg(string(st)))
		}
		conds = append(conds, fmt.Sprintf("state IN (%s)", strings.Join(ph, ", ")))
	}
	if filter.CompanyID != "" || filter.ContactEmail != "" {
		// Legacy offers predate company binding, hence the email fallback.
		var own []string
		if filter.CompanyID != "" {
			own = append(own, fmt.Sprintf("company_id = %s", arg(filter.CompanyID)))
		}
		if filter.ContactEmail != "" {
			own = append(own, fmt.Sprintf("contact_email = %s", arg(filter.ContactEmail)))
		}
		conds = append(conds, "("+strings.Join(own, " OR ")+")")
	}

	query := `SELECT ` + offerColumns + ` FROM offers`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date_depot DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list offers: %w", err))
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("scan offer: %w", err))
		}
		offers = append(offers, *offer)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("list offers: %w", err))
	}
	return offers, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
