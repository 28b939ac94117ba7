// internal/store/stats.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"
)

type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Collect gathers the dashboard aggregates in a handful of queries. The
// date_depot/date_candidature columns hold RFC3339 text, so month bucketing
// uses a substring rather than date_trunc.
func (s *StatsStore) Collect(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE state = 'En attente validation'),
		       COUNT(*) FILTER (WHERE state = 'Validée'),
		       COUNT(*) FILTER (WHERE state = 'Clôturée'),
		       COUNT(*) FILTER (WHERE state = 'Refusée')
		FROM offers`).
		Scan(&stats.TotalOffers, &stats.PendingOffers, &stats.ValidatedOffers,
			&stats.ClosedOffers, &stats.RefusedOffers)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("offer counts: %w", err))
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'En attente'),
		       COUNT(*) FILTER (WHERE status = 'Acceptée'),
		       COUNT(*) FILTER (WHERE status = 'Refusée')
		FROM candidatures`).
		Scan(&stats.TotalCandidatures, &stats.PendingCandidatures,
			&stats.AcceptedCandidatures, &stats.RefusedCandidatures)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("candidature counts: %w", err))
	}

	since := monthsBack(12)
	stats.CandidaturesByMonth, err = s.monthSeries(ctx, `
		SELECT substring(date_candidature from 1 for 7) AS month, COUNT(*)
		FROM candidatures
		WHERE date_candidature >= $1
		GROUP BY month ORDER BY month ASC`, since)
	if err != nil {
		return nil, err
	}

	stats.OffersByMonth, err = s.monthSeries(ctx, `
		SELECT substring(date_depot from 1 for 7) AS month, COUNT(*)
		FROM offers
		WHERE date_depot >= $1
		GROUP BY month ORDER BY month ASC`, since)
	if err != nil {
		return nil, err
	}

	stats.TopOffers, err = s.topOffers(ctx, 5)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// monthsBack returns the RFC3339 start of the month n-1 months before the
// current one. Dates are stored as RFC3339 UTC text, so the comparison in
// SQL is lexicographic and the series spans n trailing months inclusive.
func monthsBack(n int) string {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, -(n - 1), 0).Format(time.RFC3339)
}

func (s *StatsStore) monthSeries(ctx context.Context, query string, args ...interface{}) ([]models.MonthCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("month series: %w", err))
	}
	defer rows.Close()

	var series []models.MonthCount
	for rows.Next() {
		var mc models.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("scan month bucket: %w", err))
		}
		series = append(series, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("month series: %w", err))
	}
	return series, nil
}

func (s *StatsStore) topOffers(ctx context.Context, limit int) ([]models.TopOffer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.title, COUNT(c.id) AS num
		FROM offers o
		LEFT JOIN candidatures c ON c.offer_id = o.id
		GROUP BY o.id, o.title
		ORDER BY num DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("top offers: %w", err))
	}
	defer rows.Close()

	var top []models.TopOffer
	for rows.Next() {
		var t models.TopOffer
		if err := rows.Scan(&t.Title, &t.Count); err != nil {
			return nil, errors.NewInternalError(fmt.Errorf("scan top offer: %w", err))
		}
		top = append(top, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("top offers: %w", err))
	}
	return top, nil
}
