package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stageconnect/internal/models"
)

func TestStatsStore_Collect(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM offers`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "validated", "closed", "refused"}).
			AddRow(10, 3, 4, 2, 1))
	mock.ExpectQuery(`FROM candidatures`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "accepted", "refused"}).
			AddRow(12, 7, 3, 2))
	mock.ExpectQuery(`substring\(date_candidature from 1 for 7\)[\s\S]+WHERE date_candidature >= \$1`).
		WithArgs(monthsBack(12)).
		WillReturnRows(sqlmock.NewRows([]string{"month", "count"}).
			AddRow("2026-02", 5).
			AddRow("2026-03", 7))
	mock.ExpectQuery(`substring\(date_depot from 1 for 7\)[\s\S]+WHERE date_depot >= \$1`).
		WithArgs(monthsBack(12)).
		WillReturnRows(sqlmock.NewRows([]string{"month", "count"}).
			AddRow("2026-01", 10))
	mock.ExpectQuery(`ORDER BY num DESC`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"title", "num"}).
			AddRow("Stage développement", 5).
			AddRow("Stage marketing", 3))

	s := NewStatsStore(db)
	stats, err := s.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, stats.TotalOffers)
	assert.Equal(t, 3, stats.PendingOffers)
	assert.Equal(t, 4, stats.ValidatedOffers)
	assert.Equal(t, 2, stats.ClosedOffers)
	assert.Equal(t, 1, stats.RefusedOffers)

	assert.Equal(t, 12, stats.TotalCandidatures)
	assert.Equal(t, 7, stats.PendingCandidatures)

	require.Len(t, stats.CandidaturesByMonth, 2)
	assert.Equal(t, models.MonthCount{Month: "2026-02", Count: 5}, stats.CandidaturesByMonth[0])
	require.Len(t, stats.OffersByMonth, 1)

	require.Len(t, stats.TopOffers, 2)
	assert.Equal(t, "Stage développement", stats.TopOffers[0].Title)
	assert.Equal(t, 5, stats.TopOffers[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
