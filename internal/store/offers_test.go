package store

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func offerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "company_id", "organisme", "contact_name", "contact_email",
		"title", "description", "city", "duration", "domain", "remote",
		"state", "closing_reason", "date_depot",
	})
}

func addOfferRow(rows *sqlmock.Rows, id string, state models.OfferState, reason interface{}) *sqlmock.Rows {
	return rows.AddRow(
		id, nil, "ACME", "Jean Dupont", "jean@acme.example",
		"Stage développement", "Développement d'une application", "Lyon", "6 mois", "Informatique", false,
		string(state), reason, "2026-03-01T10:00:00Z",
	)
}

// ==========================
// Tests
// ==========================

func TestOfferStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO offers`).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), "ACME", "Jean Dupont", "jean@acme.example",
			"Stage développement", "Développement", "Lyon", "6 mois", "Informatique", false,
			string(models.OfferPending), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewOfferStore(db)
	draft := models.OfferDraft{
		Organisme:    "ACME",
		ContactName:  "Jean Dupont",
		ContactEmail: "jean@acme.example",
		Title:        "Stage développement",
		Description:  "Développement",
		City:         "Lyon",
		Duration:     "6 mois",
		Domain:       "Informatique",
	}

	o, err := s.Create(context.Background(), draft, "")
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, models.OfferPending, o.State)
	assert.Empty(t, o.CompanyID)
	assert.NotEmpty(t, o.DateDepot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferStore_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := addOfferRow(offerRows(), "offer-1", models.OfferClosed, models.CapacityClosingReason)
	mock.ExpectQuery(`SELECT (.+) FROM offers WHERE id = \$1`).
		WithArgs("offer-1").
		WillReturnRows(rows)

	s := NewOfferStore(db)
	o, err := s.GetByID(context.Background(), "offer-1")
	require.NoError(t, err)
	assert.Equal(t, models.OfferClosed, o.State)
	assert.Equal(t, models.CapacityClosingReason, o.ClosingReason)
	assert.True(t, o.CapacityClosed())
	assert.Empty(t, o.CompanyID, "NULL company_id scans to empty string")
}

func TestOfferStore_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM offers WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(offerRows())

	s := NewOfferStore(db)
	_, err = s.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestOfferStore_SetState(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE offers SET state = \$2, closing_reason = \$3 WHERE id = \$1`).
		WithArgs("offer-1", string(models.OfferClosed), models.CapacityClosingReason).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewOfferStore(db)
	err = s.SetState(context.Background(), "offer-1", models.OfferClosed, models.CapacityClosingReason)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferStore_SetState_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE offers SET state`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewOfferStore(db)
	err = s.SetState(context.Background(), "missing", models.OfferValidated, "")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestOfferStore_InTx_RunsThroughTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewOfferStore(db)
	assert.Same(t, s, s.InTx(nil))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE offers SET state = \$2, closing_reason = \$3 WHERE id = \$1`).
		WithArgs("offer-1", string(models.OfferClosed), models.CapacityClosingReason).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, s.InTx(tx).SetState(context.Background(), "offer-1", models.OfferClosed, models.CapacityClosingReason))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferStore_List_Filters(t *testing.T) {
	tests := []struct {
		name      string
		filter    models.OfferFilter
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "no filter",
			filter:    models.OfferFilter{},
			wantQuery: `SELECT (.+) FROM offers ORDER BY date_depot DESC`,
		},
		{
			name:      "search matches title description organisme",
			filter:    models.OfferFilter{Search: "python"},
			wantQuery: `title ILIKE \$1 OR description ILIKE \$1 OR organisme ILIKE \$1`,
			wantArgs:  []driver.Value{"%python%"},
		},
		{
			name:      "state scoping",
			filter:    models.OfferFilter{States: []models.OfferState{models.OfferValidated}},
			wantQuery: `state IN \(\$1\)`,
			wantArgs:  []driver.Value{string(models.OfferValidated)},
		},
		{
			name:      "company ownership includes legacy email",
			filter:    models.OfferFilter{CompanyID: "u-company", ContactEmail: "jean@acme.example"},
			wantQuery: `\(company_id = \$1 OR contact_email = \$2\)`,
			wantArgs:  []driver.Value{"u-company", "jean@acme.example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			rows := addOfferRow(offerRows(), "offer-1", models.OfferValidated, nil)
			exp := mock.ExpectQuery(tt.wantQuery)
			if len(tt.wantArgs) > 0 {
				exp = exp.WithArgs(tt.wantArgs...)
			}
			exp.WillReturnRows(rows)

			s := NewOfferStore(db)
			offers, err := s.List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, offers, 1)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
