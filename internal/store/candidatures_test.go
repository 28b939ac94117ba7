package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stageconnect/internal/common/errors"
	"stageconnect/internal/models"
)

func candidatureRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "offer_id", "student_id", "status", "date_candidature"})
}

func TestCandidatureStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO candidatures`).
		WithArgs(sqlmock.AnyArg(), "offer-1", "student-1", string(models.CandidaturePending), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewCandidatureStore(db)
	c, err := s.Create(context.Background(), "offer-1", "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.CandidaturePending, c.Status)
	assert.NotEmpty(t, c.DateCandidature)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidatureStore_Create_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO candidatures`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_candidature_student_offer"})

	s := NewCandidatureStore(db)
	_, err = s.Create(context.Background(), "offer-1", "student-1")
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateApplication), "constraint violation maps to the duplicate error, got %v", err)
}

func TestCandidatureStore_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("student-1", "offer-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	s := NewCandidatureStore(db)
	exists, err := s.Exists(context.Background(), "student-1", "offer-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCandidatureStore_CountByOffer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM candidatures WHERE offer_id = \$1`).
		WithArgs("offer-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	s := NewCandidatureStore(db)
	count, err := s.CountByOffer(context.Background(), "offer-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCandidatureStore_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM candidatures WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewCandidatureStore(db)
	err = s.Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestCandidatureStore_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE candidatures SET status = \$2 WHERE id = \$1`).
		WithArgs("cand-1", string(models.CandidatureAccepted)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := NewCandidatureStore(db)
	err = s.UpdateStatus(context.Background(), "cand-1", models.CandidatureAccepted)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCandidatureStore_ListByStudent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := candidatureRows().
		AddRow("cand-2", "offer-2", "student-1", string(models.CandidaturePending), "2026-03-02T09:00:00Z").
		AddRow("cand-1", "offer-1", "student-1", string(models.CandidatureAccepted), "2026-03-01T09:00:00Z")
	mock.ExpectQuery(`FROM candidatures WHERE student_id = \$1`).
		WithArgs("student-1").
		WillReturnRows(rows)

	s := NewCandidatureStore(db)
	out, err := s.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "cand-2", out[0].ID)
	assert.Equal(t, models.CandidatureAccepted, out[1].Status)
}

func TestCandidatureStore_Roster(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "offer_id", "student_id", "status", "date_candidature",
		"id", "username", "email", "first_name", "last_name", "role",
		"id", "bio", "phone", "cv",
	}).AddRow(
		"cand-1", "offer-1", "student-1", string(models.CandidaturePending), "2026-03-01T09:00:00Z",
		"student-1", "alice", "alice@example.org", "Alice", "Martin", string(models.RoleStudent),
		"profile-1", "Étudiante en informatique", "+33600000000", "cv.pdf",
	).AddRow(
		"cand-2", "offer-1", "student-2", string(models.CandidaturePending), "2026-03-02T09:00:00Z",
		"student-2", "bob", "bob@example.org", nil, nil, string(models.RoleStudent),
		nil, nil, nil, nil,
	)
	mock.ExpectQuery(`LEFT JOIN student_profiles`).
		WithArgs("offer-1").
		WillReturnRows(rows)

	s := NewCandidatureStore(db)
	entries, err := s.Roster(context.Background(), "offer-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "alice", entries[0].Student.Username)
	require.NotNil(t, entries[0].Profile)
	assert.Equal(t, "+33600000000", entries[0].Profile.Phone)

	assert.Equal(t, "bob", entries[1].Student.Username)
	assert.Nil(t, entries[1].Profile, "no profile row leaves the entry without one")
}
