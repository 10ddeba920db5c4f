package repository

import (
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikyoku-dev/resident-match/backend/internal/config"
	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func newRepositoryMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10

	return NewRepository(cfg, db), mock, func() { db.Close() }
}

func TestReplaceAssignmentsForFiscalYear(t *testing.T) {
	hopeRank := int32(1)
	commuteTime := int32(45)

	assignments := []*domain.Assignment{
		{
			StaffID:      1,
			HospitalID:   10,
			StartDate:    time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			FitnessScore: 0.85,
			HopeRank:     &hopeRank,
			CommuteTime:  &commuteTime,
		},
	}

	t.Run("削除と挿入が 1 つのトランザクションで行われる", func(t *testing.T) {
		repo, mock, cleanup := newRepositoryMock(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM assignments WHERE fiscal_year").
			WithArgs(int32(2025)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO assignments").
			WithArgs(
				int64(1), int64(10), int32(2025),
				assignments[0].StartDate, assignments[0].EndDate,
				false, nil, 0.85, &hopeRank, &commuteTime,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "version"}).
				AddRow(int64(100), time.Now(), int32(1)))
		mock.ExpectCommit()

		err := repo.ReplaceAssignmentsForFiscalYear(2025, assignments)
		require.NoError(t, err)

		assert.Equal(t, int64(100), assignments[0].ID)
		assert.Equal(t, int32(2025), assignments[0].FiscalYear)
		assert.Equal(t, int32(1), assignments[0].Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("挿入に失敗したらロールバックされる", func(t *testing.T) {
		repo, mock, cleanup := newRepositoryMock(t)
		defer cleanup()

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM assignments WHERE fiscal_year").
			WithArgs(int32(2025)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("INSERT INTO assignments").
			WillReturnError(errors.New("insert failed"))
		mock.ExpectRollback()

		err := repo.ReplaceAssignmentsForFiscalYear(2025, assignments)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetAssignmentsByFiscalYear(t *testing.T) {
	repo, mock, cleanup := newRepositoryMock(t)
	defer cleanup()

	columns := []string{
		"id", "staff_id", "hospital_id", "fiscal_year",
		"start_date", "end_date", "mismatch_flag", "mismatch_reason",
		"fitness_score", "hope_rank", "commute_time", "created_at", "version",
	}
	reason := domain.MismatchReasonCapacityFull
	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), int64(1), int64(10), int32(2025),
			time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			false, nil, 0.85, int32(1), int32(45), time.Now(), int32(1)).
		AddRow(int64(2), int64(2), int64(20), int32(2025),
			time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			true, reason, 0.3, nil, nil, time.Now(), int32(1))

	mock.ExpectQuery("SELECT (.+) FROM assignments WHERE fiscal_year").
		WithArgs(int32(2025)).
		WillReturnRows(rows)

	assignments, err := repo.GetAssignmentsByFiscalYear(2025)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	assert.Equal(t, int64(10), assignments[0].HospitalID)
	assert.False(t, assignments[0].MismatchFlag)
	require.NotNil(t, assignments[0].HopeRank)
	assert.Equal(t, int32(1), *assignments[0].HopeRank)

	assert.True(t, assignments[1].MismatchFlag)
	require.NotNil(t, assignments[1].MismatchReason)
	assert.Equal(t, domain.MismatchReasonCapacityFull, *assignments[1].MismatchReason)
	assert.Nil(t, assignments[1].HopeRank)
	assert.Nil(t, assignments[1].CommuteTime)

	assert.NoError(t, mock.ExpectationsWereMet())
}
