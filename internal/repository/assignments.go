package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

// ReplaceAssignmentsForFiscalYear は年度の配置結果を丸ごと入れ替える
// 最適化の再実行のたびに前回の結果は破棄される
func (r *Repository) ReplaceAssignmentsForFiscalYear(fiscalYear int32, assignments []*domain.Assignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM assignments WHERE fiscal_year = $1
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, fiscalYear); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO assignments (
			staff_id,
			hospital_id,
			fiscal_year,
			start_date,
			end_date,
			mismatch_flag,
			mismatch_reason,
			fitness_score,
			hope_rank,
			commute_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`
	for _, assignment := range assignments {
		assignment.FiscalYear = fiscalYear

		args := []any{
			assignment.StaffID,
			assignment.HospitalID,
			assignment.FiscalYear,
			assignment.StartDate,
			assignment.EndDate,
			assignment.MismatchFlag,
			assignment.MismatchReason,
			assignment.FitnessScore,
			assignment.HopeRank,
			assignment.CommuteTime,
		}
		if err := tx.QueryRowContext(ctx, insertQuery, args...).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetAssignmentsByFiscalYear(fiscalYear int32) ([]*domain.Assignment, error) {
	query := `
		SELECT
			id,
			staff_id,
			hospital_id,
			fiscal_year,
			start_date,
			end_date,
			mismatch_flag,
			mismatch_reason,
			fitness_score,
			hope_rank,
			commute_time,
			created_at,
			version
		FROM assignments
		WHERE fiscal_year = $1
		ORDER BY staff_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.Assignment, 0)
	for rows.Next() {
		assignment := &domain.Assignment{}
		dst := []any{
			&assignment.ID,
			&assignment.StaffID,
			&assignment.HospitalID,
			&assignment.FiscalYear,
			&assignment.StartDate,
			&assignment.EndDate,
			&assignment.MismatchFlag,
			&assignment.MismatchReason,
			&assignment.FitnessScore,
			&assignment.HopeRank,
			&assignment.CommuteTime,
			&assignment.CreatedAt,
			&assignment.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
