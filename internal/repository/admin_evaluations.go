package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

// ReplaceAdminEvaluations は指定した専攻医・年度の医局側評価を丸ごと入れ替える
func (r *Repository) ReplaceAdminEvaluations(staffID int64, fiscalYear int32, evaluations []*domain.AdminEvaluation) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM admin_evaluations WHERE staff_id = $1 AND fiscal_year = $2
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, staffID, fiscalYear); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO admin_evaluations (staff_id, factor_id, fiscal_year, value, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	for _, evaluation := range evaluations {
		evaluation.StaffID = staffID
		evaluation.FiscalYear = fiscalYear

		args := []any{evaluation.StaffID, evaluation.FactorID, evaluation.FiscalYear, evaluation.Value, evaluation.Notes}
		if err := tx.QueryRowContext(ctx, insertQuery, args...).Scan(&evaluation.ID, &evaluation.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetAdminEvaluationsByStaffAndYear(staffID int64, fiscalYear int32) ([]*domain.AdminEvaluation, error) {
	query := `
		SELECT id, staff_id, factor_id, fiscal_year, value, notes, created_at
		FROM admin_evaluations
		WHERE staff_id = $1 AND fiscal_year = $2
		ORDER BY factor_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evaluations := make([]*domain.AdminEvaluation, 0)
	for rows.Next() {
		evaluation := &domain.AdminEvaluation{}
		dst := []any{&evaluation.ID, &evaluation.StaffID, &evaluation.FactorID, &evaluation.FiscalYear, &evaluation.Value, &evaluation.Notes, &evaluation.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, evaluation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return evaluations, nil
}

// GetAdminEvaluationMapByFiscalYear は年度内の全評価を
// 専攻医 ID → 要素 ID → 評価値のマップで返す
func (r *Repository) GetAdminEvaluationMapByFiscalYear(fiscalYear int32) (map[int64]map[int64]float64, error) {
	query := `
		SELECT staff_id, factor_id, value
		FROM admin_evaluations
		WHERE fiscal_year = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	evaluationMap := make(map[int64]map[int64]float64)
	for rows.Next() {
		var staffID, factorID int64
		var value float64
		if err := rows.Scan(&staffID, &factorID, &value); err != nil {
			return nil, err
		}

		if _, ok := evaluationMap[staffID]; !ok {
			evaluationMap[staffID] = make(map[int64]float64)
		}
		evaluationMap[staffID][factorID] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return evaluationMap, nil
}
