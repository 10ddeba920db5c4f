package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

// ReplaceStaffFactorWeights は指定した専攻医・年度の重みを丸ごと入れ替える
func (r *Repository) ReplaceStaffFactorWeights(staffID int64, fiscalYear int32, weights []*domain.StaffFactorWeight) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM staff_factor_weights WHERE staff_id = $1 AND fiscal_year = $2
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, staffID, fiscalYear); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO staff_factor_weights (staff_id, factor_id, fiscal_year, weight)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	for _, weight := range weights {
		weight.StaffID = staffID
		weight.FiscalYear = fiscalYear

		args := []any{weight.StaffID, weight.FactorID, weight.FiscalYear, weight.Weight}
		if err := tx.QueryRowContext(ctx, insertQuery, args...).Scan(&weight.ID, &weight.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetStaffFactorWeightsByStaffAndYear(staffID int64, fiscalYear int32) ([]*domain.StaffFactorWeight, error) {
	query := `
		SELECT id, staff_id, factor_id, fiscal_year, weight, created_at
		FROM staff_factor_weights
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

	weights := make([]*domain.StaffFactorWeight, 0)
	for rows.Next() {
		weight := &domain.StaffFactorWeight{}
		dst := []any{&weight.ID, &weight.StaffID, &weight.FactorID, &weight.FiscalYear, &weight.Weight, &weight.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		weights = append(weights, weight)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return weights, nil
}

// GetStaffFactorWeightMapByFiscalYear は年度内の全重みを
// 専攻医 ID → 要素 ID → 重みのマップで返す
func (r *Repository) GetStaffFactorWeightMapByFiscalYear(fiscalYear int32) (map[int64]map[int64]float64, error) {
	query := `
		SELECT staff_id, factor_id, weight
		FROM staff_factor_weights
		WHERE fiscal_year = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weightMap := make(map[int64]map[int64]float64)
	for rows.Next() {
		var staffID, factorID int64
		var weight float64
		if err := rows.Scan(&staffID, &factorID, &weight); err != nil {
			return nil, err
		}

		if _, ok := weightMap[staffID]; !ok {
			weightMap[staffID] = make(map[int64]float64)
		}
		weightMap[staffID][factorID] = weight
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return weightMap, nil
}
