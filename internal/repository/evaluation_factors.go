package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func (r *Repository) CreateEvaluationFactor(factor *domain.EvaluationFactor) error {
	query := `
		INSERT INTO evaluation_factors (name, description, factor_type, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{factor.Name, factor.Description, factor.FactorType, factor.DisplayOrder, factor.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&factor.ID, &factor.CreatedAt, &factor.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllEvaluationFactors() ([]*domain.EvaluationFactor, error) {
	query := `
		SELECT id, name, description, factor_type, display_order, is_active, created_at, version
		FROM evaluation_factors
		ORDER BY factor_type, display_order, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	factors := make([]*domain.EvaluationFactor, 0)
	for rows.Next() {
		factor := &domain.EvaluationFactor{}
		dst := []any{&factor.ID, &factor.Name, &factor.Description, &factor.FactorType, &factor.DisplayOrder, &factor.IsActive, &factor.CreatedAt, &factor.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		factors = append(factors, factor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return factors, nil
}

// GetActiveEvaluationFactorsByType はフィットネス計算に使う有効な要素だけを
// 表示順で返す（計算結果を決定的にするため順序を固定する）
func (r *Repository) GetActiveEvaluationFactorsByType(factorType domain.FactorType) ([]*domain.EvaluationFactor, error) {
	query := `
		SELECT id, name, description, factor_type, display_order, is_active, created_at, version
		FROM evaluation_factors
		WHERE factor_type = $1 AND is_active = TRUE
		ORDER BY display_order, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, factorType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	factors := make([]*domain.EvaluationFactor, 0)
	for rows.Next() {
		factor := &domain.EvaluationFactor{}
		dst := []any{&factor.ID, &factor.Name, &factor.Description, &factor.FactorType, &factor.DisplayOrder, &factor.IsActive, &factor.CreatedAt, &factor.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		factors = append(factors, factor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return factors, nil
}

func (r *Repository) UpdateEvaluationFactor(factor *domain.EvaluationFactor) error {
	query := `
		UPDATE evaluation_factors
		SET
			name = $1,
			description = $2,
			factor_type = $3,
			display_order = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{factor.Name, factor.Description, factor.FactorType, factor.DisplayOrder, factor.IsActive, factor.ID, factor.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&factor.Version); err != nil {
		return err
	}

	return nil
}
