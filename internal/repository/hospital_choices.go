package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

// ReplaceHospitalChoices は指定した専攻医・年度の病院希望を丸ごと入れ替える
// 希望の部分更新は認めず、常に全件削除してから登録し直す
func (r *Repository) ReplaceHospitalChoices(staffID int64, fiscalYear int32, choices []*domain.HospitalChoice) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM hospital_choices WHERE staff_id = $1 AND fiscal_year = $2
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, staffID, fiscalYear); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO hospital_choices (staff_id, hospital_id, fiscal_year, rank)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	for _, choice := range choices {
		choice.StaffID = staffID
		choice.FiscalYear = fiscalYear

		args := []any{choice.StaffID, choice.HospitalID, choice.FiscalYear, choice.Rank}
		if err := tx.QueryRowContext(ctx, insertQuery, args...).Scan(&choice.ID, &choice.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetHospitalChoicesByStaffAndYear(staffID int64, fiscalYear int32) ([]*domain.HospitalChoice, error) {
	query := `
		SELECT id, staff_id, hospital_id, fiscal_year, rank, created_at
		FROM hospital_choices
		WHERE staff_id = $1 AND fiscal_year = $2
		ORDER BY rank
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	choices := make([]*domain.HospitalChoice, 0)
	for rows.Next() {
		choice := &domain.HospitalChoice{}
		dst := []any{&choice.ID, &choice.StaffID, &choice.HospitalID, &choice.FiscalYear, &choice.Rank, &choice.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		choices = append(choices, choice)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return choices, nil
}

// GetHospitalChoiceMapByFiscalYear は年度内の全希望を
// 専攻医 ID → 順位 → 病院 ID の入れ子マップで返す
func (r *Repository) GetHospitalChoiceMapByFiscalYear(fiscalYear int32) (map[int64]map[int32]int64, error) {
	query := `
		SELECT staff_id, hospital_id, rank
		FROM hospital_choices
		WHERE fiscal_year = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	choiceMap := make(map[int64]map[int32]int64)
	for rows.Next() {
		var staffID, hospitalID int64
		var rank int32
		if err := rows.Scan(&staffID, &hospitalID, &rank); err != nil {
			return nil, err
		}

		if _, ok := choiceMap[staffID]; !ok {
			choiceMap[staffID] = make(map[int32]int64)
		}
		choiceMap[staffID][rank] = hospitalID
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return choiceMap, nil
}
