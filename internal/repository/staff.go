package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func (r *Repository) CreateStaff(staff *domain.Staff) error {
	query := `
		INSERT INTO staff (name, email, phone, staff_type, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{staff.Name, staff.Email, staff.Phone, staff.StaffType, staff.Address, staff.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.ID, &staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStaffByID(id int64) (*domain.Staff, error) {
	query := `
		SELECT name, email, phone, staff_type, address, notes, created_at, version
		FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	staff := &domain.Staff{
		ID: id,
	}

	dst := []any{&staff.Name, &staff.Email, &staff.Phone, &staff.StaffType, &staff.Address, &staff.Notes, &staff.CreatedAt, &staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return staff, nil
}

func (r *Repository) GetAllStaff() ([]*domain.Staff, error) {
	query := `
		SELECT id, name, email, phone, staff_type, address, notes, created_at, version
		FROM staff
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffs := make([]*domain.Staff, 0)
	for rows.Next() {
		staff := &domain.Staff{}
		dst := []any{&staff.ID, &staff.Name, &staff.Email, &staff.Phone, &staff.StaffType, &staff.Address, &staff.Notes, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffs = append(staffs, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffs, nil
}

// GetStaffByType は指定した職員種別のみを取得する
// 最適化の対象者（専攻医）の取得に使う
func (r *Repository) GetStaffByType(staffType domain.StaffType) ([]*domain.Staff, error) {
	query := `
		SELECT id, name, email, phone, staff_type, address, notes, created_at, version
		FROM staff
		WHERE staff_type = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffs := make([]*domain.Staff, 0)
	for rows.Next() {
		staff := &domain.Staff{}
		dst := []any{&staff.ID, &staff.Name, &staff.Email, &staff.Phone, &staff.StaffType, &staff.Address, &staff.Notes, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffs = append(staffs, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffs, nil
}

func (r *Repository) UpdateStaff(staff *domain.Staff) error {
	query := `
		UPDATE staff
		SET
			name = $1,
			email = $2,
			phone = $3,
			staff_type = $4,
			address = $5,
			notes = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{staff.Name, staff.Email, staff.Phone, staff.StaffType, staff.Address, staff.Notes, staff.ID, staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStaff(id int64) error {
	query := `
		DELETE FROM staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
