package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

func (r *Repository) CreateHospital(hospital *domain.Hospital) error {
	query := `
		INSERT INTO hospitals (
			name,
			director_name,
			address,
			resident_capacity,
			specialist_capacity,
			instructor_capacity,
			annual_salary,
			outpatient_flag,
			notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		hospital.Name,
		hospital.DirectorName,
		hospital.Address,
		hospital.ResidentCapacity,
		hospital.SpecialistCapacity,
		hospital.InstructorCapacity,
		hospital.AnnualSalary,
		hospital.OutpatientFlag,
		hospital.Notes,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&hospital.ID, &hospital.CreatedAt, &hospital.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetHospitalByID(id int64) (*domain.Hospital, error) {
	query := `
		SELECT
			name,
			director_name,
			address,
			resident_capacity,
			specialist_capacity,
			instructor_capacity,
			annual_salary,
			outpatient_flag,
			notes,
			created_at,
			version
		FROM hospitals WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	hospital := &domain.Hospital{
		ID: id,
	}

	dst := []any{
		&hospital.Name,
		&hospital.DirectorName,
		&hospital.Address,
		&hospital.ResidentCapacity,
		&hospital.SpecialistCapacity,
		&hospital.InstructorCapacity,
		&hospital.AnnualSalary,
		&hospital.OutpatientFlag,
		&hospital.Notes,
		&hospital.CreatedAt,
		&hospital.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return hospital, nil
}

func (r *Repository) GetAllHospitals() ([]*domain.Hospital, error) {
	query := `
		SELECT
			id,
			name,
			director_name,
			address,
			resident_capacity,
			specialist_capacity,
			instructor_capacity,
			annual_salary,
			outpatient_flag,
			notes,
			created_at,
			version
		FROM hospitals
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hospitals := make([]*domain.Hospital, 0)
	for rows.Next() {
		hospital := &domain.Hospital{}
		dst := []any{
			&hospital.ID,
			&hospital.Name,
			&hospital.DirectorName,
			&hospital.Address,
			&hospital.ResidentCapacity,
			&hospital.SpecialistCapacity,
			&hospital.InstructorCapacity,
			&hospital.AnnualSalary,
			&hospital.OutpatientFlag,
			&hospital.Notes,
			&hospital.CreatedAt,
			&hospital.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		hospitals = append(hospitals, hospital)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return hospitals, nil
}

func (r *Repository) UpdateHospital(hospital *domain.Hospital) error {
	query := `
		UPDATE hospitals
		SET
			name = $1,
			director_name = $2,
			address = $3,
			resident_capacity = $4,
			specialist_capacity = $5,
			instructor_capacity = $6,
			annual_salary = $7,
			outpatient_flag = $8,
			notes = $9,
			version = version + 1
		WHERE id = $10 AND version = $11
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		hospital.Name,
		hospital.DirectorName,
		hospital.Address,
		hospital.ResidentCapacity,
		hospital.SpecialistCapacity,
		hospital.InstructorCapacity,
		hospital.AnnualSalary,
		hospital.OutpatientFlag,
		hospital.Notes,
		hospital.ID,
		hospital.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&hospital.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteHospital(id int64) error {
	query := `
		DELETE FROM hospitals WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
