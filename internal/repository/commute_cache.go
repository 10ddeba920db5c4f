package repository

import (
	"context"
	"time"

	"github.com/ikyoku-dev/resident-match/backend/internal/domain"
)

// UpsertCommuteCache は専攻医と病院の組み合わせをキーに通勤情報を登録・更新する
// 経路検索の結果は住所が変わらない限り再利用できるのでキャッシュとして持つ
func (r *Repository) UpsertCommuteCache(cache *domain.CommuteCache) error {
	query := `
		INSERT INTO commute_cache (staff_id, hospital_id, driving_time_minutes, driving_distance_km)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (staff_id, hospital_id) DO UPDATE
		SET
			driving_time_minutes = EXCLUDED.driving_time_minutes,
			driving_distance_km = EXCLUDED.driving_distance_km
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{cache.StaffID, cache.HospitalID, cache.DrivingTimeMinutes, cache.DrivingDistanceKm}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&cache.ID, &cache.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllCommuteCaches() ([]*domain.CommuteCache, error) {
	query := `
		SELECT id, staff_id, hospital_id, driving_time_minutes, driving_distance_km, created_at
		FROM commute_cache
		ORDER BY staff_id, hospital_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	caches := make([]*domain.CommuteCache, 0)
	for rows.Next() {
		cache := &domain.CommuteCache{}
		dst := []any{&cache.ID, &cache.StaffID, &cache.HospitalID, &cache.DrivingTimeMinutes, &cache.DrivingDistanceKm, &cache.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		caches = append(caches, cache)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return caches, nil
}

func (r *Repository) GetCommuteCachesByStaffID(staffID int64) ([]*domain.CommuteCache, error) {
	query := `
		SELECT id, staff_id, hospital_id, driving_time_minutes, driving_distance_km, created_at
		FROM commute_cache
		WHERE staff_id = $1
		ORDER BY hospital_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	caches := make([]*domain.CommuteCache, 0)
	for rows.Next() {
		cache := &domain.CommuteCache{}
		dst := []any{&cache.ID, &cache.StaffID, &cache.HospitalID, &cache.DrivingTimeMinutes, &cache.DrivingDistanceKm, &cache.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		caches = append(caches, cache)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return caches, nil
}
