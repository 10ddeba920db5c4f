package domain

import "time"

// CommuteCache: 専攻医と病院の組み合わせごとの通勤時間・距離
// 外部の経路検索で取得した値をキャッシュしたもの
type CommuteCache struct {
	ID                 int64     `json:"id"`
	StaffID            int64     `json:"staffID"`
	HospitalID         int64     `json:"hospitalID"`
	DrivingTimeMinutes int32     `json:"drivingTimeMinutes"`
	DrivingDistanceKm  float64   `json:"drivingDistanceKm"`
	CreatedAt          time.Time `json:"createdAt"`
}
