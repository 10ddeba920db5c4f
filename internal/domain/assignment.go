package domain

import "time"

const (
	MismatchReasonNoPreference        = "希望なし"
	MismatchReasonCapacityFull        = "受入人数上限"
	MismatchReasonLowFitness          = "適合度不足"
	MismatchReasonConstraintViolation = "制約違反"
)

// Assignment: 年度ごとの専攻医配置結果
type Assignment struct {
	ID             int64     `json:"id"`
	StaffID        int64     `json:"staffID"`
	HospitalID     int64     `json:"hospitalID"`
	FiscalYear     int32     `json:"fiscalYear"`
	StartDate      time.Time `json:"startDate"` // 年度の 4/1
	EndDate        time.Time `json:"endDate"`   // 翌年の 3/31
	MismatchFlag   bool      `json:"mismatchFlag"`
	MismatchReason *string   `json:"mismatchReason"` // アンマッチ時のみ設定
	FitnessScore   float64   `json:"fitnessScore"`
	HopeRank       *int32    `json:"hopeRank"`    // 1-3、希望外の場合 nil
	CommuteTime    *int32    `json:"commuteTime"` // 分、キャッシュ未登録の場合 nil
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
