package domain

import "time"

type FactorType string

const (
	FactorTypeStaffPreference FactorType = "staff_preference"
	FactorTypeAdminEvaluation FactorType = "admin_evaluation"
)

// EvaluationFactor: フィットネス計算に使う評価要素のマスタ
// 専攻医重視要素（年収、通勤時間など）と医局側評価要素（学術実績、人柄など）
type EvaluationFactor struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	FactorType   FactorType `json:"factorType"`
	DisplayOrder int32      `json:"displayOrder"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	Version      int32      `json:"-"`
}

// StaffFactorWeight: 専攻医が各要素をどれだけ重視するか（年度ごと、合計 100 を想定）
type StaffFactorWeight struct {
	ID         int64     `json:"id"`
	StaffID    int64     `json:"staffID"`
	FactorID   int64     `json:"factorID"`
	FiscalYear int32     `json:"fiscalYear"`
	Weight     float64   `json:"weight"` // 0-100
	CreatedAt  time.Time `json:"createdAt"`
}

// AdminEvaluation: 医局側が専攻医に付ける評価値（年度ごと）
type AdminEvaluation struct {
	ID         int64     `json:"id"`
	StaffID    int64     `json:"staffID"`
	FactorID   int64     `json:"factorID"`
	FiscalYear int32     `json:"fiscalYear"`
	Value      float64   `json:"value"` // 0.0-1.0
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
}
