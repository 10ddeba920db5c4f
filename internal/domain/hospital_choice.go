package domain

import "time"

// HospitalChoice: 専攻医の病院希望（第1〜第3希望）
// 同一年度内では順位も病院も重複しない
type HospitalChoice struct {
	ID         int64     `json:"id"`
	StaffID    int64     `json:"staffID"`
	HospitalID int64     `json:"hospitalID"`
	FiscalYear int32     `json:"fiscalYear"`
	Rank       int32     `json:"rank"` // 1-3
	CreatedAt  time.Time `json:"createdAt"`
}
