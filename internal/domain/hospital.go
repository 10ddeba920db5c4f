package domain

import "time"

// Hospital: 専攻医の配置先となる連携病院のマスタ
type Hospital struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	DirectorName       string    `json:"directorName"`
	Address            string    `json:"address"`
	ResidentCapacity   int32     `json:"residentCapacity"`   // 専攻医受入人数
	SpecialistCapacity int32     `json:"specialistCapacity"` // 専門医受入人数
	InstructorCapacity int32     `json:"instructorCapacity"` // 指導医受入人数
	AnnualSalary       float64   `json:"annualSalary"`
	OutpatientFlag     bool      `json:"outpatientFlag"`
	Notes              string    `json:"notes"`
	CreatedAt          time.Time `json:"createdAt"`
	Version            int32     `json:"-"`
}

// TotalCapacity は 3 種類の受入人数の合計
// フィットネス計算では症例数の代理指標として使う
func (h *Hospital) TotalCapacity() int32 {
	return h.ResidentCapacity + h.SpecialistCapacity + h.InstructorCapacity
}
