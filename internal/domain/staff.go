package domain

import "time"

type StaffType string

const (
	StaffTypeResident           StaffType = "専攻医"
	StaffTypeAssistantProfessor StaffType = "助教"
	StaffTypeLecturer           StaffType = "講師"
	StaffTypeAssociateProfessor StaffType = "准教授"
	StaffTypeProfessor          StaffType = "教授"
	StaffTypeAdministrative     StaffType = "事務職員"
)

// Staff: 医局に所属する職員のマスタ
type Staff struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	StaffType StaffType `json:"staffType"`
	Address   string    `json:"address"` // 専攻医の場合は通勤時間計算に使用
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

func (s *Staff) IsResident() bool {
	return s.StaffType == StaffTypeResident
}
