package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "管理者"
	RoleClerk Role = "事務員"
)

// User: 本システムにログインできるアカウント（医局の管理者・事務員）
// 専攻医本人はログインせず、希望や重みは事務経由で登録される
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
