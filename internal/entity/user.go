package entity

import (
	"time"
)

// User 用户实体
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:64;not null"`
	Email        string     `json:"email" gorm:"size:128;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	Role         string     `json:"role" gorm:"size:16;not null;default:member"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserRole 用户角色
const (
	UserRoleAdmin  = "admin"
	UserRoleMember = "member"
)

// UserStatus 用户状态
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
