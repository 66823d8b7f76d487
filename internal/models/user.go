package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Name      string    `gorm:"size:150" json:"name"` // 显示名称，为空时使用 Username
	Password  string    `gorm:"not null" json:"-"`    // bcrypt hash
	Bio       string    `gorm:"size:200" json:"bio"`  // 个人简介
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName 返回用于页面展示的名称
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
