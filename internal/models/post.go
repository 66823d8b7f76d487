package models

import (
	"strings"
	"time"
)

// PostPreviewLength String() 截取的字符数
const PostPreviewLength = 15

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	GroupID   *uint     `gorm:"index" json:"group_id"` // 可选分组
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `json:"image"` // 媒体存储返回的引用
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Go 小写化的正文，仅用于搜索；SQLite 的 LOWER() 只处理 ASCII
	SearchText string `gorm:"type:text;not null;default:''" json:"-"`

	// 非数据库字段，用于查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}

// SearchKey 返回文本的搜索形式，写入与查询两端共用
func SearchKey(text string) string {
	return strings.ToLower(text)
}

func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > PostPreviewLength {
		return string(runes[:PostPreviewLength])
	}
	return p.Text
}
