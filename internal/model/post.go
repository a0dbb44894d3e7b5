package model

import "time"

// Post 帖子，UserID 指向作者（无外键约束，删除用户不级联）
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	UserID    int64     `json:"userId" gorm:"index:idx_post_user;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }
