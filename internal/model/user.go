package model

import "time"

// MaxUserNameLength 用户名最大字符数
const MaxUserNameLength = 128

// User 用户，Name 以大写形式存储
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(128);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
