package models

import (
	"time"
)

type User struct {
	UserID           uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username         string     `gorm:"column:username;unique" json:"username"`
	Email            string     `gorm:"column:email;unique" json:"email"`
	PasswordHash     string     `gorm:"column:password_hash" json:"-"`
	TotalPoints      int        `gorm:"column:total_points" json:"total_points"`
	CurrentStreak    int        `gorm:"column:current_streak" json:"current_streak"`
	LongestStreak    int        `gorm:"column:longest_streak" json:"longest_streak"`
	LastActivityDate *time.Time `gorm:"column:last_activity_date" json:"last_activity_date,omitempty"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"create_at"`
}

func (User) TableName() string {
	return "users"
}
