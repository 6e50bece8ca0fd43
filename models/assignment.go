package models

import "time"

type Assignment struct {
	AssignmentID  uint      `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	UserID        uint      `gorm:"column:user_id" json:"user_id"`
	Name          string    `gorm:"column:name" json:"name"`
	Description   *string   `gorm:"column:description" json:"description,omitempty"`
	DueDate       time.Time `gorm:"column:due_date" json:"due_date"`
	EstimatedTime int       `gorm:"column:estimated_time" json:"estimated_time"` // minutes
	TimeSpent     int       `gorm:"column:time_spent" json:"time_spent"`         // minutes
	Priority      int       `gorm:"column:priority" json:"priority"`             // 1=high, 2=medium, 3=low
	Completed     bool      `gorm:"column:completed" json:"completed"`
	Status        string    `gorm:"column:status" json:"status"` // new|in_progress|completed|blocked
	CreateAt      time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time `gorm:"column:update_at" json:"update_at"`
}

type StudySession struct {
	SessionID    uint       `gorm:"primaryKey;column:session_id" json:"session_id"`
	AssignmentID *uint      `gorm:"column:assignment_id" json:"assignment_id,omitempty"`
	StartTime    time.Time  `gorm:"column:start_time" json:"start_time"`
	EndTime      *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`
	SessionType  string     `gorm:"column:session_type" json:"session_type"` // work|short_break|long_break

	// Relations
	Assignment *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

// TableName overrides
func (Assignment) TableName() string {
	return "assignments"
}

func (StudySession) TableName() string {
	return "study_sessions"
}
