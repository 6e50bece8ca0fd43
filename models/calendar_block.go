package models

import "time"

type CalendarBlock struct {
	BlockID       uint      `gorm:"primaryKey;column:block_id" json:"block_id"`
	Title         string    `gorm:"column:title" json:"title"`
	StartDatetime time.Time `gorm:"column:start_datetime" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"column:end_datetime" json:"end_datetime"`
	BlockType     string    `gorm:"column:block_type" json:"block_type"` // busy|study
	AssignmentID  *uint     `gorm:"column:assignment_id" json:"assignment_id,omitempty"`

	// Relations
	Assignment *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

func (CalendarBlock) TableName() string {
	return "calendar_blocks"
}
