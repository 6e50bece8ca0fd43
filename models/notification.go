package models

import "time"

// Rule types understood by the notification engine. break_reminder is
// stored and listed but has no evaluation logic yet.
const (
	RuleTypeDeadline      = "deadline"
	RuleTypeStudySession  = "study_session"
	RuleTypeStreak        = "streak"
	RuleTypeBreakReminder = "break_reminder"
)

const (
	TriggerUnitMinutes = "minutes"
	TriggerUnitHours   = "hours"
	TriggerUnitDays    = "days"
)

type NotificationRule struct {
	RuleID             uint      `gorm:"primaryKey;column:rule_id" json:"rule_id"`
	UserID             uint      `gorm:"column:user_id" json:"user_id"`
	Name               string    `gorm:"column:name" json:"name"`
	RuleType           string    `gorm:"column:rule_type" json:"rule_type"` // deadline|study_session|streak|break_reminder
	IsEnabled          bool      `gorm:"column:is_enabled" json:"is_enabled"`
	TriggerTime        int       `gorm:"column:trigger_time" json:"trigger_time"`
	TriggerUnit        string    `gorm:"column:trigger_unit" json:"trigger_unit"` // minutes|hours|days
	MessageTemplate    string    `gorm:"column:message_template" json:"message_template"`
	NotificationMethod string    `gorm:"column:notification_method" json:"notification_method"` // in_app|email|both
	Priority           string    `gorm:"column:priority" json:"priority"`                       // low|medium|high
	OnlyOnDays         *string   `gorm:"column:only_on_days" json:"only_on_days,omitempty"`     // csv: mon,tue,...
	TimeRangeStart     *int      `gorm:"column:time_range_start" json:"time_range_start,omitempty"`
	TimeRangeEnd       *int      `gorm:"column:time_range_end" json:"time_range_end,omitempty"`
	CreateAt           time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt           time.Time `gorm:"column:update_at" json:"update_at"`
}

type Notification struct {
	NotificationID   uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID           uint       `gorm:"column:user_id" json:"user_id"`
	RuleID           *uint      `gorm:"column:rule_id" json:"rule_id,omitempty"`
	Title            string     `gorm:"column:title" json:"title"`
	Message          string     `gorm:"column:message" json:"message"`
	NotificationType string     `gorm:"column:notification_type" json:"notification_type"` // deadline|study_session|break|achievement|streak
	Priority         string     `gorm:"column:priority" json:"priority"`
	AssignmentID     *uint      `gorm:"column:assignment_id" json:"assignment_id,omitempty"`
	CalendarBlockID  *uint      `gorm:"column:calendar_block_id" json:"calendar_block_id,omitempty"`
	IsRead           bool       `gorm:"column:is_read" json:"is_read"`
	IsDismissed      bool       `gorm:"column:is_dismissed" json:"is_dismissed"`
	DeliveredAt      time.Time  `gorm:"column:delivered_at" json:"delivered_at"`
	ReadAt           *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	ActionURL        *string    `gorm:"column:action_url" json:"action_url,omitempty"`
	ActionText       *string    `gorm:"column:action_text" json:"action_text,omitempty"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"create_at"`
}

type NotificationPreference struct {
	PreferenceID uint `gorm:"primaryKey;column:preference_id" json:"preference_id"`
	UserID       uint `gorm:"column:user_id;unique" json:"user_id"`

	// Global settings
	NotificationsEnabled bool `gorm:"column:notifications_enabled" json:"notifications_enabled"`
	QuietHoursEnabled    bool `gorm:"column:quiet_hours_enabled" json:"quiet_hours_enabled"`
	QuietHoursStart      int  `gorm:"column:quiet_hours_start" json:"quiet_hours_start"` // hour 0-23
	QuietHoursEnd        int  `gorm:"column:quiet_hours_end" json:"quiet_hours_end"`     // hour 0-23

	// Channels
	InAppEnabled bool `gorm:"column:in_app_enabled" json:"in_app_enabled"`
	EmailEnabled bool `gorm:"column:email_enabled" json:"email_enabled"`

	// Per-category toggles
	DeadlineNotifications     bool `gorm:"column:deadline_notifications" json:"deadline_notifications"`
	StudySessionNotifications bool `gorm:"column:study_session_notifications" json:"study_session_notifications"`
	BreakNotifications        bool `gorm:"column:break_notifications" json:"break_notifications"`
	AchievementNotifications  bool `gorm:"column:achievement_notifications" json:"achievement_notifications"`
	StreakNotifications       bool `gorm:"column:streak_notifications" json:"streak_notifications"`

	// Reserved for a future rate-limit/digest feature; the engine never
	// reads these.
	MaxNotificationsPerHour int  `gorm:"column:max_notifications_per_hour" json:"max_notifications_per_hour"`
	DigestMode              bool `gorm:"column:digest_mode" json:"digest_mode"`

	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides
func (NotificationRule) TableName() string {
	return "notification_rules"
}

func (Notification) TableName() string {
	return "notifications"
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultNotificationPreference returns the preference row created lazily
// for users that have never configured notifications.
func DefaultNotificationPreference(userID uint) NotificationPreference {
	now := time.Now()
	return NotificationPreference{
		UserID:                    userID,
		NotificationsEnabled:      true,
		QuietHoursEnabled:         false,
		QuietHoursStart:           22,
		QuietHoursEnd:             8,
		InAppEnabled:              true,
		EmailEnabled:              false,
		DeadlineNotifications:     true,
		StudySessionNotifications: true,
		BreakNotifications:        true,
		AchievementNotifications:  true,
		StreakNotifications:       true,
		MaxNotificationsPerHour:   5,
		DigestMode:                false,
		CreateAt:                  now,
		UpdateAt:                  now,
	}
}

// DefaultNotificationRules returns the five rules every new user starts
// with. The streak rule is restricted to the evening on purpose.
func DefaultNotificationRules(userID uint) []NotificationRule {
	now := time.Now()
	eveningStart := 18
	eveningEnd := 22

	return []NotificationRule{
		{
			UserID:             userID,
			Name:               "Assignment Due Soon",
			RuleType:           RuleTypeDeadline,
			IsEnabled:          true,
			TriggerTime:        1,
			TriggerUnit:        TriggerUnitDays,
			MessageTemplate:    "⏰ Reminder: '{assignment_name}' is due in {time_remaining}!",
			NotificationMethod: "in_app",
			Priority:           "high",
			CreateAt:           now,
			UpdateAt:           now,
		},
		{
			UserID:             userID,
			Name:               "Assignment Due Today",
			RuleType:           RuleTypeDeadline,
			IsEnabled:          true,
			TriggerTime:        2,
			TriggerUnit:        TriggerUnitHours,
			MessageTemplate:    "🚨 Urgent: '{assignment_name}' is due in {time_remaining}!",
			NotificationMethod: "in_app",
			Priority:           "high",
			CreateAt:           now,
			UpdateAt:           now,
		},
		{
			UserID:             userID,
			Name:               "Study Session Starting",
			RuleType:           RuleTypeStudySession,
			IsEnabled:          true,
			TriggerTime:        15,
			TriggerUnit:        TriggerUnitMinutes,
			MessageTemplate:    "📚 Your study session for '{assignment_name}' starts in {time_remaining}",
			NotificationMethod: "in_app",
			Priority:           "medium",
			CreateAt:           now,
			UpdateAt:           now,
		},
		{
			UserID:             userID,
			Name:               "Break Time Reminder",
			RuleType:           RuleTypeBreakReminder,
			IsEnabled:          true,
			TriggerTime:        0,
			TriggerUnit:        TriggerUnitMinutes,
			MessageTemplate:    "☕ Time for a break! You've been studying for {duration}",
			NotificationMethod: "in_app",
			Priority:           "medium",
			CreateAt:           now,
			UpdateAt:           now,
		},
		{
			UserID:             userID,
			Name:               "Streak at Risk",
			RuleType:           RuleTypeStreak,
			IsEnabled:          true,
			TriggerTime:        20,
			TriggerUnit:        TriggerUnitHours,
			MessageTemplate:    "🔥 Don't break your {streak_days}-day streak! Complete a study session today.",
			NotificationMethod: "in_app",
			Priority:           "medium",
			TimeRangeStart:     &eveningStart,
			TimeRangeEnd:       &eveningEnd,
			CreateAt:           now,
			UpdateAt:           now,
		},
	}
}
