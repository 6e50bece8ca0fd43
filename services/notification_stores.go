package services

import (
	"context"
	"errors"
	"time"

	"github.com/david801380511/timeflow/models"

	"gorm.io/gorm"
)

// GORM-backed implementations of the engine's store interfaces. Each
// cycle constructs them over the cycle's transaction handle so every
// read and write shares the same commit/rollback boundary.

type gormRuleStore struct {
	db *gorm.DB
}

func NewRuleStore(db *gorm.DB) RuleStore {
	return &gormRuleStore{db: db}
}

func (s *gormRuleStore) ListEnabledRules(ctx context.Context) ([]models.NotificationRule, error) {
	var rules []models.NotificationRule
	err := s.db.WithContext(ctx).
		Where("is_enabled = ?", true).
		Order("rule_id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

type gormFactStore struct {
	db *gorm.DB
}

func NewFactStore(db *gorm.DB) FactStore {
	return &gormFactStore{db: db}
}

func (s *gormFactStore) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormFactStore) GetPreference(ctx context.Context, userID uint) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (s *gormFactStore) FindDueSoon(ctx context.Context, userID uint, windowStart, windowEnd time.Time) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND completed = ? AND due_date BETWEEN ? AND ?",
			userID, false, windowStart, windowEnd).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *gormFactStore) FindStudyBlocksStarting(ctx context.Context, userID uint, windowStart, windowEnd time.Time) ([]models.CalendarBlock, error) {
	// Calendar blocks carry no owner column; ownership goes through the
	// linked assignment.
	var blocks []models.CalendarBlock
	err := s.db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.assignment_id = calendar_blocks.assignment_id").
		Where("assignments.user_id = ? AND calendar_blocks.block_type = ? AND calendar_blocks.start_datetime BETWEEN ? AND ?",
			userID, "study", windowStart, windowEnd).
		Preload("Assignment").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *gormFactStore) HasStudiedSince(ctx context.Context, userID uint, since time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.StudySession{}).
		Joins("JOIN assignments ON assignments.assignment_id = study_sessions.assignment_id").
		Where("assignments.user_id = ? AND study_sessions.start_time >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type gormNotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) NotificationStore {
	return &gormNotificationStore{db: db}
}

func (s *gormNotificationStore) HasRecentForAssignment(ctx context.Context, userID, ruleID, assignmentID uint, since time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND rule_id = ? AND assignment_id = ? AND delivered_at >= ?",
			userID, ruleID, assignmentID, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormNotificationStore) HasAnyForBlock(ctx context.Context, userID, ruleID, blockID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND rule_id = ? AND calendar_block_id = ?", userID, ruleID, blockID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormNotificationStore) HasTypeSince(ctx context.Context, userID uint, notificationType string, since time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND notification_type = ? AND delivered_at >= ?",
			userID, notificationType, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *gormNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}
