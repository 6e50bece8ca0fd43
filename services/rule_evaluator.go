package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/david801380511/timeflow/models"
)

// RuleStore exposes the enabled notification rules for one scheduler pass.
type RuleStore interface {
	ListEnabledRules(ctx context.Context) ([]models.NotificationRule, error)
}

// FactStore is the read side of the engine: users, preferences and the
// deadline/session/streak facts the rules are evaluated against.
type FactStore interface {
	// GetUser returns (nil, nil) when the user does not exist.
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	// GetPreference returns (nil, nil) when the user has no preference row.
	GetPreference(ctx context.Context, userID uint) (*models.NotificationPreference, error)
	FindDueSoon(ctx context.Context, userID uint, windowStart, windowEnd time.Time) ([]models.Assignment, error)
	FindStudyBlocksStarting(ctx context.Context, userID uint, windowStart, windowEnd time.Time) ([]models.CalendarBlock, error)
	HasStudiedSince(ctx context.Context, userID uint, since time.Time) (bool, error)
}

// NotificationStore is the write side plus the dedup lookups over rows
// the engine wrote on earlier passes. delivered_at is the only anchor
// the dedup queries rely on.
type NotificationStore interface {
	HasRecentForAssignment(ctx context.Context, userID, ruleID, assignmentID uint, since time.Time) (bool, error)
	HasAnyForBlock(ctx context.Context, userID, ruleID, blockID uint) (bool, error)
	HasTypeSince(ctx context.Context, userID uint, notificationType string, since time.Time) (bool, error)
	Create(ctx context.Context, n *models.Notification) error
}

// RuleEvaluator decides, per rule and point in time, which notifications
// are due right now and writes them through the notification store.
type RuleEvaluator struct {
	facts         FactStore
	notifications NotificationStore
}

func NewRuleEvaluator(facts FactStore, notifications NotificationStore) *RuleEvaluator {
	return &RuleEvaluator{
		facts:         facts,
		notifications: notifications,
	}
}

// Evaluate runs the gate chain for a single rule and dispatches to the
// logic for its type. A returned error means a store call failed and the
// whole cycle should be rolled back and retried; malformed rules are
// logged and skipped instead.
func (e *RuleEvaluator) Evaluate(ctx context.Context, rule *models.NotificationRule, now time.Time) error {
	user, err := e.facts.GetUser(ctx, rule.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	pref, err := e.facts.GetPreference(ctx, rule.UserID)
	if err != nil {
		return err
	}
	if pref != nil {
		if !pref.NotificationsEnabled {
			return nil
		}
		if pref.QuietHoursEnabled && hourInRange(now.Hour(), pref.QuietHoursStart, pref.QuietHoursEnd) {
			return nil
		}
	}

	if rule.OnlyOnDays != nil && strings.TrimSpace(*rule.OnlyOnDays) != "" {
		if !dayAllowed(*rule.OnlyOnDays, now) {
			return nil
		}
	}

	// Both bounds must be set for the rule-level time range to apply.
	if rule.TimeRangeStart != nil && rule.TimeRangeEnd != nil {
		if !hourInRange(now.Hour(), *rule.TimeRangeStart, *rule.TimeRangeEnd) {
			return nil
		}
	}

	switch rule.RuleType {
	case models.RuleTypeDeadline:
		return e.evaluateDeadline(ctx, rule, now)
	case models.RuleTypeStudySession:
		return e.evaluateStudySession(ctx, rule, now)
	case models.RuleTypeStreak:
		return e.evaluateStreak(ctx, rule, user, now)
	case models.RuleTypeBreakReminder:
		// Reserved rule type, no evaluation logic yet.
		return nil
	default:
		log.Printf("Skipping rule %d: unknown rule type %q", rule.RuleID, rule.RuleType)
		return nil
	}
}

func (e *RuleEvaluator) evaluateDeadline(ctx context.Context, rule *models.NotificationRule, now time.Time) error {
	delta, ok := triggerDelta(rule.TriggerTime, rule.TriggerUnit,
		models.TriggerUnitMinutes, models.TriggerUnitHours, models.TriggerUnitDays)
	if !ok {
		log.Printf("Skipping rule %d: unknown trigger unit %q", rule.RuleID, rule.TriggerUnit)
		return nil
	}

	windowStart, windowEnd := triggerWindow(now, delta, deadlineTolerance)

	assignments, err := e.facts.FindDueSoon(ctx, rule.UserID, windowStart, windowEnd)
	if err != nil {
		return err
	}

	for i := range assignments {
		assignment := &assignments[i]

		// One reminder per (user, rule, assignment) per hour.
		exists, err := e.notifications.HasRecentForAssignment(
			ctx, rule.UserID, rule.RuleID, assignment.AssignmentID, now.Add(-time.Hour))
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		message, err := renderTemplate(rule.MessageTemplate, map[string]string{
			"assignment_name": assignment.Name,
			"time_remaining":  formatTimeRemaining(assignment.DueDate.Sub(now)),
		})
		if err != nil {
			log.Printf("Skipping deadline notification for rule %d: %v", rule.RuleID, err)
			continue
		}

		notification := &models.Notification{
			UserID:           rule.UserID,
			RuleID:           &rule.RuleID,
			AssignmentID:     &assignment.AssignmentID,
			Title:            "Assignment Due: " + assignment.Name,
			Message:          message,
			NotificationType: "deadline",
			Priority:         rule.Priority,
			ActionURL:        strPtr("/"),
			ActionText:       strPtr("View Assignment"),
			DeliveredAt:      now,
			CreateAt:         now,
		}
		if err := e.notifications.Create(ctx, notification); err != nil {
			return err
		}
		log.Printf("Created deadline notification for user %d: %s", rule.UserID, assignment.Name)
	}

	return nil
}

func (e *RuleEvaluator) evaluateStudySession(ctx context.Context, rule *models.NotificationRule, now time.Time) error {
	delta, ok := triggerDelta(rule.TriggerTime, rule.TriggerUnit,
		models.TriggerUnitMinutes, models.TriggerUnitHours)
	if !ok {
		log.Printf("Skipping rule %d: unknown trigger unit %q", rule.RuleID, rule.TriggerUnit)
		return nil
	}

	windowStart, windowEnd := triggerWindow(now, delta, studySessionTolerance)

	blocks, err := e.facts.FindStudyBlocksStarting(ctx, rule.UserID, windowStart, windowEnd)
	if err != nil {
		return err
	}

	for i := range blocks {
		block := &blocks[i]

		// A study block is only ever announced once.
		exists, err := e.notifications.HasAnyForBlock(ctx, rule.UserID, rule.RuleID, block.BlockID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		name := block.Title
		if block.Assignment != nil {
			name = block.Assignment.Name
		}

		message, err := renderTemplate(rule.MessageTemplate, map[string]string{
			"assignment_name": name,
			"time_remaining":  formatTimeRemaining(block.StartDatetime.Sub(now)),
		})
		if err != nil {
			log.Printf("Skipping study session notification for rule %d: %v", rule.RuleID, err)
			continue
		}

		notification := &models.Notification{
			UserID:           rule.UserID,
			RuleID:           &rule.RuleID,
			AssignmentID:     block.AssignmentID,
			CalendarBlockID:  &block.BlockID,
			Title:            "Study Session Starting Soon",
			Message:          message,
			NotificationType: "study_session",
			Priority:         rule.Priority,
			ActionURL:        strPtr("/calendar"),
			ActionText:       strPtr("View Calendar"),
			DeliveredAt:      now,
			CreateAt:         now,
		}
		if err := e.notifications.Create(ctx, notification); err != nil {
			return err
		}
		log.Printf("Created study session notification for user %d", rule.UserID)
	}

	return nil
}

func (e *RuleEvaluator) evaluateStreak(ctx context.Context, rule *models.NotificationRule, user *models.User, now time.Time) error {
	if user.CurrentStreak == 0 {
		return nil
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	studied, err := e.facts.HasStudiedSince(ctx, rule.UserID, midnight)
	if err != nil {
		return err
	}
	if studied {
		// The streak is already safe for today.
		return nil
	}

	// One streak reminder per user per day, regardless of rule.
	exists, err := e.notifications.HasTypeSince(ctx, rule.UserID, "streak", midnight)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	delta, ok := triggerDelta(rule.TriggerTime, rule.TriggerUnit, models.TriggerUnitHours)
	if !ok {
		return nil
	}

	// Eligible for the rest of the day once the remaining time dips
	// under the trigger; the daily dedup above keeps it single-shot.
	untilMidnight := midnight.Add(24 * time.Hour).Sub(now)
	if untilMidnight > delta {
		return nil
	}

	message, err := renderTemplate(rule.MessageTemplate, map[string]string{
		"streak_days": strconv.Itoa(user.CurrentStreak),
	})
	if err != nil {
		log.Printf("Skipping streak notification for rule %d: %v", rule.RuleID, err)
		return nil
	}

	notification := &models.Notification{
		UserID:           rule.UserID,
		RuleID:           &rule.RuleID,
		Title:            "Maintain Your Streak!",
		Message:          message,
		NotificationType: "streak",
		Priority:         rule.Priority,
		ActionURL:        strPtr("/timer"),
		ActionText:       strPtr("Start Studying"),
		DeliveredAt:      now,
		CreateAt:         now,
	}
	if err := e.notifications.Create(ctx, notification); err != nil {
		return err
	}
	log.Printf("Created streak notification for user %d", rule.UserID)

	return nil
}

// dayAllowed checks a csv of lowercase weekday codes ("mon,tue,...")
// against the weekday of t.
func dayAllowed(onlyOnDays string, t time.Time) bool {
	today := strings.ToLower(t.Format("Mon"))
	for _, day := range strings.Split(onlyOnDays, ",") {
		if strings.TrimSpace(day) == today {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }
