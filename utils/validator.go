// utils/validator.go - Input validation
package utils

import (
	"strings"
)

var ruleTypes = []string{"deadline", "study_session", "streak", "break_reminder"}

var triggerUnits = []string{"minutes", "hours", "days"}

var priorities = []string{"low", "medium", "high"}

// ValidRuleType checks a notification rule type
func ValidRuleType(ruleType string) bool {
	return contains(ruleTypes, ruleType)
}

// ValidTriggerUnit checks a trigger unit
func ValidTriggerUnit(unit string) bool {
	return contains(triggerUnits, unit)
}

// ValidPriority checks a priority level
func ValidPriority(priority string) bool {
	return contains(priorities, priority)
}

// ValidHour checks a clock-hour bound
func ValidHour(h int) bool {
	return h >= 0 && h <= 23
}

// ValidDayList checks a csv of weekday codes like "mon,tue,fri"
func ValidDayList(days string) bool {
	valid := []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	for _, day := range strings.Split(days, ",") {
		if !contains(valid, strings.TrimSpace(strings.ToLower(day))) {
			return false
		}
	}
	return true
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
