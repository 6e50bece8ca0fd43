package services

import (
	"time"

	"github.com/david801380511/timeflow/models"
)

// Window tolerances for the two target-based rule types. The scheduler
// polls discretely, so each window is widened enough that a target
// between two ticks is neither missed nor fired twice. Study-session
// reminders are time-critical and get a much tighter tolerance than
// deadline reminders.
const (
	deadlineTolerance     = 30 * time.Minute
	studySessionTolerance = 5 * time.Minute
)

// triggerDelta converts a rule's trigger_time/trigger_unit pair into an
// absolute duration. The second return is false for units the caller
// does not accept, which makes the rule a no-op.
func triggerDelta(triggerTime int, triggerUnit string, allowedUnits ...string) (time.Duration, bool) {
	allowed := false
	for _, u := range allowedUnits {
		if triggerUnit == u {
			allowed = true
			break
		}
	}
	if !allowed {
		return 0, false
	}

	switch triggerUnit {
	case models.TriggerUnitMinutes:
		return time.Duration(triggerTime) * time.Minute, true
	case models.TriggerUnitHours:
		return time.Duration(triggerTime) * time.Hour, true
	case models.TriggerUnitDays:
		return time.Duration(triggerTime) * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// triggerWindow returns the interval a target timestamp must fall into
// for the rule to fire now: [now+delta-tolerance, now+delta+tolerance].
func triggerWindow(now time.Time, delta, tolerance time.Duration) (time.Time, time.Time) {
	center := now.Add(delta)
	return center.Add(-tolerance), center.Add(tolerance)
}
