package services

import (
	"testing"
	"time"

	"github.com/david801380511/timeflow/models"
)

func TestTriggerDeltaUnits(t *testing.T) {
	allUnits := []string{models.TriggerUnitMinutes, models.TriggerUnitHours, models.TriggerUnitDays}

	cases := []struct {
		name        string
		triggerTime int
		triggerUnit string
		allowed     []string
		want        time.Duration
		wantOK      bool
	}{
		{"minutes", 15, models.TriggerUnitMinutes, allUnits, 15 * time.Minute, true},
		{"hours", 2, models.TriggerUnitHours, allUnits, 2 * time.Hour, true},
		{"days", 1, models.TriggerUnitDays, allUnits, 24 * time.Hour, true},
		{"zero trigger", 0, models.TriggerUnitMinutes, allUnits, 0, true},
		{"unknown unit", 5, "fortnights", allUnits, 0, false},
		{"days not allowed for sessions", 1, models.TriggerUnitDays,
			[]string{models.TriggerUnitMinutes, models.TriggerUnitHours}, 0, false},
		{"minutes not allowed for streaks", 90, models.TriggerUnitMinutes,
			[]string{models.TriggerUnitHours}, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := triggerDelta(tc.triggerTime, tc.triggerUnit, tc.allowed...)
			if ok != tc.wantOK {
				t.Fatalf("triggerDelta(%d, %q) ok = %v, want %v", tc.triggerTime, tc.triggerUnit, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("triggerDelta(%d, %q) = %v, want %v", tc.triggerTime, tc.triggerUnit, got, tc.want)
			}
		})
	}
}

func TestDeadlineWindowMatching(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	// Rule: 1 day before, tolerance 30 minutes -> window [23.5h, 24.5h].
	delta, ok := triggerDelta(1, models.TriggerUnitDays, models.TriggerUnitDays)
	if !ok {
		t.Fatal("unexpected trigger unit rejection")
	}
	windowStart, windowEnd := triggerWindow(now, delta, deadlineTolerance)

	inside := now.Add(23*time.Hour + 40*time.Minute)
	if inside.Before(windowStart) || inside.After(windowEnd) {
		t.Errorf("due in 23h40m should match window [%v, %v]", windowStart, windowEnd)
	}

	outside := now.Add(23 * time.Hour)
	if !outside.Before(windowStart) {
		t.Errorf("due in 23h should fall before window start %v", windowStart)
	}
}

func TestStudySessionWindowMatching(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

	// Rule: 15 minutes before, tolerance 5 minutes -> window [10m, 20m].
	delta, ok := triggerDelta(15, models.TriggerUnitMinutes, models.TriggerUnitMinutes, models.TriggerUnitHours)
	if !ok {
		t.Fatal("unexpected trigger unit rejection")
	}
	windowStart, windowEnd := triggerWindow(now, delta, studySessionTolerance)

	inside := now.Add(14 * time.Minute)
	if inside.Before(windowStart) || inside.After(windowEnd) {
		t.Errorf("block starting in 14m should match window [%v, %v]", windowStart, windowEnd)
	}

	outside := now.Add(9 * time.Minute)
	if !outside.Before(windowStart) {
		t.Errorf("block starting in 9m should fall before window start %v", windowStart)
	}
}
