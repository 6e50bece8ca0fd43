package services

import (
	"strings"
	"testing"
	"time"
)

func TestRenderTemplate(t *testing.T) {
	got, err := renderTemplate("'{assignment_name}' is due in {time_remaining}!", map[string]string{
		"assignment_name": "Physics Lab",
		"time_remaining":  "2 hours",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "'Physics Lab' is due in 2 hours!" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderTemplateNoPlaceholders(t *testing.T) {
	got, err := renderTemplate("Time to study!", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Time to study!" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderTemplateMissingPlaceholder(t *testing.T) {
	_, err := renderTemplate("Don't break your {streak_days}-day streak!", map[string]string{
		"assignment_name": "irrelevant",
	})
	if err == nil {
		t.Fatal("expected error for unknown placeholder")
	}
	if !strings.Contains(err.Error(), "streak_days") {
		t.Fatalf("error should name the missing placeholder, got: %v", err)
	}
}

func TestRenderTemplateMixedCasePlaceholder(t *testing.T) {
	// User-authored templates are not normalized, so a typo like
	// {assignment_Name} must surface as an unknown placeholder instead of
	// slipping through unrendered.
	_, err := renderTemplate("'{assignment_Name}' is due soon", map[string]string{
		"assignment_name": "Physics Lab",
	})
	if err == nil {
		t.Fatal("expected error for mixed-case placeholder")
	}
	if !strings.Contains(err.Error(), "assignment_Name") {
		t.Fatalf("error should name the unknown placeholder, got: %v", err)
	}
}

func TestRenderTemplateExtraDataIgnored(t *testing.T) {
	got, err := renderTemplate("{streak_days} days strong", map[string]string{
		"streak_days": "5",
		"unused":      "x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "5 days strong" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestFormatTimeRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45 seconds"},
		{1 * time.Second, "1 seconds"},
		{90 * time.Second, "1 minute"},
		{45 * time.Minute, "45 minutes"},
		{1 * time.Hour, "1 hour"},
		{2*time.Hour + 5*time.Minute, "2 hours"},
		{23 * time.Hour, "23 hours"},
		{24 * time.Hour, "1 day"},
		{72*time.Hour + 30*time.Minute, "3 days"},
	}

	for _, tc := range cases {
		if got := formatTimeRemaining(tc.d); got != tc.want {
			t.Errorf("formatTimeRemaining(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
