package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// renderTemplate substitutes {placeholder} tokens in a rule's message
// template. A placeholder with no entry in data is an error: the caller
// skips that candidate rather than delivering a half-rendered message.
func renderTemplate(template string, data map[string]string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		value, ok := data[name]
		if !ok {
			missing = append(missing, name)
			return token
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("template references unknown placeholder(s): %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// formatTimeRemaining renders a duration the way the reminder messages
// expect: integer-truncated, largest sensible unit, singular at exactly 1.
func formatTimeRemaining(d time.Duration) string {
	totalSeconds := int(d.Seconds())

	switch {
	case totalSeconds < 60:
		return fmt.Sprintf("%d seconds", totalSeconds)
	case totalSeconds < 3600:
		minutes := totalSeconds / 60
		return fmt.Sprintf("%d minute%s", minutes, pluralSuffix(minutes))
	case totalSeconds < 86400:
		hours := totalSeconds / 3600
		return fmt.Sprintf("%d hour%s", hours, pluralSuffix(hours))
	default:
		days := totalSeconds / 86400
		return fmt.Sprintf("%d day%s", days, pluralSuffix(days))
	}
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
