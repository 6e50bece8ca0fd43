package services

// hourInRange reports whether hour h (0-23) falls inside [start, end).
// A range with start > end wraps past midnight, e.g. 22-8 covers the
// late evening and early morning. The same check backs both quiet-hours
// suppression and per-rule allowed time ranges.
func hourInRange(h, start, end int) bool {
	if start <= end {
		return start <= h && h < end
	}
	return h >= start || h < end
}
