package services

import "testing"

func TestHourInRange(t *testing.T) {
	cases := []struct {
		name  string
		hour  int
		start int
		end   int
		want  bool
	}{
		{"inside plain range", 10, 9, 17, true},
		{"at start of plain range", 9, 9, 17, true},
		{"at end of plain range", 17, 9, 17, false},
		{"before plain range", 8, 9, 17, false},

		// Quiet hours 22-8 wrap past midnight.
		{"late evening in wrapped range", 23, 22, 8, true},
		{"early morning in wrapped range", 7, 22, 8, true},
		{"midday outside wrapped range", 12, 22, 8, false},
		{"at start of wrapped range", 22, 22, 8, true},
		{"at end of wrapped range", 8, 22, 8, false},
		{"midnight in wrapped range", 0, 22, 8, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := hourInRange(tc.hour, tc.start, tc.end); got != tc.want {
				t.Fatalf("hourInRange(%d, %d, %d) = %v, want %v", tc.hour, tc.start, tc.end, got, tc.want)
			}
		})
	}
}
