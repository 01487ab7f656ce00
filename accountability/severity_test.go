package accountability

import "testing"

func TestCalculatePenaltySeverity(t *testing.T) {
	cases := []struct {
		difficulty   string
		hoursOverdue float64
		expected     string
	}{
		{"", 30, Light},
		{"", 48, Moderate},
		{"", 72, Severe},
		{"advanced", 80, Severe},   // base 3 capped at 3
		{"advanced", 50, Severe},   // base 2 bumped to 3
		{"hard", 30, Moderate},     // base 1 bumped to 2
		{"beginner", 30, Light},    // base 1 floored at 1
		{"beginner", 50, Light},    // base 2 dropped to 1
		{"easy", 100, Moderate},    // base 3 dropped to 2
		{"intermediate", 60, Moderate},
		{"unknown", 25, Light},
	}

	for _, c := range cases {
		got := CalculatePenaltySeverity(c.difficulty, c.hoursOverdue)
		if got != c.expected {
			t.Errorf("CalculatePenaltySeverity(%q, %v) = %q, expected %q",
				c.difficulty, c.hoursOverdue, got, c.expected)
		}
	}
}

func TestCalculatePenaltySeverityBoundaries(t *testing.T) {
	if got := CalculatePenaltySeverity("", 47.9); got != Light {
		t.Errorf("Just under 48h should be light, got %q", got)
	}
	if got := CalculatePenaltySeverity("", 71.9); got != Moderate {
		t.Errorf("Just under 72h should be moderate, got %q", got)
	}
}
