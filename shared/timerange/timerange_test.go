package timerange_test

import (
	"testing"
	"time"

	"meetroom/shared/timerange"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestRange_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		rng   timerange.Range
		valid bool
	}{
		{name: "start before end", rng: timerange.New(at(9, 0), at(9, 30)), valid: true},
		{name: "start equals end", rng: timerange.New(at(9, 0), at(9, 0)), valid: false},
		{name: "start after end", rng: timerange.New(at(10, 0), at(9, 0)), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestRange_Overlaps(t *testing.T) {
	base := timerange.New(at(9, 0), at(9, 30))

	tests := []struct {
		name     string
		other    timerange.Range
		overlaps bool
	}{
		{name: "identical", other: timerange.New(at(9, 0), at(9, 30)), overlaps: true},
		{name: "partial overlap", other: timerange.New(at(9, 15), at(9, 45)), overlaps: true},
		{name: "contained", other: timerange.New(at(9, 10), at(9, 20)), overlaps: true},
		{name: "containing", other: timerange.New(at(8, 0), at(11, 0)), overlaps: true},
		{name: "boundary touch after", other: timerange.New(at(9, 30), at(10, 0)), overlaps: false},
		{name: "boundary touch before", other: timerange.New(at(8, 30), at(9, 0)), overlaps: false},
		{name: "fully after", other: timerange.New(at(10, 0), at(10, 30)), overlaps: false},
		{name: "fully before", other: timerange.New(at(8, 0), at(8, 30)), overlaps: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps() = %v, want %v", got, tt.overlaps)
			}

			// overlap is symmetric
			if got := tt.other.Overlaps(base); got != tt.overlaps {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.overlaps)
			}
		})
	}
}

func TestRange_IsInPast(t *testing.T) {
	now := at(10, 0)

	tests := []struct {
		name string
		rng  timerange.Range
		past bool
	}{
		{name: "fully in future", rng: timerange.New(at(11, 0), at(12, 0)), past: false},
		{name: "starts in past", rng: timerange.New(at(9, 0), at(11, 0)), past: true},
		{name: "fully in past", rng: timerange.New(at(8, 0), at(9, 0)), past: true},
		{name: "starts exactly now", rng: timerange.New(at(10, 0), at(11, 0)), past: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.IsInPast(now); got != tt.past {
				t.Errorf("IsInPast() = %v, want %v", got, tt.past)
			}
		})
	}
}

func TestRange_Contains(t *testing.T) {
	rng := timerange.New(at(9, 0), at(9, 30))

	if !rng.Contains(at(9, 0)) {
		t.Error("start bound should be contained")
	}

	if rng.Contains(at(9, 30)) {
		t.Error("end bound should not be contained")
	}

	if !rng.Contains(at(9, 15)) {
		t.Error("interior instant should be contained")
	}
}

func TestRange_Duration(t *testing.T) {
	rng := timerange.New(at(9, 0), at(9, 30))

	if rng.Duration() != 30*time.Minute {
		t.Errorf("Duration() = %v, want 30m", rng.Duration())
	}
}
