// Package timerange provides the half-open time interval [Start, End) used by
// booking conflict checks. Two ranges that merely touch at a boundary do not
// overlap.
package timerange

import "time"

type Range struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

// IsValid reports whether the range is well formed: Start strictly before End.
func (r Range) IsValid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether r and other share any instant. Boundary touch
// (r.End == other.Start) is not an overlap.
func (r Range) Overlaps(other Range) bool {
	return r.End.After(other.Start) && r.Start.Before(other.End)
}

// IsInPast reports whether any part of the range lies before now.
func (r Range) IsInPast(now time.Time) bool {
	return r.Start.Before(now) || r.End.Before(now)
}

// Contains reports whether the instant falls inside the half-open interval.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
