package timeslot

import "time"

// Interval is a half-open time window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window has positive length.
func (iv Interval) Valid() bool {
	return iv.End.After(iv.Start)
}

// Overlaps reports whether two half-open windows intersect. Boundary touches
// (a.End == b.Start) are not overlaps.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Covers reports whether b lies entirely inside a.
func (a Interval) Covers(b Interval) bool {
	return !a.Start.After(b.Start) && !a.End.Before(b.End)
}

// AnyOverlaps reports whether candidate intersects any of the existing
// windows.
func AnyOverlaps(candidate Interval, existing []Interval) bool {
	for _, iv := range existing {
		if iv.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// AnyCovers reports whether at least one window fully contains the candidate.
// Coverage is per-window: two adjacent windows do not stitch together.
func AnyCovers(candidate Interval, windows []Interval) bool {
	for _, iv := range windows {
		if iv.Covers(candidate) {
			return true
		}
	}
	return false
}
