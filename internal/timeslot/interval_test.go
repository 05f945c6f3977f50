package timeslot

import (
	"testing"
	"time"
)

func iv(startMin, endMin int) Interval {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return Interval{
		Start: base.Add(time.Duration(startMin) * time.Minute),
		End:   base.Add(time.Duration(endMin) * time.Minute),
	}
}

func TestOverlapsBoundaryTouch(t *testing.T) {
	// [0,10) and [10,20) touch but do not overlap.
	a, b := iv(0, 10), iv(10, 20)
	if a.Overlaps(b) || b.Overlaps(a) {
		t.Error("boundary touch must not count as overlap")
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		a, b Interval
		want bool
	}{
		{iv(0, 10), iv(5, 15), true},
		{iv(0, 30), iv(10, 20), true}, // containment
		{iv(0, 10), iv(20, 30), false},
		{iv(0, 10), iv(0, 10), true}, // identical
		{iv(0, 10), iv(9, 11), true},
	}
	for _, c := range cases {
		if got := c.a.Overlaps(c.b); got != c.want {
			t.Errorf("Overlaps(%v,%v) = %v, want %v", c.a, c.b, got, c.want)
		}
		if got := c.b.Overlaps(c.a); got != c.want {
			t.Errorf("overlap not symmetric for %v,%v", c.a, c.b)
		}
	}
}

func TestCovers(t *testing.T) {
	window := iv(0, 120)
	if !window.Covers(iv(0, 120)) {
		t.Error("window must cover itself")
	}
	if !window.Covers(iv(30, 60)) {
		t.Error("window must cover inner range")
	}
	if window.Covers(iv(60, 150)) {
		t.Error("window must not cover range extending past its end")
	}
	if window.Covers(iv(-10, 60)) {
		t.Error("window must not cover range starting before it")
	}
}

func TestAnyCoversNoStitching(t *testing.T) {
	// Two adjacent windows do not combine to cover a range spanning both.
	windows := []Interval{iv(0, 60), iv(60, 120)}
	if AnyCovers(iv(30, 90), windows) {
		t.Error("coverage must not stitch across windows")
	}
	if !AnyCovers(iv(60, 120), windows) {
		t.Error("exact window must be covered")
	}
}

func TestAnyOverlaps(t *testing.T) {
	existing := []Interval{iv(0, 60), iv(120, 180)}
	if !AnyOverlaps(iv(50, 70), existing) {
		t.Error("expected overlap with first window")
	}
	if AnyOverlaps(iv(60, 120), existing) {
		t.Error("gap between windows must be free")
	}
}

func TestIntervalValid(t *testing.T) {
	if iv(10, 10).Valid() {
		t.Error("zero-length interval is invalid")
	}
	if iv(20, 10).Valid() {
		t.Error("inverted interval is invalid")
	}
	if !iv(0, 1).Valid() {
		t.Error("positive interval is valid")
	}
}
