package service

import (
	"testing"
	"time"

	"nannybook-service/internal/timeslot"
)

func slotAt(day time.Time, fromH, fromM, toH, toM int) timeslot.Interval {
	return timeslot.Interval{
		Start: time.Date(day.Year(), day.Month(), day.Day(), fromH, fromM, 0, 0, time.UTC),
		End:   time.Date(day.Year(), day.Month(), day.Day(), toH, toM, 0, 0, time.UTC),
	}
}

var testDay = time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

func TestEvaluateBatchSiblingOverlap(t *testing.T) {
	// Availability 9:00-11:00 covers both slots, but the second overlaps the
	// first within the same batch.
	window := []timeslot.Interval{slotAt(testDay, 9, 0, 11, 0)}
	slots := []timeslot.Interval{
		slotAt(testDay, 9, 0, 10, 0),
		slotAt(testDay, 9, 30, 10, 30),
	}
	open := [][]timeslot.Interval{window, window}

	decisions := evaluateBatch(slots, open, nil, BulkOptions{EnforceAvailability: true, CheckSiblings: true})
	if decisions[0] != "" {
		t.Fatalf("first slot should be accepted, got %q", decisions[0])
	}
	if decisions[1] != reasonOverlapsHold {
		t.Fatalf("second slot should collide with its sibling, got %q", decisions[1])
	}
}

func TestEvaluateBatchSiblingsDisabled(t *testing.T) {
	window := []timeslot.Interval{slotAt(testDay, 9, 0, 11, 0)}
	slots := []timeslot.Interval{
		slotAt(testDay, 9, 0, 10, 0),
		slotAt(testDay, 9, 30, 10, 30),
	}
	open := [][]timeslot.Interval{window, window}

	decisions := evaluateBatch(slots, open, nil, BulkOptions{EnforceAvailability: true, CheckSiblings: false})
	for i, d := range decisions {
		if d != "" {
			t.Errorf("slot %d should be accepted without sibling checking, got %q", i, d)
		}
	}
}

func TestEvaluateBatchInvertedRange(t *testing.T) {
	slots := []timeslot.Interval{
		slotAt(testDay, 10, 0, 9, 0),
		slotAt(testDay, 10, 0, 10, 0),
	}
	decisions := evaluateBatch(slots, make([][]timeslot.Interval, 2), nil, BulkOptions{})
	if decisions[0] != reasonInvertedRange {
		t.Errorf("inverted slot: got %q", decisions[0])
	}
	if decisions[1] != reasonInvertedRange {
		t.Errorf("zero-length slot: got %q", decisions[1])
	}
}

func TestEvaluateBatchCoverage(t *testing.T) {
	// Slot sticking out past the window fails coverage; the same slot passes
	// when availability enforcement is off.
	window := []timeslot.Interval{slotAt(testDay, 9, 0, 10, 0)}
	slots := []timeslot.Interval{slotAt(testDay, 9, 30, 10, 30)}
	open := [][]timeslot.Interval{window}

	decisions := evaluateBatch(slots, open, nil, BulkOptions{EnforceAvailability: true})
	if decisions[0] != reasonNotAvailable {
		t.Errorf("uncovered slot: got %q", decisions[0])
	}

	decisions = evaluateBatch(slots, open, nil, BulkOptions{EnforceAvailability: false})
	if decisions[0] != "" {
		t.Errorf("coverage must be skipped when not enforced, got %q", decisions[0])
	}
}

func TestEvaluateBatchHeldSlots(t *testing.T) {
	held := []timeslot.Interval{slotAt(testDay, 9, 0, 10, 0)}
	slots := []timeslot.Interval{
		slotAt(testDay, 9, 30, 10, 30), // overlaps the hold
		slotAt(testDay, 10, 0, 11, 0),  // boundary touch, fine
	}
	decisions := evaluateBatch(slots, make([][]timeslot.Interval, 2), held, BulkOptions{CheckSiblings: true})
	if decisions[0] != reasonOverlapsHold {
		t.Errorf("hold overlap: got %q", decisions[0])
	}
	if decisions[1] != "" {
		t.Errorf("boundary touch with a hold must pass, got %q", decisions[1])
	}
}

func TestEvaluateBatchRejectedSlotIsNotASibling(t *testing.T) {
	// A slot rejected for coverage must not block a later identical slot
	// that is covered.
	windowNarrow := []timeslot.Interval{slotAt(testDay, 9, 0, 9, 30)}
	windowWide := []timeslot.Interval{slotAt(testDay, 9, 0, 11, 0)}
	slots := []timeslot.Interval{
		slotAt(testDay, 9, 0, 10, 0),
		slotAt(testDay, 9, 0, 10, 0),
	}
	open := [][]timeslot.Interval{windowNarrow, windowWide}

	decisions := evaluateBatch(slots, open, nil, BulkOptions{EnforceAvailability: true, CheckSiblings: true})
	if decisions[0] != reasonNotAvailable {
		t.Errorf("first slot should fail coverage, got %q", decisions[0])
	}
	if decisions[1] != "" {
		t.Errorf("rejected sibling must not block, got %q", decisions[1])
	}
}

func TestBatchEnvelope(t *testing.T) {
	slots := []BulkSlotInput{
		{StartsAt: testDay.Add(10 * time.Hour), EndsAt: testDay.Add(11 * time.Hour)},
		{StartsAt: testDay.Add(8 * time.Hour), EndsAt: testDay.Add(9 * time.Hour)},
		{StartsAt: testDay.Add(12 * time.Hour), EndsAt: testDay.Add(14 * time.Hour)},
	}
	start, end := batchEnvelope(slots)
	if !start.Equal(testDay.Add(8 * time.Hour)) {
		t.Errorf("envelope start wrong: %v", start)
	}
	if !end.Equal(testDay.Add(14 * time.Hour)) {
		t.Errorf("envelope end wrong: %v", end)
	}
}

func TestWindowInterval(t *testing.T) {
	iv, err := windowInterval(testDay, "09:00:00", "11:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !iv.Start.Equal(testDay.Add(9 * time.Hour)) {
		t.Errorf("start wrong: %v", iv.Start)
	}
	if !iv.End.Equal(testDay.Add(11*time.Hour + 30*time.Minute)) {
		t.Errorf("end wrong: %v", iv.End)
	}
	if _, err := windowInterval(testDay, "9am", "11:00"); err == nil {
		t.Error("garbage time of day must error")
	}
}
