package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/timeslot"
)

// BulkOptions controls the two behaviors the write path leaves open.
type BulkOptions struct {
	// EnforceAvailability requires every slot to lie inside an open
	// availability window for its calendar date.
	EnforceAvailability bool
	// CheckSiblings treats slots created earlier in the same batch as holds
	// for the later ones.
	CheckSiblings bool
}

// DefaultBulkOptions enforces both checks.
func DefaultBulkOptions() BulkOptions {
	return BulkOptions{EnforceAvailability: true, CheckSiblings: true}
}

// BulkSlotInput is one candidate window in a bulk request.
type BulkSlotInput struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}

// BulkParams is a parent's bulk request for one nanny.
type BulkParams struct {
	ParentUserID int64
	NannyID      int64
	Slots        []BulkSlotInput
	ClientNotes  *string
}

// SlotError reports a rejected slot by its input index.
type SlotError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkResult is the outcome of one bulk run.
type BulkResult struct {
	BookingRequestID int64                       `json:"booking_request_id"`
	Status           string                      `json:"status"`
	PaymentStatus    string                      `json:"payment_status"`
	CreatedSlots     []models.BookingRequestSlot `json:"created_slots"`
	Errors           []SlotError                 `json:"errors"`
}

// Per-slot rejection reasons.
const (
	reasonInvertedRange = "ends_at must be after starts_at"
	reasonNotAvailable  = "nanny not available for this time window"
	reasonOverlapsHold  = "overlaps an existing booking or hold"
)

// BulkService processes bulk booking requests.
type BulkService struct {
	Pool    *pgxpool.Pool
	Options BulkOptions
}

// Process runs the whole batch in one transaction: request insert, per-slot
// checks against availability and held slots (locked for the batch range),
// slot inserts and the final status write commit or roll back together.
// Per-slot rejection is a normal outcome, not a transaction failure.
func (s *BulkService) Process(ctx context.Context, p BulkParams) (BulkResult, error) {
	if len(p.Slots) == 0 {
		return BulkResult{}, httperr.Validationf("at least one slot is required")
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return BulkResult{}, fmt.Errorf("begin bulk tx: %w", err)
	}
	defer tx.Rollback(ctx)

	nannyExists, err := repository.NannyExists(ctx, tx, p.NannyID)
	if err != nil {
		return BulkResult{}, err
	}
	if !nannyExists {
		return BulkResult{}, httperr.NotFoundf("Nanny not found")
	}

	req, err := repository.InsertBookingRequest(ctx, tx, models.BookingRequest{
		ParentUserID:  p.ParentUserID,
		NannyID:       p.NannyID,
		Status:        models.RequestPending,
		PaymentStatus: models.PaymentPending,
		ClientNotes:   p.ClientNotes,
	})
	if err != nil {
		return BulkResult{}, err
	}

	// Lock every held slot intersecting the batch envelope up front, so two
	// concurrent batches contesting the same range serialize here.
	batchStart, batchEnd := batchEnvelope(p.Slots)
	heldSlots, err := repository.LockHeldSlots(ctx, tx, p.NannyID, batchStart, batchEnd)
	if err != nil {
		return BulkResult{}, err
	}
	held := make([]timeslot.Interval, 0, len(heldSlots))
	for _, h := range heldSlots {
		held = append(held, timeslot.Interval{Start: h.StartsAt, End: h.EndsAt})
	}

	slots := make([]timeslot.Interval, len(p.Slots))
	open := make([][]timeslot.Interval, len(p.Slots))
	for i, in := range p.Slots {
		slots[i] = timeslot.Interval{Start: in.StartsAt.UTC(), End: in.EndsAt.UTC()}
		if !s.Options.EnforceAvailability || !slots[i].Valid() {
			continue
		}
		day := dateOnly(slots[i].Start)
		windows, err := repository.ListOpenWindowsForDate(ctx, tx, p.NannyID, day)
		if err != nil {
			return BulkResult{}, err
		}
		for _, w := range windows {
			iv, err := windowInterval(day, w.StartTime, w.EndTime)
			if err != nil {
				return BulkResult{}, err
			}
			open[i] = append(open[i], iv)
		}
	}

	decisions := evaluateBatch(slots, open, held, s.Options)

	result := BulkResult{
		BookingRequestID: req.ID,
		CreatedSlots:     []models.BookingRequestSlot{},
		Errors:           []SlotError{},
	}
	for i, reason := range decisions {
		if reason != "" {
			result.Errors = append(result.Errors, SlotError{Index: i, Error: reason})
			continue
		}
		created, err := repository.InsertRequestSlot(ctx, tx, models.BookingRequestSlot{
			BookingRequestID: req.ID,
			StartsAt:         slots[i].Start,
			EndsAt:           slots[i].End,
		})
		if err != nil {
			return BulkResult{}, err
		}
		result.CreatedSlots = append(result.CreatedSlots, created)
	}

	result.Status = models.RequestDeclined
	result.PaymentStatus = models.PaymentPending
	if len(result.CreatedSlots) > 0 {
		result.Status = models.RequestApproved
		result.PaymentStatus = models.PaymentPaid
	}
	if err := repository.FinalizeBookingRequest(ctx, tx, req.ID, result.Status, result.PaymentStatus); err != nil {
		return BulkResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return BulkResult{}, fmt.Errorf("commit bulk tx: %w", err)
	}
	return result, nil
}

// evaluateBatch decides every slot in input order. open[i] holds the open
// availability windows for slot i (ignored when EnforceAvailability is off);
// held are the already-committed holds for the nanny. The returned slice has
// an empty string for accepted slots and a rejection reason otherwise.
func evaluateBatch(slots []timeslot.Interval, open [][]timeslot.Interval, held []timeslot.Interval, opts BulkOptions) []string {
	decisions := make([]string, len(slots))
	blocked := held
	for i, slot := range slots {
		if !slot.Valid() {
			decisions[i] = reasonInvertedRange
			continue
		}
		if opts.EnforceAvailability && !timeslot.AnyCovers(slot, open[i]) {
			decisions[i] = reasonNotAvailable
			continue
		}
		if timeslot.AnyOverlaps(slot, blocked) {
			decisions[i] = reasonOverlapsHold
			continue
		}
		if opts.CheckSiblings {
			blocked = append(blocked, slot)
		}
	}
	return decisions
}

// batchEnvelope returns the smallest range containing every slot.
func batchEnvelope(slots []BulkSlotInput) (time.Time, time.Time) {
	start, end := slots[0].StartsAt, slots[0].EndsAt
	for _, s := range slots[1:] {
		if s.StartsAt.Before(start) {
			start = s.StartsAt
		}
		if s.EndsAt.After(end) {
			end = s.EndsAt
		}
	}
	return start.UTC(), end.UTC()
}

// dateOnly truncates to the UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// windowInterval places an availability window's times onto a calendar date.
func windowInterval(day time.Time, startStr, endStr string) (timeslot.Interval, error) {
	start, err := atTimeOfDay(day, startStr)
	if err != nil {
		return timeslot.Interval{}, err
	}
	end, err := atTimeOfDay(day, endStr)
	if err != nil {
		return timeslot.Interval{}, err
	}
	return timeslot.Interval{Start: start, End: end}, nil
}

// atTimeOfDay parses "HH:MM" or "HH:MM:SS" onto the given date.
func atTimeOfDay(day time.Time, s string) (time.Time, error) {
	layout := "15:04"
	if len(s) >= 8 {
		layout, s = "15:04:05", s[:8]
	} else if len(s) >= 5 {
		s = s[:5]
	} else {
		return time.Time{}, fmt.Errorf("invalid time of day: %q", s)
	}
	tod, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC), nil
}
