package service

import (
	"context"
	"testing"
	"time"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
)

func strptr(s string) *string { return &s }

func TestCreateRejectsMissingLocationLabel(t *testing.T) {
	// A nil pool guarantees the error comes from validation, not storage.
	svc := &BookingService{}

	lat, lng := -33.9, 18.4
	mode := LocationModeCurrent
	_, err := svc.Create(context.Background(), models.Booking{
		NannyID:      1,
		ClientUserID: 2,
		Day:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Lat:          &lat,
		Lng:          &lng,
		LocationMode: &mode,
	})
	if httperr.KindOf(err) != httperr.Validation {
		t.Fatalf("nil label: got %v, want validation error", err)
	}
}

func TestCreateRejectsBlankLocationLabel(t *testing.T) {
	svc := &BookingService{}

	lat, lng := -33.9, 18.4
	mode := LocationModeCurrent
	_, err := svc.Create(context.Background(), models.Booking{
		NannyID:       1,
		ClientUserID:  2,
		Day:           time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Lat:           &lat,
		Lng:           &lng,
		LocationMode:  &mode,
		LocationLabel: strptr("   "),
	})
	if httperr.KindOf(err) != httperr.Validation {
		t.Fatalf("blank label: got %v, want validation error", err)
	}
}

func TestCreateChecksLabelBeforeLocationMode(t *testing.T) {
	// Default mode normally hits the parent profile lookup; a missing label
	// must fail first, so the nil pool is never touched.
	svc := &BookingService{}

	mode := LocationModeDefault
	_, err := svc.Create(context.Background(), models.Booking{
		NannyID:      1,
		ClientUserID: 2,
		Day:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		LocationMode: &mode,
	})
	if httperr.KindOf(err) != httperr.Validation {
		t.Fatalf("got %v, want validation error for the label", err)
	}
}
