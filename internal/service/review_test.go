package service

import (
	"testing"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
)

func TestCheckReviewablePendingBooking(t *testing.T) {
	err := CheckReviewable(models.Booking{Status: "pending"}, false)
	if err == nil {
		t.Fatal("pending booking must not be reviewable")
	}
	if httperr.KindOf(err) != httperr.PreconditionFailed {
		t.Errorf("expected precondition-failed, got %v", httperr.KindOf(err))
	}
}

func TestCheckReviewableDuplicate(t *testing.T) {
	err := CheckReviewable(models.Booking{Status: "completed"}, true)
	if err == nil {
		t.Fatal("second review must be rejected")
	}
	if httperr.KindOf(err) != httperr.Conflict {
		t.Errorf("expected conflict, got %v", httperr.KindOf(err))
	}
}

func TestCheckReviewableCompleted(t *testing.T) {
	if err := CheckReviewable(models.Booking{Status: "completed"}, false); err != nil {
		t.Errorf("completed unreviewed booking must be reviewable: %v", err)
	}
}

func TestCheckReviewableOtherStates(t *testing.T) {
	for _, status := range []string{"accepted", "rejected", "cancelled"} {
		err := CheckReviewable(models.Booking{Status: status}, false)
		if httperr.KindOf(err) != httperr.PreconditionFailed {
			t.Errorf("%s booking: expected precondition-failed, got %v", status, err)
		}
	}
}
