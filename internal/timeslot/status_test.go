package timeslot

import (
	"strings"
	"testing"

	"nannybook-service/internal/httperr"
)

func TestCheckTransitionAllowed(t *testing.T) {
	allowed := [][2]BookingStatus{
		{StatusPending, StatusAccepted},
		{StatusPending, StatusRejected},
		{StatusAccepted, StatusCompleted},
		{StatusAccepted, StatusCancelled},
	}
	for _, pair := range allowed {
		if err := CheckTransition(pair[0], pair[1]); err != nil {
			t.Errorf("%s -> %s should be allowed: %v", pair[0], pair[1], err)
		}
	}
}

func TestCheckTransitionEverythingElseFails(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted}
	allowed := map[[2]BookingStatus]bool{
		{StatusPending, StatusAccepted}:  true,
		{StatusPending, StatusRejected}:  true,
		{StatusAccepted, StatusCompleted}: true,
		{StatusAccepted, StatusCancelled}: true,
	}
	for _, from := range all {
		for _, to := range all {
			err := CheckTransition(from, to)
			if allowed[[2]BookingStatus{from, to}] {
				continue
			}
			if err == nil {
				t.Errorf("%s -> %s should be rejected", from, to)
				continue
			}
			if httperr.KindOf(err) != httperr.Validation {
				t.Errorf("%s -> %s: expected validation kind, got %v", from, to, httperr.KindOf(err))
			}
			if !strings.Contains(err.Error(), string(from)) || !strings.Contains(err.Error(), string(to)) {
				t.Errorf("error must name both states: %v", err)
			}
		}
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, terminal := range []BookingStatus{StatusRejected, StatusCancelled, StatusCompleted} {
		for _, to := range []BookingStatus{StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted} {
			if err := CheckTransition(terminal, to); err == nil {
				t.Errorf("terminal %s must not transition to %s", terminal, to)
			}
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(StatusPending) {
		t.Error("pending is valid")
	}
	if ValidStatus("confirmed") {
		t.Error("unknown status must be invalid")
	}
}
