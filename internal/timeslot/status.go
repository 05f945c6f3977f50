package timeslot

import "nannybook-service/internal/httperr"

// BookingStatus is the lifecycle state of a committed booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// allowedTransitions is the whole lifecycle: rejected, cancelled and
// completed are terminal.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusCompleted, StatusCancelled},
	StatusRejected:  {},
	StatusCancelled: {},
	StatusCompleted: {},
}

// ValidStatus reports whether s names a known booking status.
func ValidStatus(s BookingStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CheckTransition validates a status change against the lifecycle table.
// The returned error names both states so callers can surface it verbatim.
func CheckTransition(from, to BookingStatus) error {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.Validationf("invalid transition: %s -> %s", from, to)
}
