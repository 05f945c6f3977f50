package models

import "time"

// Booking is a single committed appointment between one nanny and one
// parent.
type Booking struct {
	ID            int64      `json:"booking_id"`
	NannyID       int64      `json:"nanny_id"`
	ClientUserID  int64      `json:"parent_user_id"`
	Day           time.Time  `json:"day"`
	Status        string     `json:"status"`
	PriceCents    int64      `json:"price_cents"`
	StartsAt      *time.Time `json:"starts_at,omitempty"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	Lat           *float64   `json:"lat,omitempty"`
	Lng           *float64   `json:"lng,omitempty"`
	LocationMode  *string    `json:"location_mode,omitempty"`
	LocationLabel *string    `json:"location_label,omitempty"`
}

// Booking request lifecycle states.
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestDeclined  = "declined"
	RequestCancelled = "cancelled"
	RequestCompleted = "completed"

	PaymentPending   = "pending_payment"
	PaymentPaid      = "paid"
	PaymentCancelled = "cancelled"
)

// BookingRequest is a parent's bulk request for candidate slots with one
// nanny.
type BookingRequest struct {
	ID                   int64      `json:"id"`
	ParentUserID         int64      `json:"parent_user_id"`
	NannyID              int64      `json:"nanny_id"`
	Status               string     `json:"status"`
	PaymentStatus        string     `json:"payment_status"`
	HoldExpiresAt        *time.Time `json:"hold_expires_at,omitempty"`
	AdminNotes           *string    `json:"admin_notes,omitempty"`
	ClientNotes          *string    `json:"client_notes,omitempty"`
	CreatedByAdminUserID *int64     `json:"created_by_admin_user_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// BookingRequestSlot is one candidate time window inside a request,
// immutable once committed.
type BookingRequestSlot struct {
	ID               int64     `json:"id"`
	BookingRequestID int64     `json:"booking_request_id"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
}

// Review is one rating per completed booking, pending admin approval.
type Review struct {
	ID           int64     `json:"id"`
	BookingID    int64     `json:"booking_id"`
	ParentUserID int64     `json:"parent_user_id"`
	NannyID      int64     `json:"nanny_id"`
	Stars        int       `json:"stars"`
	Comment      *string   `json:"comment,omitempty"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}
