package repository

import (
	"context"
	"fmt"
	"time"

	"nannybook-service/internal/models"
)

// InsertBookingRequest creates the parent record slots will reference.
func InsertBookingRequest(ctx context.Context, db DBTX, r models.BookingRequest) (models.BookingRequest, error) {
	q := `INSERT INTO booking_requests (parent_user_id, nanny_id, status, payment_status, client_notes, created_by_admin_user_id)
	      VALUES ($1,$2,$3,$4,$5,$6)
	      RETURNING id, created_at, updated_at`
	err := db.QueryRow(ctx, q,
		r.ParentUserID, r.NannyID, r.Status, r.PaymentStatus, r.ClientNotes, r.CreatedByAdminUserID).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return models.BookingRequest{}, fmt.Errorf("insert booking request: %w", err)
	}
	return r, nil
}

// FinalizeBookingRequest writes the outcome of a bulk run.
func FinalizeBookingRequest(ctx context.Context, db DBTX, id int64, status, paymentStatus string) error {
	q := `UPDATE booking_requests SET status=$1, payment_status=$2, updated_at=now() WHERE id=$3`
	if _, err := db.Exec(ctx, q, status, paymentStatus, id); err != nil {
		return fmt.Errorf("finalize booking request: %w", err)
	}
	return nil
}

// InsertRequestSlot attaches one committed slot to its request.
func InsertRequestSlot(ctx context.Context, db DBTX, s models.BookingRequestSlot) (models.BookingRequestSlot, error) {
	q := `INSERT INTO booking_request_slots (booking_request_id, starts_at, ends_at)
	      VALUES ($1,$2,$3) RETURNING id`
	if err := db.QueryRow(ctx, q, s.BookingRequestID, s.StartsAt, s.EndsAt).Scan(&s.ID); err != nil {
		return models.BookingRequestSlot{}, fmt.Errorf("insert request slot: %w", err)
	}
	return s, nil
}

// LockHeldSlots returns every slot belonging to a pending, approved or
// completed request of the nanny that intersects [start, end), with row
// locks held so concurrent bulk requests serialize on the contested range.
func LockHeldSlots(ctx context.Context, tx DBTX, nannyID int64, start, end time.Time) ([]models.BookingRequestSlot, error) {
	q := `SELECT s.id, s.booking_request_id, s.starts_at, s.ends_at
	      FROM booking_request_slots s
	      JOIN booking_requests r ON r.id = s.booking_request_id
	      WHERE r.nanny_id=$1
	        AND r.status IN ('pending','approved','completed')
	        AND s.starts_at < $2 AND $3 < s.ends_at
	      FOR UPDATE OF s`
	rows, err := tx.Query(ctx, q, nannyID, end, start)
	if err != nil {
		return nil, fmt.Errorf("lock held slots: %w", err)
	}
	defer rows.Close()

	var out []models.BookingRequestSlot
	for rows.Next() {
		var s models.BookingRequestSlot
		if err := rows.Scan(&s.ID, &s.BookingRequestID, &s.StartsAt, &s.EndsAt); err != nil {
			return nil, fmt.Errorf("scan request slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
