package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"nannybook-service/internal/models"
)

const bookingCols = `id, nanny_id, client_user_id, day, status, price_cents, starts_at, ends_at, lat, lng, location_mode, location_label`

func scanBooking(row pgx.Row) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.NannyID, &b.ClientUserID, &b.Day, &b.Status, &b.PriceCents,
		&b.StartsAt, &b.EndsAt, &b.Lat, &b.Lng, &b.LocationMode, &b.LocationLabel)
	return b, err
}

// InsertBooking persists a new pending booking.
func InsertBooking(ctx context.Context, db DBTX, b models.Booking) (models.Booking, error) {
	q := `INSERT INTO bookings (nanny_id, client_user_id, day, status, price_cents, starts_at, ends_at, lat, lng, location_mode, location_label)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	      RETURNING ` + bookingCols
	out, err := scanBooking(db.QueryRow(ctx, q,
		b.NannyID, b.ClientUserID, b.Day, b.Status, b.PriceCents,
		b.StartsAt, b.EndsAt, b.Lat, b.Lng, b.LocationMode, b.LocationLabel))
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	return out, nil
}

// GetBooking loads one booking; found=false when the id is unknown.
func GetBooking(ctx context.Context, db DBTX, id int64) (models.Booking, bool, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	b, err := scanBooking(db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Booking{}, false, nil
	}
	if err != nil {
		return models.Booking{}, false, fmt.Errorf("get booking: %w", err)
	}
	return b, true, nil
}

// LockBooking loads one booking with its row locked for a status write.
func LockBooking(ctx context.Context, tx DBTX, id int64) (models.Booking, bool, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1 FOR UPDATE`
	b, err := scanBooking(tx.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Booking{}, false, nil
	}
	if err != nil {
		return models.Booking{}, false, fmt.Errorf("lock booking: %w", err)
	}
	return b, true, nil
}

// LockOverlappingAccepted returns accepted bookings of the nanny, other than
// exclID, intersecting [start, end), locking the rows it finds.
func LockOverlappingAccepted(ctx context.Context, tx DBTX, nannyID, exclID int64, start, end time.Time) ([]models.Booking, error) {
	q := `SELECT ` + bookingCols + `
	      FROM bookings
	      WHERE nanny_id=$1 AND status='accepted' AND id != $2
	        AND starts_at < $3 AND ends_at > $4
	      FOR UPDATE`
	rows, err := tx.Query(ctx, q, nannyID, exclID, end, start)
	if err != nil {
		return nil, fmt.Errorf("lock overlapping accepted: %w", err)
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBookingStatus writes the new status.
func UpdateBookingStatus(ctx context.Context, db DBTX, id int64, status string) error {
	if _, err := db.Exec(ctx, `UPDATE bookings SET status=$1 WHERE id=$2`, status, id); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	Status       *string
	From         *time.Time
	To           *time.Time
	NannyID      *int64
	ParentUserID *int64
}

// ListBookings returns bookings for one side of the relationship, newest
// first. Exactly one of filter.NannyID / filter.ParentUserID anchors the
// query; the other acts as an extra filter.
func ListBookings(ctx context.Context, db DBTX, filter BookingFilter) ([]models.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE 1=1`
	var args []any
	n := 0
	add := func(cond string, v any) {
		n++
		q += fmt.Sprintf(" AND "+cond, n)
		args = append(args, v)
	}
	if filter.ParentUserID != nil {
		add("client_user_id=$%d", *filter.ParentUserID)
	}
	if filter.NannyID != nil {
		add("nanny_id=$%d", *filter.NannyID)
	}
	if filter.Status != nil {
		add("status=$%d", *filter.Status)
	}
	if filter.From != nil {
		add("ends_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("starts_at <= $%d", *filter.To)
	}
	q += ` ORDER BY starts_at DESC`

	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
