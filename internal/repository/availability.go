package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"nannybook-service/internal/models"
)

const availabilityCols = `id, nanny_id, date, start_time::text, end_time::text, is_available, created_by, notes, created_at`

func scanAvailability(row pgx.Row) (models.Availability, error) {
	var a models.Availability
	err := row.Scan(&a.ID, &a.NannyID, &a.Date, &a.StartTime, &a.EndTime,
		&a.IsAvailable, &a.CreatedBy, &a.Notes, &a.CreatedAt)
	return a, err
}

// ListAvailability returns a nanny's windows, optionally restricted to one
// date.
func ListAvailability(ctx context.Context, db DBTX, nannyID int64, day *time.Time) ([]models.Availability, error) {
	q := `SELECT ` + availabilityCols + ` FROM nanny_availability WHERE nanny_id=$1`
	args := []any{nannyID}
	if day != nil {
		q += ` AND date=$2`
		args = append(args, *day)
	}
	q += ` ORDER BY date, start_time`

	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	var out []models.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LockAvailabilityForDate loads all of a nanny's windows on a date with row
// locks held, so a concurrent write for the same date serializes.
func LockAvailabilityForDate(ctx context.Context, tx DBTX, nannyID int64, day time.Time) ([]models.Availability, error) {
	q := `SELECT ` + availabilityCols + `
	      FROM nanny_availability WHERE nanny_id=$1 AND date=$2 FOR UPDATE`
	rows, err := tx.Query(ctx, q, nannyID, day)
	if err != nil {
		return nil, fmt.Errorf("lock availability: %w", err)
	}
	defer rows.Close()

	var out []models.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListOpenWindowsForDate returns only is_available windows for coverage
// checks.
func ListOpenWindowsForDate(ctx context.Context, db DBTX, nannyID int64, day time.Time) ([]models.Availability, error) {
	q := `SELECT ` + availabilityCols + `
	      FROM nanny_availability
	      WHERE nanny_id=$1 AND date=$2 AND is_available=TRUE
	      ORDER BY start_time`
	rows, err := db.Query(ctx, q, nannyID, day)
	if err != nil {
		return nil, fmt.Errorf("list open windows: %w", err)
	}
	defer rows.Close()

	var out []models.Availability
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAvailabilityFlags toggles is_available and notes on an existing
// window.
func UpdateAvailabilityFlags(ctx context.Context, db DBTX, id int64, isAvailable bool, notes *string) (models.Availability, error) {
	q := `UPDATE nanny_availability SET is_available=$1, notes=$2 WHERE id=$3
	      RETURNING ` + availabilityCols
	a, err := scanAvailability(db.QueryRow(ctx, q, isAvailable, notes, id))
	if err != nil {
		return models.Availability{}, fmt.Errorf("update availability: %w", err)
	}
	return a, nil
}

// InsertAvailability adds a new window.
func InsertAvailability(ctx context.Context, db DBTX, a models.Availability) (models.Availability, error) {
	q := `INSERT INTO nanny_availability (nanny_id, date, start_time, end_time, is_available, created_by, notes)
	      VALUES ($1, $2, $3::time, $4::time, $5, $6, $7)
	      RETURNING ` + availabilityCols
	out, err := scanAvailability(db.QueryRow(ctx, q,
		a.NannyID, a.Date, a.StartTime, a.EndTime, a.IsAvailable, a.CreatedBy, a.Notes))
	if err != nil {
		return models.Availability{}, fmt.Errorf("insert availability: %w", err)
	}
	return out, nil
}

// NannyExists reports whether the nanny id is known.
func NannyExists(ctx context.Context, db DBTX, nannyID int64) (bool, error) {
	var id int64
	err := db.QueryRow(ctx, `SELECT id FROM nannies WHERE id=$1`, nannyID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("nanny exists: %w", err)
	}
	return true, nil
}
