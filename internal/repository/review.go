package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"nannybook-service/internal/models"
)

const reviewCols = `id, booking_id, parent_user_id, nanny_id, stars, comment, approved, created_at`

func scanReview(row pgx.Row) (models.Review, error) {
	var r models.Review
	err := row.Scan(&r.ID, &r.BookingID, &r.ParentUserID, &r.NannyID,
		&r.Stars, &r.Comment, &r.Approved, &r.CreatedAt)
	return r, err
}

// InsertReview persists a new unapproved review.
func InsertReview(ctx context.Context, db DBTX, r models.Review) (models.Review, error) {
	q := `INSERT INTO reviews (booking_id, parent_user_id, nanny_id, stars, comment, approved)
	      VALUES ($1,$2,$3,$4,$5,$6)
	      RETURNING ` + reviewCols
	out, err := scanReview(db.QueryRow(ctx, q,
		r.BookingID, r.ParentUserID, r.NannyID, r.Stars, r.Comment, r.Approved))
	if err != nil {
		return models.Review{}, fmt.Errorf("insert review: %w", err)
	}
	return out, nil
}

// ReviewExistsForBooking reports whether the booking already has a review.
func ReviewExistsForBooking(ctx context.Context, db DBTX, bookingID int64) (bool, error) {
	var id int64
	err := db.QueryRow(ctx, `SELECT id FROM reviews WHERE booking_id=$1`, bookingID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("review exists: %w", err)
	}
	return true, nil
}

// GetReview loads one review; found=false when the id is unknown.
func GetReview(ctx context.Context, db DBTX, id int64) (models.Review, bool, error) {
	r, err := scanReview(db.QueryRow(ctx, `SELECT `+reviewCols+` FROM reviews WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Review{}, false, nil
	}
	if err != nil {
		return models.Review{}, false, fmt.Errorf("get review: %w", err)
	}
	return r, true, nil
}

// ApproveReview flips the approved flag. Approving twice is a no-op.
func ApproveReview(ctx context.Context, db DBTX, id int64) (models.Review, error) {
	q := `UPDATE reviews SET approved=TRUE WHERE id=$1 RETURNING ` + reviewCols
	r, err := scanReview(db.QueryRow(ctx, q, id))
	if err != nil {
		return models.Review{}, fmt.Errorf("approve review: %w", err)
	}
	return r, nil
}

// ListReviewsByApproval lists reviews in one moderation state, newest first.
func ListReviewsByApproval(ctx context.Context, db DBTX, approved bool) ([]models.Review, error) {
	q := `SELECT ` + reviewCols + ` FROM reviews WHERE approved=$1 ORDER BY created_at DESC`
	rows, err := db.Query(ctx, q, approved)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListApprovedReviewsSince returns a nanny's approved reviews created at or
// after the window start, newest first.
func ListApprovedReviewsSince(ctx context.Context, db DBTX, nannyID int64, since time.Time) ([]models.Review, error) {
	q := `SELECT ` + reviewCols + `
	      FROM reviews
	      WHERE nanny_id=$1 AND approved=TRUE AND created_at >= $2
	      ORDER BY created_at DESC`
	rows, err := db.Query(ctx, q, nannyID, since)
	if err != nil {
		return nil, fmt.Errorf("list approved reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RatingWindow holds a nanny's trailing-window rating aggregate. Average is
// nil when no reviews fall inside the window.
type RatingWindow struct {
	Average *float64
	Count   int
}

// RatingsSince aggregates approved reviews per nanny inside the window.
func RatingsSince(ctx context.Context, db DBTX, nannyIDs []int64, since time.Time) (map[int64]RatingWindow, error) {
	out := make(map[int64]RatingWindow, len(nannyIDs))
	if len(nannyIDs) == 0 {
		return out, nil
	}
	q := `SELECT nanny_id, AVG(stars)::float8, COUNT(id)
	      FROM reviews
	      WHERE nanny_id = ANY($1) AND approved=TRUE AND created_at >= $2
	      GROUP BY nanny_id`
	rows, err := db.Query(ctx, q, nannyIDs, since)
	if err != nil {
		return nil, fmt.Errorf("ratings since: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nannyID int64
		var rw RatingWindow
		if err := rows.Scan(&nannyID, &rw.Average, &rw.Count); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out[nannyID] = rw
	}
	return out, rows.Err()
}
