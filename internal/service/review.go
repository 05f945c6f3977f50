package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nannybook-service/internal/clock"
	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/timeslot"
)

// CreateReviewParams is a parent's rating of one booking.
type CreateReviewParams struct {
	BookingID int64
	Stars     int
	Comment   *string
}

// NannyReviews is the public reviews listing with its windowed aggregate.
type NannyReviews struct {
	NannyID          int64           `json:"nanny_id"`
	AverageRating12m *float64        `json:"average_rating_12m"`
	ReviewCount12m   int             `json:"review_count_12m"`
	Reviews          []models.Review `json:"reviews"`
}

// ReviewService owns review submission, listing and moderation.
type ReviewService struct {
	Pool  *pgxpool.Pool
	Clock clock.Clock
}

// Create records an unapproved review for a completed booking.
func (s *ReviewService) Create(ctx context.Context, p CreateReviewParams) (models.Review, error) {
	if p.Stars < 1 || p.Stars > 5 {
		return models.Review{}, httperr.Validationf("stars must be between 1 and 5")
	}

	booking, found, err := repository.GetBooking(ctx, s.Pool, p.BookingID)
	if err != nil {
		return models.Review{}, err
	}
	if !found {
		return models.Review{}, httperr.NotFoundf("Booking not found")
	}

	exists, err := repository.ReviewExistsForBooking(ctx, s.Pool, p.BookingID)
	if err != nil {
		return models.Review{}, err
	}
	if err := CheckReviewable(booking, exists); err != nil {
		return models.Review{}, err
	}

	return repository.InsertReview(ctx, s.Pool, models.Review{
		BookingID:    booking.ID,
		ParentUserID: booking.ClientUserID,
		NannyID:      booking.NannyID,
		Stars:        p.Stars,
		Comment:      p.Comment,
		Approved:     false,
	})
}

// CheckReviewable enforces the review preconditions: the booking must be
// completed and not yet reviewed.
func CheckReviewable(booking models.Booking, alreadyReviewed bool) error {
	if timeslot.BookingStatus(booking.Status) != timeslot.StatusCompleted {
		return httperr.Preconditionf("Booking is not completed")
	}
	if alreadyReviewed {
		return httperr.Conflictf("Review already exists for this booking")
	}
	return nil
}

// ForNanny returns a nanny's approved reviews inside the trailing window,
// with the same aggregate the search uses.
func (s *ReviewService) ForNanny(ctx context.Context, nannyID int64) (NannyReviews, error) {
	exists, err := repository.NannyExists(ctx, s.Pool, nannyID)
	if err != nil {
		return NannyReviews{}, err
	}
	if !exists {
		return NannyReviews{}, httperr.NotFoundf("Nanny not found")
	}

	windowStart := s.Clock.Now().Add(-ratingWindowDays * 24 * time.Hour)
	reviews, err := repository.ListApprovedReviewsSince(ctx, s.Pool, nannyID, windowStart)
	if err != nil {
		return NannyReviews{}, err
	}

	out := NannyReviews{NannyID: nannyID, Reviews: reviews}
	if out.Reviews == nil {
		out.Reviews = []models.Review{}
	}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Stars
		}
		avg := float64(sum) / float64(len(reviews))
		out.AverageRating12m = &avg
		out.ReviewCount12m = len(reviews)
	}
	return out, nil
}

// Approve flips a review to approved; approving twice is a no-op.
func (s *ReviewService) Approve(ctx context.Context, reviewID int64) (models.Review, error) {
	review, found, err := repository.GetReview(ctx, s.Pool, reviewID)
	if err != nil {
		return models.Review{}, err
	}
	if !found {
		return models.Review{}, httperr.NotFoundf("Review not found")
	}
	if review.Approved {
		return review, nil
	}
	return repository.ApproveReview(ctx, s.Pool, reviewID)
}

// ListByApproval lists reviews in one moderation state.
func (s *ReviewService) ListByApproval(ctx context.Context, approved bool) ([]models.Review, error) {
	return repository.ListReviewsByApproval(ctx, s.Pool, approved)
}
