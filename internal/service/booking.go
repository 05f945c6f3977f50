package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/timeslot"
)

// Location modes a booking can snapshot.
const (
	LocationModeDefault = "default"
	LocationModeCurrent = "current"
)

// BookingService owns the booking lifecycle.
type BookingService struct {
	Pool     *pgxpool.Pool
	Notifier *BookingNotifier
	Log      *zap.Logger
}

// Create persists a pending booking, resolving the location snapshot from
// the requested mode, then fires notifications without awaiting them.
func (s *BookingService) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	label := ""
	if b.LocationLabel != nil {
		label = strings.TrimSpace(*b.LocationLabel)
	}
	if label == "" {
		return models.Booking{}, httperr.Validationf("location_label is required")
	}
	b.LocationLabel = &label

	if b.LocationMode != nil && *b.LocationMode == LocationModeDefault {
		parent, found, err := repository.GetParentProfile(ctx, s.Pool, b.ClientUserID)
		if err != nil {
			return models.Booking{}, err
		}
		if !found || !parent.HasDefaultLocation() {
			return models.Booking{}, httperr.Preconditionf("Parent default location not set")
		}
		b.Lat, b.Lng = parent.Lat, parent.Lng
	} else if b.Lat == nil || b.Lng == nil {
		return models.Booking{}, httperr.Validationf("Current location requires lat and lng")
	}

	b.Status = string(timeslot.StatusPending)
	created, err := repository.InsertBooking(ctx, s.Pool, b)
	if err != nil {
		return models.Booking{}, err
	}

	s.Log.Info("booking created",
		zap.Int64("booking_id", created.ID),
		zap.Int64("nanny_id", created.NannyID),
		zap.Int64("parent_user_id", created.ClientUserID))

	if s.Notifier != nil {
		// Fire-and-forget: a failed mail must never surface into the booking
		// result.
		go s.Notifier.BookingCreated(context.WithoutCancel(ctx), created)
	}
	return created, nil
}

// UpdateStatus applies one transition of the lifecycle table. The conflict
// check for pending->accepted and the status write share one transaction so
// two concurrent accepts cannot both pass.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, target timeslot.BookingStatus) (models.Booking, error) {
	if !timeslot.ValidStatus(target) {
		return models.Booking{}, httperr.Validationf("unknown status %q", target)
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return models.Booking{}, fmt.Errorf("begin status tx: %w", err)
	}
	defer tx.Rollback(ctx)

	b, found, err := repository.LockBooking(ctx, tx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if !found {
		return models.Booking{}, httperr.NotFoundf("Booking not found")
	}

	current := timeslot.BookingStatus(b.Status)
	if current == timeslot.StatusPending && target == timeslot.StatusAccepted {
		if b.StartsAt == nil || b.EndsAt == nil {
			return models.Booking{}, httperr.Validationf("Booking time window is missing")
		}
		overlapping, err := repository.LockOverlappingAccepted(ctx, tx, b.NannyID, b.ID, *b.StartsAt, *b.EndsAt)
		if err != nil {
			return models.Booking{}, err
		}
		if len(overlapping) > 0 {
			return models.Booking{}, httperr.Conflictf(
				"Nanny already has an accepted booking that overlaps this time window")
		}
	}

	if err := timeslot.CheckTransition(current, target); err != nil {
		return models.Booking{}, err
	}

	if err := repository.UpdateBookingStatus(ctx, tx, b.ID, string(target)); err != nil {
		return models.Booking{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Booking{}, fmt.Errorf("commit status tx: %w", err)
	}

	b.Status = string(target)
	return b, nil
}

// ListForParent returns a parent's bookings with optional filters.
func (s *BookingService) ListForParent(ctx context.Context, userID int64, f repository.BookingFilter) ([]models.Booking, error) {
	f.ParentUserID = &userID
	return repository.ListBookings(ctx, s.Pool, f)
}

// ListForNanny returns a nanny's bookings with optional filters.
func (s *BookingService) ListForNanny(ctx context.Context, nannyID int64, f repository.BookingFilter) ([]models.Booking, error) {
	f.NannyID = &nannyID
	return repository.ListBookings(ctx, s.Pool, f)
}
