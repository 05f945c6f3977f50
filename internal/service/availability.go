package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
)

// SetAvailabilityParams is an admin-entered window for one nanny and date.
type SetAvailabilityParams struct {
	NannyID     int64
	Date        time.Time
	StartTime   string
	EndTime     string
	IsAvailable bool
	Notes       *string
}

// AvailabilityService owns the admin availability write path.
type AvailabilityService struct {
	Pool *pgxpool.Pool
}

// Set inserts a window or, when an exact date+time match exists, toggles its
// flags. The overlap check and the write run in one transaction over locked
// rows, so two concurrent edits for the same date serialize.
func (s *AvailabilityService) Set(ctx context.Context, p SetAvailabilityParams) (models.Availability, error) {
	day := dateOnly(p.Date)
	candidate, err := windowInterval(day, p.StartTime, p.EndTime)
	if err != nil {
		return models.Availability{}, httperr.Validationf("invalid time window: %v", err)
	}
	if !candidate.Valid() {
		return models.Availability{}, httperr.Validationf("start_time must be before end_time")
	}

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return models.Availability{}, fmt.Errorf("begin availability tx: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := repository.LockAvailabilityForDate(ctx, tx, p.NannyID, day)
	if err != nil {
		return models.Availability{}, err
	}

	var exact *models.Availability
	for i, row := range existing {
		iv, err := windowInterval(day, row.StartTime, row.EndTime)
		if err != nil {
			return models.Availability{}, err
		}
		if iv.Start.Equal(candidate.Start) && iv.End.Equal(candidate.End) {
			exact = &existing[i]
			continue
		}
		if iv.Overlaps(candidate) {
			return models.Availability{}, httperr.Conflictf("Availability overlaps an existing slot")
		}
	}

	var out models.Availability
	if exact != nil {
		out, err = repository.UpdateAvailabilityFlags(ctx, tx, exact.ID, p.IsAvailable, p.Notes)
	} else {
		out, err = repository.InsertAvailability(ctx, tx, models.Availability{
			NannyID:     p.NannyID,
			Date:        day,
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
			IsAvailable: p.IsAvailable,
			CreatedBy:   "admin",
			Notes:       p.Notes,
		})
	}
	if err != nil {
		return models.Availability{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Availability{}, fmt.Errorf("commit availability tx: %w", err)
	}
	return out, nil
}

// List returns a nanny's windows, optionally for one date.
func (s *AvailabilityService) List(ctx context.Context, nannyID int64, day *time.Time) ([]models.Availability, error) {
	if day != nil {
		d := dateOnly(*day)
		day = &d
	}
	return repository.ListAvailability(ctx, s.Pool, nannyID, day)
}
