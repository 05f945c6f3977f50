package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"nannybook-service/internal/config"
	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
)

// Service wraps the OAuth2 flow used to export accepted bookings into an
// admin's Google Calendar. Tokens are never stored server side; the caller
// carries the exchanged token and presents it on each export.
type Service struct {
	OAuth *oauth2.Config
}

// New returns nil when the Google credentials are not configured, which
// disables calendar export.
func New(cfg config.Config) *Service {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" || cfg.GoogleRedirectURL == "" {
		return nil
	}
	return &Service{
		OAuth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{calendarapi.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL builds the consent URL for the given state parameter.
func (s *Service) AuthURL(state string) string {
	return s.OAuth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and returns it as JSON
// for the caller to keep.
func (s *Service) Exchange(ctx context.Context, code string) (string, error) {
	token, err := s.OAuth.Exchange(ctx, code)
	if err != nil {
		return "", httperr.Validationf("failed to exchange code for token")
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseToken decodes a token previously returned by Exchange.
func ParseToken(raw string) (*oauth2.Token, error) {
	var token oauth2.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, httperr.Validationf("invalid token format")
	}
	return &token, nil
}

// ExportBookings inserts one event per accepted booking into the calendar
// the token grants access to. Bookings without timestamps are skipped.
// Returns the number of events created.
func (s *Service) ExportBookings(ctx context.Context, token *oauth2.Token, calendarID string, bookings []models.Booking) (int, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	client := s.OAuth.Client(ctx, token)
	srv, err := calendarapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return 0, fmt.Errorf("create calendar service: %w", err)
	}

	created := 0
	for _, b := range bookings {
		if b.StartsAt == nil || b.EndsAt == nil {
			continue
		}
		event := &calendarapi.Event{
			Summary:     fmt.Sprintf("Nanny booking #%d", b.ID),
			Description: describeBooking(b),
			Start:       &calendarapi.EventDateTime{DateTime: b.StartsAt.Format(time.RFC3339)},
			End:         &calendarapi.EventDateTime{DateTime: b.EndsAt.Format(time.RFC3339)},
		}
		if b.LocationLabel != nil {
			event.Location = *b.LocationLabel
		}
		if _, err := srv.Events.Insert(calendarID, event).Context(ctx).Do(); err != nil {
			return created, fmt.Errorf("insert event for booking %d: %w", b.ID, err)
		}
		created++
	}
	return created, nil
}

func describeBooking(b models.Booking) string {
	return fmt.Sprintf("Nanny %d with parent user %d (status %s)", b.NannyID, b.ClientUserID, b.Status)
}
