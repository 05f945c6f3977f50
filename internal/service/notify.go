package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"nannybook-service/internal/config"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
)

// Mailer delivers a single message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through gomail. A zero SMTP host disables delivery.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// NewSMTPMailer builds a mailer from configuration; returns nil when SMTP is
// not configured, which disables notifications.
func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	from := cfg.FromEmail
	if from == "" {
		from = cfg.SMTPUser
	}
	return &SMTPMailer{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	return d.DialAndSend(msg)
}

// BookingNotifier fans out booking-created mail to the nanny, the parent
// and every configured admin. Each send is independent; failures are logged
// and swallowed, never retried.
type BookingNotifier struct {
	Pool        *pgxpool.Pool
	Mailer      Mailer
	AdminEmails []string
	Log         *zap.Logger
}

// BookingCreated sends the three notification flavors for a new booking.
func (n *BookingNotifier) BookingCreated(ctx context.Context, b models.Booking) {
	if n.Mailer == nil {
		return
	}

	body := formatBookingLines(b)

	nanny, found, err := repository.GetNanny(ctx, n.Pool, b.NannyID)
	if err == nil && found {
		if nannyUser, ok, err := repository.GetUser(ctx, n.Pool, nanny.UserID); err == nil && ok && nannyUser.Email != "" {
			n.safeSend(nannyUser.Email, "New booking request",
				"A new booking request is pending.\n\n"+body)
		}
	}

	if parent, found, err := repository.GetUser(ctx, n.Pool, b.ClientUserID); err == nil && found && parent.Email != "" {
		n.safeSend(parent.Email, "Booking submitted",
			"Your booking has been submitted and is pending.\n"+
				"You will be billed based on the location you confirmed.\n\n"+body)
	}

	for _, admin := range n.AdminEmails {
		n.safeSend(admin, "Booking pending", "A booking is pending.\n\n"+body)
	}
}

func (n *BookingNotifier) safeSend(to, subject, body string) {
	if err := n.Mailer.Send(to, subject, body); err != nil {
		n.Log.Warn("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
	}
}

func formatBookingLines(b models.Booking) string {
	lines := []string{
		fmt.Sprintf("Booking ID: %d", b.ID),
		fmt.Sprintf("Parent user_id: %d", b.ClientUserID),
		fmt.Sprintf("Nanny ID: %d", b.NannyID),
		fmt.Sprintf("Starts: %v", deref(b.StartsAt)),
		fmt.Sprintf("Ends: %v", deref(b.EndsAt)),
		fmt.Sprintf("Status: %s", b.Status),
		fmt.Sprintf("Location mode: %v", deref(b.LocationMode)),
		fmt.Sprintf("Location label: %v", deref(b.LocationLabel)),
		fmt.Sprintf("Lat: %v", deref(b.Lat)),
		fmt.Sprintf("Lng: %v", deref(b.Lng)),
	}
	return strings.Join(lines, "\n")
}

func deref[T any](p *T) any {
	if p == nil {
		return "<unset>"
	}
	return *p
}
