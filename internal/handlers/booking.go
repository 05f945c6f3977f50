package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/service"
	"nannybook-service/internal/timeslot"
)

type createBookingBody struct {
	NannyID       int64      `json:"nanny_id" binding:"required"`
	ParentUserID  int64      `json:"parent_user_id" binding:"required"`
	Day           string     `json:"day" binding:"required"`
	PriceCents    int64      `json:"price_cents"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	Lat           *float64   `json:"lat"`
	Lng           *float64   `json:"lng"`
	LocationMode  *string    `json:"location_mode"`
	LocationLabel *string    `json:"location_label"`
}

// CreateBooking submits a pending booking with a location snapshot.
func (h *Handlers) CreateBooking(c *gin.Context) {
	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nanny_id, parent_user_id and day are required"})
		return
	}
	day, err := time.Parse("2006-01-02", body.Day)
	if err != nil {
		h.respondError(c, httperr.Validationf("day must be YYYY-MM-DD"))
		return
	}
	if body.StartsAt != nil && body.EndsAt != nil && !body.EndsAt.After(*body.StartsAt) {
		h.respondError(c, httperr.Validationf("ends_at must be after starts_at"))
		return
	}
	if body.LocationMode != nil &&
		*body.LocationMode != service.LocationModeDefault &&
		*body.LocationMode != service.LocationModeCurrent {
		h.respondError(c, httperr.Validationf("location_mode must be default or current"))
		return
	}

	created, err := h.Bookings.Create(c.Request.Context(), models.Booking{
		NannyID:       body.NannyID,
		ClientUserID:  body.ParentUserID,
		Day:           day,
		PriceCents:    body.PriceCents,
		StartsAt:      body.StartsAt,
		EndsAt:        body.EndsAt,
		Lat:           body.Lat,
		Lng:           body.Lng,
		LocationMode:  body.LocationMode,
		LocationLabel: body.LocationLabel,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateBookingStatus applies one lifecycle transition.
func (h *Handlers) UpdateBookingStatus(c *gin.Context) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	updated, err := h.Bookings.UpdateStatus(c.Request.Context(), bookingID, timeslot.BookingStatus(body.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ParentBookings lists a parent's bookings with optional filters.
func (h *Handlers) ParentBookings(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	filter, err := bookingFilterFromQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	bookings, err := h.Bookings.ListForParent(c.Request.Context(), userID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// NannyBookings lists a nanny's bookings with optional filters.
func (h *Handlers) NannyBookings(c *gin.Context) {
	nannyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	filter, err := bookingFilterFromQuery(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	bookings, err := h.Bookings.ListForNanny(c.Request.Context(), nannyID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func bookingFilterFromQuery(c *gin.Context) (repository.BookingFilter, error) {
	var f repository.BookingFilter
	if s := c.Query("status"); s != "" {
		if !timeslot.ValidStatus(timeslot.BookingStatus(s)) {
			return f, httperr.Validationf("unknown status %q", s)
		}
		f.Status = &s
	}
	for name, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, httperr.Validationf("%s must be RFC3339", name)
		}
		*dst = &t
	}
	return f, nil
}

// CreateBulkRequest runs the all-or-partial bulk booking flow.
func (h *Handlers) CreateBulkRequest(c *gin.Context) {
	var body struct {
		ParentUserID int64                   `json:"parent_user_id" binding:"required"`
		NannyID      int64                   `json:"nanny_id" binding:"required"`
		Slots        []service.BulkSlotInput `json:"slots" binding:"required"`
		ClientNotes  *string                 `json:"client_notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_user_id, nanny_id and slots are required"})
		return
	}
	if len(body.Slots) == 0 {
		h.respondError(c, httperr.Validationf("slots must not be empty"))
		return
	}

	result, err := h.Bulk.Process(c.Request.Context(), service.BulkParams{
		ParentUserID: body.ParentUserID,
		NannyID:      body.NannyID,
		Slots:        body.Slots,
		ClientNotes:  body.ClientNotes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
