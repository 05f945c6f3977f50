package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nannybook-service/internal/calendar"
	"nannybook-service/internal/httperr"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/timeslot"
)

// CalendarAuth starts the OAuth2 consent flow for calendar export.
func (h *Handlers) CalendarAuth(c *gin.Context) {
	if h.Calendar == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar export not configured"})
		return
	}
	state := fmt.Sprintf("admin_%d", time.Now().Unix())
	c.JSON(http.StatusOK, gin.H{
		"auth_url": h.Calendar.AuthURL(state),
		"state":    state,
	})
}

// CalendarCallback exchanges the authorization code and hands the token
// back to the caller. Nothing is stored server side.
func (h *Handlers) CalendarCallback(c *gin.Context) {
	if h.Calendar == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar export not configured"})
		return
	}
	code := c.Query("code")
	if code == "" {
		h.respondError(c, httperr.Validationf("authorization code required"))
		return
	}

	token, err := h.Calendar.Exchange(c.Request.Context(), code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Authorization successful",
		"state":   c.Query("state"),
		"token":   token,
	})
}

// CalendarExport pushes a nanny's accepted bookings into the calendar the
// presented token grants.
func (h *Handlers) CalendarExport(c *gin.Context) {
	if h.Calendar == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar export not configured"})
		return
	}
	tokenStr := c.GetHeader("X-Google-Token")
	if tokenStr == "" {
		h.respondError(c, httperr.Validationf("Google token required in X-Google-Token header"))
		return
	}
	token, err := calendar.ParseToken(tokenStr)
	if err != nil {
		h.respondError(c, err)
		return
	}

	nannyID, err := queryInt64(c, "nanny_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if nannyID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nanny_id is required"})
		return
	}

	status := string(timeslot.StatusAccepted)
	bookings, err := repository.ListBookings(c.Request.Context(), h.Pool, repository.BookingFilter{
		NannyID: nannyID,
		Status:  &status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.Calendar.ExportBookings(c.Request.Context(), token, c.Query("calendar_id"), bookings)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": created, "total": len(bookings)})
}
