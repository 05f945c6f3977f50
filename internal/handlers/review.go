package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nannybook-service/internal/service"
)

// CreateReview submits a rating for a completed booking; it stays hidden
// until an admin approves it.
func (h *Handlers) CreateReview(c *gin.Context) {
	var body struct {
		BookingID int64   `json:"booking_id" binding:"required"`
		Stars     int     `json:"stars" binding:"required"`
		Comment   *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking_id and stars are required"})
		return
	}

	review, err := h.Reviews.Create(c.Request.Context(), service.CreateReviewParams{
		BookingID: body.BookingID,
		Stars:     body.Stars,
		Comment:   body.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// NannyReviews returns approved reviews in the trailing rating window.
func (h *Handlers) NannyReviews(c *gin.Context) {
	nannyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.Reviews.ForNanny(c.Request.Context(), nannyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
