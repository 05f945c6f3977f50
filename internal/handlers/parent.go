package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/repository"
)

// SetParentArea upserts the parent's home area.
func (h *Handlers) SetParentArea(c *gin.Context) {
	var body struct {
		ParentUserID int64 `json:"parent_user_id" binding:"required"`
		AreaID       int64 `json:"area_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_user_id and area_id are required"})
		return
	}

	if err := repository.UpsertParentArea(c.Request.Context(), h.Pool, body.ParentUserID, body.AreaID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "parent_user_id": body.ParentUserID, "area_id": body.AreaID})
}

// SetParentDefaultLocation confirms the parent's default coordinates. The
// confirmation version tags which consent text was shown.
func (h *Handlers) SetParentDefaultLocation(c *gin.Context) {
	var body struct {
		ParentUserID   int64    `json:"parent_user_id" binding:"required"`
		Lat            *float64 `json:"lat" binding:"required"`
		Lng            *float64 `json:"lng" binding:"required"`
		ConfirmVersion string   `json:"confirm_version"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_user_id, lat and lng are required"})
		return
	}
	if body.ConfirmVersion == "" {
		body.ConfirmVersion = "v1"
	}

	// The profile row is created on first confirm; only the account must
	// exist, since location may be set before the home area.
	ctx := c.Request.Context()
	if _, found, err := repository.GetUser(ctx, h.Pool, body.ParentUserID); err != nil {
		h.respondError(c, err)
		return
	} else if !found {
		h.respondError(c, httperr.NotFoundf("User not found"))
		return
	}

	now := time.Now().UTC()
	if err := repository.SetParentDefaultLocation(ctx, h.Pool, body.ParentUserID,
		*body.Lat, *body.Lng, now, body.ConfirmVersion); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"parent_user_id":   body.ParentUserID,
		"confirmed_at":     now,
		"confirm_version":  body.ConfirmVersion,
	})
}

// ParentLocationStatus tells a client whether search is unlocked.
func (h *Handlers) ParentLocationStatus(c *gin.Context) {
	parentID, err := queryInt64(c, "parent_user_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if parentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_user_id is required"})
		return
	}

	profile, found, err := repository.GetParentProfile(c.Request.Context(), h.Pool, *parentID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, httperr.NotFoundf("Parent profile not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"parent_user_id":       profile.UserID,
		"has_default_location": profile.HasDefaultLocation(),
		"confirmed_at":         profile.LocationConfirmedAt,
		"confirm_version":      profile.LocationConfirmVersion,
	})
}

// SetParentLocation updates coordinates without touching the confirmation
// metadata.
func (h *Handlers) SetParentLocation(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Lat *float64 `json:"lat" binding:"required"`
		Lng *float64 `json:"lng" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}

	ctx := c.Request.Context()
	if _, found, err := repository.GetParentProfile(ctx, h.Pool, userID); err != nil {
		h.respondError(c, err)
		return
	} else if !found {
		h.respondError(c, httperr.NotFoundf("Parent profile not found"))
		return
	}

	profile, err := repository.SetParentLocation(ctx, h.Pool, userID, *body.Lat, *body.Lng)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
