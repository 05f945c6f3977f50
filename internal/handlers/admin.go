package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/service"
)

// audit appends a best-effort audit row for an admin mutation. The actor is
// taken from the X-Actor-User-ID header; without it the mutation still
// succeeds and only the audit write is skipped.
func (h *Handlers) audit(c *gin.Context, action, entityType string, entityID int64, details string) {
	actor, err := strconv.ParseInt(c.GetHeader("X-Actor-User-ID"), 10, 64)
	if err != nil || actor <= 0 {
		h.Log.Warn("audit skipped, no actor", zap.String("action", action))
		return
	}
	var det *string
	if details != "" {
		det = &details
	}
	entry := models.AuditLog{
		ActorUserID: actor,
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
		Details:     det,
	}
	if err := repository.InsertAuditLog(c.Request.Context(), h.Pool, entry); err != nil {
		h.Log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

// SetAvailability creates or toggles one availability window.
func (h *Handlers) SetAvailability(c *gin.Context) {
	var body struct {
		NannyID     int64   `json:"nanny_id" binding:"required"`
		Date        string  `json:"date" binding:"required"`
		StartTime   string  `json:"start_time" binding:"required"`
		EndTime     string  `json:"end_time" binding:"required"`
		IsAvailable *bool   `json:"is_available"`
		Notes       *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nanny_id, date, start_time and end_time are required"})
		return
	}
	day, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		h.respondError(c, httperr.Validationf("date must be YYYY-MM-DD"))
		return
	}
	isAvailable := true
	if body.IsAvailable != nil {
		isAvailable = *body.IsAvailable
	}

	out, err := h.Availability.Set(c.Request.Context(), service.SetAvailabilityParams{
		NannyID:     body.NannyID,
		Date:        day,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		IsAvailable: isAvailable,
		Notes:       body.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.audit(c, "availability.set", "availability", out.ID,
		fmt.Sprintf("nanny %d %s %s-%s available=%t", body.NannyID, body.Date, body.StartTime, body.EndTime, isAvailable))
	c.JSON(http.StatusCreated, out)
}

// ListAvailability returns a nanny's windows, optionally for one date.
func (h *Handlers) ListAvailability(c *gin.Context) {
	nannyID, err := queryInt64(c, "nanny_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if nannyID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nanny_id is required"})
		return
	}

	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.respondError(c, httperr.Validationf("date must be YYYY-MM-DD"))
			return
		}
		day = &d
	}

	windows, err := h.Availability.List(c.Request.Context(), *nannyID, day)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if windows == nil {
		windows = []models.Availability{}
	}
	c.JSON(http.StatusOK, gin.H{"availability": windows})
}

// AdminListReviews lists reviews in one moderation state, pending by
// default.
func (h *Handlers) AdminListReviews(c *gin.Context) {
	approved := c.Query("approved") == "true"
	reviews, err := h.Reviews.ListByApproval(c.Request.Context(), approved)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// AdminApproveReview publishes a review. Approving twice is a no-op.
func (h *Handlers) AdminApproveReview(c *gin.Context) {
	reviewID, ok := pathID(c, "id")
	if !ok {
		return
	}
	review, err := h.Reviews.Approve(c.Request.Context(), reviewID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.audit(c, "review.approve", "review", review.ID, "")
	c.JSON(http.StatusOK, review)
}

func (h *Handlers) AdminListParents(c *gin.Context) {
	rows, err := repository.ListParentsAdmin(c.Request.Context(), h.Pool)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, gin.H{
			"user_id": r.User.ID,
			"name":    r.User.Name,
			"email":   r.User.Email,
			"phone":   r.User.Phone,
			"area":    r.Area,
		})
	}
	c.JSON(http.StatusOK, gin.H{"parents": out})
}

func (h *Handlers) AdminListNannies(c *gin.Context) {
	rows, err := repository.ListNanniesAdmin(c.Request.Context(), h.Pool)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, gin.H{
			"nanny_id": r.Nanny.ID,
			"user_id":  r.User.ID,
			"approved": r.Nanny.Approved,
			"name":     r.User.Name,
			"email":    r.User.Email,
			"phone":    r.User.Phone,
			"profile":  r.Profile,
		})
	}
	c.JSON(http.StatusOK, gin.H{"nannies": out})
}

// AdminUpdateUser edits account fields, guarding email uniqueness.
func (h *Handlers) AdminUpdateUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Name            *string  `json:"name"`
		Email           *string  `json:"email"`
		Phone           *string  `json:"phone"`
		Nickname        *string  `json:"nickname"`
		LastInitial     *string  `json:"last_initial"`
		ProfilePhotoURL *string  `json:"profile_photo_url"`
		Lat             *float64 `json:"lat"`
		Lng             *float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, found, err := repository.GetUser(ctx, h.Pool, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, httperr.NotFoundf("User not found"))
		return
	}

	if body.Email != nil && *body.Email != user.Email {
		inUse, err := repository.EmailInUse(ctx, h.Pool, *body.Email, userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if inUse {
			h.respondError(c, httperr.Conflictf("Email already in use"))
			return
		}
		user.Email = *body.Email
	}
	if body.Name != nil {
		user.Name = *body.Name
	}
	if body.Phone != nil {
		user.Phone = body.Phone
	}
	if body.Nickname != nil {
		user.Nickname = body.Nickname
	}
	if body.LastInitial != nil {
		user.LastInitial = body.LastInitial
	}
	if body.ProfilePhotoURL != nil {
		user.ProfilePhotoURL = body.ProfilePhotoURL
	}
	if body.Lat != nil {
		user.Lat = body.Lat
	}
	if body.Lng != nil {
		user.Lng = body.Lng
	}

	if err := repository.UpdateUser(ctx, h.Pool, user); err != nil {
		h.respondError(c, err)
		return
	}
	h.audit(c, "user.update", "user", userID, "")
	c.JSON(http.StatusOK, user)
}

// AdminUpdateParent reassigns a parent's home area.
func (h *Handlers) AdminUpdateParent(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		AreaID int64 `json:"area_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area_id is required"})
		return
	}

	if err := repository.UpsertParentArea(c.Request.Context(), h.Pool, userID, body.AreaID); err != nil {
		h.respondError(c, err)
		return
	}
	h.audit(c, "parent.update", "parent_profile", userID, fmt.Sprintf("area_id=%d", body.AreaID))
	c.JSON(http.StatusOK, gin.H{"ok": true, "parent_user_id": userID, "area_id": body.AreaID})
}

// AdminUpdateNanny flips the moderation flag and optionally the served
// areas.
func (h *Handlers) AdminUpdateNanny(c *gin.Context) {
	nannyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Approved *bool   `json:"approved"`
		AreaIDs  []int64 `json:"area_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if body.Approved != nil {
		if err := repository.SetNannyApproved(ctx, h.Pool, nannyID, *body.Approved); err != nil {
			h.respondError(c, httperr.NotFoundf("Nanny not found"))
			return
		}
	}
	if body.AreaIDs != nil {
		if err := repository.ReplaceNannyAreas(ctx, h.Pool, nannyID, body.AreaIDs); err != nil {
			h.respondError(c, err)
			return
		}
	}

	nanny, found, err := repository.GetNanny(ctx, h.Pool, nannyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, httperr.NotFoundf("Nanny not found"))
		return
	}
	h.audit(c, "nanny.update", "nanny", nannyID, "")
	c.JSON(http.StatusOK, nanny)
}

// AdminUpdateNannyProfile edits any nanny's profile on their behalf.
func (h *Handlers) AdminUpdateNannyProfile(c *gin.Context) {
	nannyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body nannyProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Admins can edit a profile the nanny never created; it is made on the
	// fly.
	ctx := c.Request.Context()
	profile, found, err := repository.GetNannyProfile(ctx, h.Pool, nannyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		profile, err = repository.InsertNannyProfile(ctx, h.Pool, models.NannyProfile{NannyID: nannyID})
		if err != nil {
			h.respondError(c, err)
			return
		}
	}

	if err := applyProfileFields(&profile, body); err != nil {
		h.respondError(c, err)
		return
	}

	if err := repository.UpdateNannyProfileFields(ctx, h.Pool, profile); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.writeProfileAttrs(c, profile.ID, body); err != nil {
		return
	}
	h.audit(c, "nanny_profile.update", "nanny_profile", profile.ID, "")
	c.JSON(http.StatusOK, profile)
}
