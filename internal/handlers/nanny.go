package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nannybook-service/internal/httperr"
	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/service"
)

type nannyProfileBody struct {
	NannyID          int64   `json:"nanny_id"`
	Bio              *string `json:"bio"`
	DateOfBirth      *string `json:"date_of_birth"`
	Nationality      *string `json:"nationality"`
	Ethnicity        *string `json:"ethnicity"`
	QualificationIDs []int64 `json:"qualification_ids"`
	TagIDs           []int64 `json:"tag_ids"`
	LanguageIDs      []int64 `json:"language_ids"`
}

func (b nannyProfileBody) dob() (*time.Time, error) {
	if b.DateOfBirth == nil || *b.DateOfBirth == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *b.DateOfBirth)
	if err != nil {
		return nil, httperr.Validationf("date_of_birth must be YYYY-MM-DD")
	}
	return &t, nil
}

// applyProfileFields overlays only the fields present in the payload: an
// absent field leaves the stored value untouched, a blank string clears it.
func applyProfileFields(profile *models.NannyProfile, body nannyProfileBody) error {
	if body.Bio != nil {
		profile.Bio = trimToNil(*body.Bio)
	}
	if body.DateOfBirth != nil {
		dob, err := body.dob()
		if err != nil {
			return err
		}
		profile.DateOfBirth = dob
	}
	if body.Nationality != nil {
		profile.Nationality = trimToNil(*body.Nationality)
	}
	if body.Ethnicity != nil {
		profile.Ethnicity = trimToNil(*body.Ethnicity)
	}
	return nil
}

func trimToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// CreateNannyProfile creates the public profile and its attribute links.
func (h *Handlers) CreateNannyProfile(c *gin.Context) {
	var body nannyProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.NannyID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nanny_id is required"})
		return
	}

	ctx := c.Request.Context()
	exists, err := repository.NannyExists(ctx, h.Pool, body.NannyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !exists {
		h.respondError(c, httperr.NotFoundf("Nanny not found"))
		return
	}
	// Creating twice is a no-op that returns the existing profile.
	if existing, found, err := repository.GetNannyProfile(ctx, h.Pool, body.NannyID); err != nil {
		h.respondError(c, err)
		return
	} else if found {
		c.JSON(http.StatusOK, existing)
		return
	}

	profile := models.NannyProfile{NannyID: body.NannyID}
	if err := applyProfileFields(&profile, body); err != nil {
		h.respondError(c, err)
		return
	}

	profile, err = repository.InsertNannyProfile(ctx, h.Pool, profile)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.writeProfileAttrs(c, profile.ID, body); err != nil {
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// UpdateNannyProfile applies the fields present in the payload and replaces
// any attribute lists it carries. The :id parameter is the nanny id,
// matching the create path.
func (h *Handlers) UpdateNannyProfile(c *gin.Context) {
	nannyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body nannyProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	profile, found, err := repository.GetNannyProfile(ctx, h.Pool, nannyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, httperr.NotFoundf("Nanny profile not found"))
		return
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
	c.JSON(http.StatusOK, profile)
}

// writeProfileAttrs replaces the categories the body carries; a nil slice
// leaves that category untouched. Writes the error response itself.
func (h *Handlers) writeProfileAttrs(c *gin.Context, profileID int64, body nannyProfileBody) error {
	ctx := c.Request.Context()
	for cat, ids := range map[string][]int64{
		"qualifications": body.QualificationIDs,
		"tags":           body.TagIDs,
		"languages":      body.LanguageIDs,
	} {
		if ids == nil {
			continue
		}
		if err := repository.ReplaceProfileAttrs(ctx, h.Pool, cat, profileID, ids); err != nil {
			h.respondError(c, err)
			return err
		}
	}
	return nil
}

// SetNannyLocation stores profile coordinates for distance ranking.
func (h *Handlers) SetNannyLocation(c *gin.Context) {
	nannyID, ok := pathID(c, "id")
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

	profile, found, err := repository.SetNannyProfileLocation(c.Request.Context(), h.Pool, nannyID, *body.Lat, *body.Lng)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, httperr.NotFoundf("Nanny profile not found"))
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetNannyAreas replaces the areas a nanny serves.
func (h *Handlers) SetNannyAreas(c *gin.Context) {
	nannyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		AreaIDs []int64 `json:"area_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area_ids is required"})
		return
	}

	ctx := c.Request.Context()
	exists, err := repository.NannyExists(ctx, h.Pool, nannyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !exists {
		h.respondError(c, httperr.NotFoundf("Nanny not found"))
		return
	}
	if err := repository.ReplaceNannyAreas(ctx, h.Pool, nannyID, body.AreaIDs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "nanny_id": nannyID, "area_ids": body.AreaIDs})
}

// SearchNannies runs the ranked search for the calling parent.
func (h *Handlers) SearchNannies(c *gin.Context) {
	parentID, err := queryInt64(c, "parent_user_id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if parentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent_user_id is required"})
		return
	}

	maxDistance, err := queryFloat(c, "max_distance_km")
	if err != nil {
		h.respondError(c, err)
		return
	}
	minRating, err := queryFloat(c, "min_rating")
	if err != nil {
		h.respondError(c, err)
		return
	}
	quals, err := queryIDList(c, "qualification_ids")
	if err != nil {
		h.respondError(c, err)
		return
	}
	tags, err := queryIDList(c, "tag_ids")
	if err != nil {
		h.respondError(c, err)
		return
	}
	langs, err := queryIDList(c, "language_ids")
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp, err := h.Search.Search(c.Request.Context(), service.SearchParams{
		ParentUserID:     *parentID,
		MaxDistanceKm:    maxDistance,
		MinRating:        minRating,
		QualificationIDs: quals,
		TagIDs:           tags,
		LanguageIDs:      langs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
