package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nannybook-service/internal/calendar"
	"nannybook-service/internal/httperr"
	"nannybook-service/internal/middleware"
	"nannybook-service/internal/repository"
	"nannybook-service/internal/service"
)

// Handlers carries the services behind the HTTP surface. Pool is the DBTX
// interface so handler-level queries can run against a scripted store in
// tests.
type Handlers struct {
	Pool         repository.DBTX
	Search       *service.SearchService
	Bookings     *service.BookingService
	Bulk         *service.BulkService
	Availability *service.AvailabilityService
	Reviews      *service.ReviewService
	Calendar     *calendar.Service
	Authorizer   middleware.Authorizer
	Log          *zap.Logger
}

// Routes mounts the full public and admin surface on a fresh engine.
func (h *Handlers) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(h.Log))

	r.GET("/health", h.Health)

	r.GET("/qualifications", h.ListQualifications)
	r.GET("/nanny-tags", h.ListNannyTags)
	r.GET("/languages", h.ListLanguages)
	r.GET("/areas", h.ListAreas)

	r.GET("/nannies/search", h.SearchNannies)
	r.GET("/nannies/:id/reviews", h.NannyReviews)
	r.POST("/reviews", h.CreateReview)

	r.POST("/nannies/:id/areas", h.SetNannyAreas)
	r.POST("/nanny-profiles", h.CreateNannyProfile)
	r.PUT("/nanny-profiles/:id", h.UpdateNannyProfile)
	r.PATCH("/nannies/:id/location", h.SetNannyLocation)

	r.POST("/parents/area", h.SetParentArea)
	r.POST("/parents/default-location", h.SetParentDefaultLocation)
	r.GET("/parents/location-status", h.ParentLocationStatus)
	r.PATCH("/parents/:id/location", h.SetParentLocation)

	r.POST("/bookings", h.CreateBooking)
	r.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
	r.GET("/parents/:id/bookings", h.ParentBookings)
	r.GET("/nannies/:id/bookings", h.NannyBookings)
	r.POST("/bookings/bulk", h.CreateBulkRequest)

	r.GET("/oauth2callback", h.CalendarCallback)

	admin := r.Group("/admin", middleware.AdminOnly(h.Authorizer))
	{
		admin.POST("/availability", h.SetAvailability)
		admin.GET("/availability", h.ListAvailability)
		admin.GET("/reviews", h.AdminListReviews)
		admin.POST("/reviews/:id/approve", h.AdminApproveReview)
		admin.GET("/parents", h.AdminListParents)
		admin.GET("/nannies", h.AdminListNannies)
		admin.PUT("/users/:id", h.AdminUpdateUser)
		admin.PUT("/parents/:id", h.AdminUpdateParent)
		admin.PUT("/nannies/:id", h.AdminUpdateNanny)
		admin.PUT("/nanny-profiles/:id", h.AdminUpdateNannyProfile)
		admin.GET("/calendar/auth", h.CalendarAuth)
		admin.POST("/calendar/export", h.CalendarExport)
	}

	return r
}

// respondError maps error kinds to status codes and hides internal detail.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := httperr.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.Log.Error("internal error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// pathID parses a numeric :id style parameter; a false return means the
// 400 response was already written.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, httperr.Validationf("invalid %s", name)
	}
	return &v, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, httperr.Validationf("invalid %s", name)
	}
	return &v, nil
}

// queryIDList parses repeated or comma separated id parameters.
func queryIDList(c *gin.Context, name string) ([]int64, error) {
	var out []int64
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, httperr.Validationf("invalid %s", name)
			}
			out = append(out, id)
		}
	}
	return out, nil
}
