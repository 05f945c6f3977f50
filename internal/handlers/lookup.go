package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nannybook-service/internal/models"
	"nannybook-service/internal/repository"
)

// Health reports liveness plus a few table counts.
func (h *Handlers) Health(c *gin.Context) {
	counts, err := repository.Counts(c.Request.Context(), h.Pool)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"counts": counts,
	})
}

func (h *Handlers) ListQualifications(c *gin.Context) {
	refs, err := repository.ListQualifications(c.Request.Context(), h.Pool)
	h.respondRefs(c, refs, err)
}

func (h *Handlers) ListNannyTags(c *gin.Context) {
	refs, err := repository.ListNannyTags(c.Request.Context(), h.Pool)
	h.respondRefs(c, refs, err)
}

func (h *Handlers) ListLanguages(c *gin.Context) {
	refs, err := repository.ListLanguages(c.Request.Context(), h.Pool)
	h.respondRefs(c, refs, err)
}

func (h *Handlers) ListAreas(c *gin.Context) {
	areas, err := repository.ListAreas(c.Request.Context(), h.Pool)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if areas == nil {
		areas = []models.Area{}
	}
	c.JSON(http.StatusOK, areas)
}

func (h *Handlers) respondRefs(c *gin.Context, refs []models.NamedRef, err error) {
	if err != nil {
		h.respondError(c, err)
		return
	}
	if refs == nil {
		refs = []models.NamedRef{}
	}
	c.JSON(http.StatusOK, refs)
}
