package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/myblog-api/internal/projection"
	"github.com/myblog-api/internal/service"
	"github.com/rs/zerolog"
)

// TaxonomyHandler handles category and tag endpoints
type TaxonomyHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(services *service.Services, log zerolog.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		services: services,
		log:      log.With().Str("handler", "taxonomy").Logger(),
	}
}

// ListCategories handles GET /api/categories/
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.services.Taxonomy.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, "Failed to list categories")
		return
	}
	c.PureJSON(http.StatusOK, projection.RenderAll(projection.CategoryFields, categories, projection.Context{}))
}

// GetCategory handles GET /api/categories/:id
func (h *TaxonomyHandler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	category, err := h.services.Taxonomy.GetCategory(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err, "Failed to get category")
		return
	}
	c.PureJSON(http.StatusOK, projection.Render(projection.CategoryFields, *category, projection.Context{}))
}

// ListTags handles GET /api/tags/
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.services.Taxonomy.ListTags(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, "Failed to list tags")
		return
	}
	c.PureJSON(http.StatusOK, projection.RenderAll(projection.TagFields, tags, projection.Context{}))
}

// GetTag handles GET /api/tags/:id
func (h *TaxonomyHandler) GetTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	tag, err := h.services.Taxonomy.GetTag(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err, "Failed to get tag")
		return
	}
	c.PureJSON(http.StatusOK, projection.Render(projection.TagFields, *tag, projection.Context{}))
}

// pathID accepts only plain decimal ids, like an integer route converter
func pathID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if raw == "" || raw[0] == '+' || raw[0] == '-' {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}
