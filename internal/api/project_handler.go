package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog-api/internal/config"
	"github.com/myblog-api/internal/projection"
	"github.com/myblog-api/internal/service"
	"github.com/rs/zerolog"
)

// ProjectHandler handles portfolio endpoints
type ProjectHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "projects").Logger(),
	}
}

// ListProjects handles GET /api/projects/
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.services.Projects.ListProjects(c.Request.Context(), service.ProjectListParams{
		Featured: c.Query("featured"),
	})
	if err != nil {
		writeError(c, h.log, err, "Failed to list projects")
		return
	}
	c.PureJSON(http.StatusOK, projection.RenderAll(projection.ProjectList, projects, projectionContext(c, h.cfg.Media)))
}

// GetProject handles GET /api/projects/:slug/
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.services.Projects.GetProject(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err, "Failed to get project")
		return
	}
	c.PureJSON(http.StatusOK, projection.Render(projection.ProjectDetail, *project, projectionContext(c, h.cfg.Media)))
}

// ListTechStacks handles GET /api/tech-stacks/
func (h *ProjectHandler) ListTechStacks(c *gin.Context) {
	stacks, err := h.services.Projects.ListTechStacks(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, "Failed to list tech stacks")
		return
	}
	c.PureJSON(http.StatusOK, projection.RenderAll(projection.TechStackFields, stacks, projection.Context{}))
}
