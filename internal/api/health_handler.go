package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog-api/internal/buildinfo"
	"github.com/myblog-api/internal/service"
)

// HealthHandler reports database reachability and build identity
type HealthHandler struct {
	services *service.Services
	info     buildinfo.Info
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(services *service.Services, info buildinfo.Info) *HealthHandler {
	return &HealthHandler{services: services, info: info}
}

type healthResponse struct {
	Status         string `json:"status"`
	DB             string `json:"db,omitempty"`
	Detail         string `json:"detail,omitempty"`
	Version        string `json:"version"`
	BuildTimestamp string `json:"build_timestamp"`
}

// Check handles GET /api/health/
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.services.Health.Check(c.Request.Context())
	if !status.OK {
		c.PureJSON(http.StatusInternalServerError, healthResponse{
			Status:         "error",
			Detail:         status.Detail,
			Version:        h.info.Version,
			BuildTimestamp: h.info.BuildTimestamp,
		})
		return
	}

	c.PureJSON(http.StatusOK, healthResponse{
		Status:         "ok",
		DB:             "up",
		Version:        h.info.Version,
		BuildTimestamp: h.info.BuildTimestamp,
	})
}
