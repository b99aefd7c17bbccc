package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/myblog-api/internal/buildinfo"
	"github.com/myblog-api/internal/config"
	"github.com/myblog-api/internal/projection"
	"github.com/myblog-api/internal/service"
	"github.com/myblog-api/internal/telemetry"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, info buildinfo.Info, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(telemetryMiddleware(telemetry.NewHTTPMetrics()))
	router.Use(recoveryMiddleware(log))
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigins))

	router.NoRoute(notFound)
	router.NoMethod(methodNotAllowed)

	// Handlers
	postHandler := NewPostHandler(services, cfg, log)
	taxonomyHandler := NewTaxonomyHandler(services, log)
	projectHandler := NewProjectHandler(services, cfg, log)
	healthHandler := NewHealthHandler(services, info)

	api := router.Group("/api")
	{
		api.GET("/posts/", postHandler.ListPosts)
		api.GET("/posts/:slug/", postHandler.GetPost)

		api.GET("/categories/", taxonomyHandler.ListCategories)
		api.GET("/categories/:id", taxonomyHandler.GetCategory)
		api.GET("/tags/", taxonomyHandler.ListTags)
		api.GET("/tags/:id", taxonomyHandler.GetTag)

		api.GET("/projects/", projectHandler.ListProjects)
		api.GET("/projects/:slug/", projectHandler.GetProject)
		api.GET("/tech-stacks/", projectHandler.ListTechStacks)

		api.GET("/health/", healthHandler.Check)
	}

	if cfg.Media.Serve && strings.HasPrefix(cfg.Media.URL, "/") {
		router.Static(strings.TrimSuffix(cfg.Media.URL, "/"), cfg.Media.Root)
		log.Warn().Str("url", cfg.Media.URL).Str("root", cfg.Media.Root).Msg("Serving media files from the API process")
	}

	return router
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func notFound(c *gin.Context) {
	c.PureJSON(http.StatusNotFound, detailResponse{Detail: "Not found."})
}

func methodNotAllowed(c *gin.Context) {
	// every public route is read-only
	c.Header("Allow", "GET")
	c.PureJSON(http.StatusMethodNotAllowed, detailResponse{
		Detail: fmt.Sprintf("Method %q not allowed.", c.Request.Method),
	})
}

func serverError(c *gin.Context) {
	c.PureJSON(http.StatusInternalServerError, detailResponse{Detail: "A server error occurred."})
}

// projectionContext collects the request facts used to build absolute URLs
func projectionContext(c *gin.Context, media config.MediaConfig) projection.Context {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	} else if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return projection.Context{
		Scheme:   scheme,
		Host:     c.Request.Host,
		MediaURL: media.URL,
	}
}
