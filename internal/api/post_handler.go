package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog-api/internal/config"
	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/projection"
	"github.com/myblog-api/internal/service"
	"github.com/rs/zerolog"
)

// PostHandler handles blog post endpoints
type PostHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "posts").Logger(),
	}
}

// ListPosts handles GET /api/posts/
// Query: search, category (repeatable), tags (repeatable)
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.services.Posts.ListPosts(c.Request.Context(), service.PostListParams{
		Search:   c.Query("search"),
		Category: c.QueryArray("category"),
		Tags:     c.QueryArray("tags"),
	})
	if err != nil {
		h.fail(c, err, "Failed to list posts")
		return
	}

	c.PureJSON(http.StatusOK, projection.RenderAll(projection.PostList, posts, projectionContext(c, h.cfg.Media)))
}

// GetPost handles GET /api/posts/:slug/
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.services.Posts.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err, "Failed to get post")
		return
	}

	c.PureJSON(http.StatusOK, projection.Render(projection.PostDetail, *post, projectionContext(c, h.cfg.Media)))
}

func (h *PostHandler) fail(c *gin.Context, err error, msg string) {
	writeError(c, h.log, err, msg)
}

// writeError maps service errors onto the public error bodies
func writeError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	if errors.Is(err, models.ErrNotFound) {
		notFound(c)
		return
	}
	log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Str("request_id", c.GetString(requestIDKey)).
		Msg(msg)
	serverError(c)
}
