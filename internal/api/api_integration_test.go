package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog-api/internal/api"
	"github.com/myblog-api/internal/buildinfo"
	"github.com/myblog-api/internal/config"
	"github.com/myblog-api/internal/database"
	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/myblog-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	router *gin.Engine
	repos  *repository.Repositories
	db     *database.DB
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(&config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	repos := repository.New(db)
	cfg := &config.Config{Media: config.MediaConfig{URL: "/media/"}}
	services := service.NewServices(repos, db, zerolog.Nop())
	return &stack{
		router: api.NewRouter(services, cfg, buildinfo.New("", started), zerolog.Nop()),
		repos:  repos,
		db:     db,
	}
}

func (s *stack) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func (s *stack) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	author := models.User{Username: "jayden"}
	require.NoError(t, s.repos.User.Create(ctx, &author))
	tag := models.Tag{Name: "rust"}
	require.NoError(t, s.repos.Tag.Create(ctx, &tag))

	posts := []struct {
		title, slug string
		draft       bool
		at          time.Duration
	}{
		{"Intro to Rust", "intro-to-rust", false, 0},
		{"Go channels", "go-channels", false, time.Hour},
		{"Secret draft", "secret-draft", true, 2 * time.Hour},
		{"Latest", "latest", false, 3 * time.Hour},
	}
	for _, p := range posts {
		post := &models.Post{Title: p.title, Slug: p.slug, Content: "body", IsDraft: p.draft, AuthorID: author.ID, CreatedAt: t0.Add(p.at)}
		require.NoError(t, s.repos.Post.Create(ctx, post, []int64{tag.ID}))
	}

	projects := []models.Project{
		{Title: "Shown", Slug: "shown", Description: "d", Status: models.ProjectStatusCompleted, IsPublished: true, CreatedAt: t0},
		{Title: "Hidden", Slug: "hidden", Description: "d", Status: models.ProjectStatusDeveloping, IsFeatured: true, CreatedAt: t0},
	}
	for i := range projects {
		require.NoError(t, s.repos.Project.Create(ctx, &projects[i], nil))
	}
}

func slugsOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var items []struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Slug)
	}
	return out
}

func TestStackDraftsNeverVisible(t *testing.T) {
	s := newStack(t)
	s.seed(t)

	targets := []string{"/api/posts/", "/api/posts/?search=secret", "/api/posts/?tags=1", "/api/posts/?search=jayden"}
	for _, target := range targets {
		w := s.get(t, target)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.NotContains(t, slugsOf(t, w), "secret-draft", target)
	}

	assert.Equal(t, http.StatusNotFound, s.get(t, "/api/posts/secret-draft/").Code)
	assert.Equal(t, http.StatusNotFound, s.get(t, "/api/projects/hidden/").Code)
	assert.Equal(t, []string{"shown"}, slugsOf(t, s.get(t, "/api/projects/?featured=notabool")))
	assert.Empty(t, slugsOf(t, s.get(t, "/api/projects/?featured=true")))
}

func TestStackOrderingAndSearch(t *testing.T) {
	s := newStack(t)
	s.seed(t)

	assert.Equal(t, []string{"latest", "go-channels", "intro-to-rust"}, slugsOf(t, s.get(t, "/api/posts/")))
	assert.Equal(t, []string{"intro-to-rust"}, slugsOf(t, s.get(t, "/api/posts/?search=RUST")))
	assert.Empty(t, slugsOf(t, s.get(t, "/api/posts/?search=golang")))
	assert.Empty(t, slugsOf(t, s.get(t, "/api/posts/?category=abc")))
}

func TestStackRepeatedGetsAreIdentical(t *testing.T) {
	s := newStack(t)
	s.seed(t)

	for _, target := range []string{"/api/posts/", "/api/posts/latest/", "/api/projects/", "/api/tags/", "/api/tech-stacks/", "/api/health/"} {
		first := s.get(t, target)
		second := s.get(t, target)
		require.Equal(t, http.StatusOK, first.Code, target)
		assert.Equal(t, first.Body.String(), second.Body.String(), target)
	}
}

func TestStackHealth(t *testing.T) {
	s := newStack(t)

	w := s.get(t, "/api/health/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","db":"up","version":"unknown","build_timestamp":"2026-05-04T03:02:01.123456Z"}`, w.Body.String())

	require.NoError(t, s.db.Close())
	w = s.get(t, "/api/health/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["detail"])
	assert.Equal(t, "unknown", body["version"])
}
