package service

import (
	"context"
	"io"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/rs/zerolog"
)

// PostListParams carries the raw query-string values of a post list request
type PostListParams struct {
	Search   string
	Category []string
	Tags     []string
}

// ProjectListParams carries the raw query-string values of a project list request
type ProjectListParams struct {
	Featured string
}

// PostQueryService defines the public read operations on posts
type PostQueryService interface {
	ListPosts(ctx context.Context, params PostListParams) ([]models.Post, error)
	GetPost(ctx context.Context, slug string) (*models.Post, error)
}

// TaxonomyService defines the read operations on categories and tags
type TaxonomyService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
}

// ProjectQueryService defines the public read operations on projects
type ProjectQueryService interface {
	ListProjects(ctx context.Context, params ProjectListParams) ([]models.Project, error)
	GetProject(ctx context.Context, slug string) (*models.Project, error)
	ListTechStacks(ctx context.Context) ([]models.TechStack, error)
}

// HealthStatus is the outcome of a health check
type HealthStatus struct {
	OK     bool
	Detail string
}

// HealthService defines the liveness check used by the health endpoint
type HealthService interface {
	Check(ctx context.Context) HealthStatus
}

// ImportService defines the content import used by the operator CLI
type ImportService interface {
	Import(ctx context.Context, resource models.ImportResource, r io.Reader) (*models.ImportResult, error)
}

// Pinger is the part of the database handle the health check needs
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Services holds all service interfaces
type Services struct {
	Posts    PostQueryService
	Taxonomy TaxonomyService
	Projects ProjectQueryService
	Health   HealthService
	Import   ImportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, db Pinger, log zerolog.Logger) *Services {
	return &Services{
		Posts:    newPostQueryService(repos, log),
		Taxonomy: newTaxonomyService(repos, log),
		Projects: newProjectQueryService(repos, log),
		Health:   newHealthService(db, repos.Post, log),
		Import:   newImportService(repos, log),
	}
}
