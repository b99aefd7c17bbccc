package service

import (
	"context"
	"strings"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/myblog-api/internal/slug"
	"github.com/myblog-api/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// projectQueryService is the concrete implementation of ProjectQueryService
type projectQueryService struct {
	projects   repository.ProjectRepository
	techStacks repository.TechStackRepository
	log        zerolog.Logger
}

func newProjectQueryService(repos *repository.Repositories, log zerolog.Logger) *projectQueryService {
	return &projectQueryService{
		projects:   repos.Project,
		techStacks: repos.TechStack,
		log:        log.With().Str("service", "projects").Logger(),
	}
}

// ListProjects returns published projects. Only featured=true narrows the
// list; any other value, including false, is ignored.
func (s *projectQueryService) ListProjects(ctx context.Context, params ProjectListParams) (_ []models.Project, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ProjectQueryService.ListProjects", attribute.String("featured", params.Featured))
	defer func() { telemetry.EndSpan(span, err) }()

	filter := models.ProjectFilter{
		FeaturedOnly: strings.EqualFold(strings.TrimSpace(params.Featured), "true"),
	}
	if params.Featured != "" && !filter.FeaturedOnly {
		s.log.Debug().Str("featured", params.Featured).Msg("Ignoring featured filter")
	}

	projects, err := s.projects.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("results", len(projects)))
	return projects, nil
}

// GetProject returns the published project with the given slug
func (s *projectQueryService) GetProject(ctx context.Context, slugValue string) (_ *models.Project, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ProjectQueryService.GetProject", attribute.String("slug", slugValue))
	defer func() { telemetry.EndSpan(span, spanError(err)) }()

	if !slug.Valid(slugValue) {
		return nil, models.ErrNotFound
	}

	project, err := s.projects.GetPublishedBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, models.ErrNotFound
	}
	return project, nil
}

// ListTechStacks returns every tech stack ordered by name
func (s *projectQueryService) ListTechStacks(ctx context.Context) (_ []models.TechStack, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ProjectQueryService.ListTechStacks")
	defer func() { telemetry.EndSpan(span, err) }()

	return s.techStacks.List(ctx)
}
