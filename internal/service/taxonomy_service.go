package service

import (
	"context"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/myblog-api/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// taxonomyService is the concrete implementation of TaxonomyService.
// Categories and tags carry no visibility flag; every row is public.
type taxonomyService struct {
	categories repository.CategoryRepository
	tags       repository.TagRepository
	log        zerolog.Logger
}

func newTaxonomyService(repos *repository.Repositories, log zerolog.Logger) *taxonomyService {
	return &taxonomyService{
		categories: repos.Category,
		tags:       repos.Tag,
		log:        log.With().Str("service", "taxonomy").Logger(),
	}
}

func (s *taxonomyService) ListCategories(ctx context.Context) (_ []models.Category, err error) {
	ctx, span := telemetry.StartSpan(ctx, "TaxonomyService.ListCategories")
	defer func() { telemetry.EndSpan(span, err) }()

	return s.categories.List(ctx)
}

func (s *taxonomyService) GetCategory(ctx context.Context, id int64) (_ *models.Category, err error) {
	ctx, span := telemetry.StartSpan(ctx, "TaxonomyService.GetCategory", attribute.Int64("id", id))
	defer func() { telemetry.EndSpan(span, spanError(err)) }()

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, models.ErrNotFound
	}
	return category, nil
}

func (s *taxonomyService) ListTags(ctx context.Context) (_ []models.Tag, err error) {
	ctx, span := telemetry.StartSpan(ctx, "TaxonomyService.ListTags")
	defer func() { telemetry.EndSpan(span, err) }()

	return s.tags.List(ctx)
}

func (s *taxonomyService) GetTag(ctx context.Context, id int64) (_ *models.Tag, err error) {
	ctx, span := telemetry.StartSpan(ctx, "TaxonomyService.GetTag", attribute.Int64("id", id))
	defer func() { telemetry.EndSpan(span, spanError(err)) }()

	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, models.ErrNotFound
	}
	return tag, nil
}
