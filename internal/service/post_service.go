package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/myblog-api/internal/slug"
	"github.com/myblog-api/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// postQueryService is the concrete implementation of PostQueryService
type postQueryService struct {
	posts repository.PostRepository
	log   zerolog.Logger
}

func newPostQueryService(repos *repository.Repositories, log zerolog.Logger) *postQueryService {
	return &postQueryService{
		posts: repos.Post,
		log:   log.With().Str("service", "posts").Logger(),
	}
}

// ListPosts returns published posts matching the request parameters, newest first.
// A malformed category or tag id yields an empty list rather than an error.
func (s *postQueryService) ListPosts(ctx context.Context, params PostListParams) (_ []models.Post, err error) {
	ctx, span := telemetry.StartSpan(ctx, "PostQueryService.ListPosts",
		attribute.String("search", params.Search),
		attribute.StringSlice("category", params.Category),
		attribute.StringSlice("tags", params.Tags),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	categoryIDs, err := parseIDs(params.Category)
	if err != nil {
		s.log.Debug().Err(err).Strs("category", params.Category).Msg("Malformed category filter, returning no posts")
		return []models.Post{}, nil
	}
	tagIDs, err := parseIDs(params.Tags)
	if err != nil {
		s.log.Debug().Err(err).Strs("tags", params.Tags).Msg("Malformed tags filter, returning no posts")
		return []models.Post{}, nil
	}

	posts, err := s.posts.ListPublished(ctx, models.PostFilter{
		CategoryIDs: categoryIDs,
		TagIDs:      tagIDs,
		SearchTerms: SearchTerms(params.Search),
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("results", len(posts)))
	return posts, nil
}

// GetPost returns the published post with the given slug
func (s *postQueryService) GetPost(ctx context.Context, slugValue string) (_ *models.Post, err error) {
	ctx, span := telemetry.StartSpan(ctx, "PostQueryService.GetPost", attribute.String("slug", slugValue))
	defer func() { telemetry.EndSpan(span, spanError(err)) }()

	if !slug.Valid(slugValue) {
		return nil, models.ErrNotFound
	}

	post, err := s.posts.GetPublishedBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.ErrNotFound
	}
	return post, nil
}

// SearchTerms splits a search string on whitespace and commas
func SearchTerms(search string) []string {
	search = strings.ReplaceAll(search, "\x00", "")
	return strings.FieldsFunc(search, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

// parseIDs converts query-string ids; empty values are ignored
func parseIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("id %q: %w", v, models.ErrInvalidFilter)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// spanError drops lookup misses so they do not mark spans as failed
func spanError(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
