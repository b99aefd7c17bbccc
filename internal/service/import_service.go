package service

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/myblog-api/internal/slug"
	"github.com/myblog-api/internal/telemetry"
	"github.com/myblog-api/internal/validation"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
)

const maxLineBytes = 1024 * 1024

// importService is the concrete implementation of ImportService
type importService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, log zerolog.Logger) *importService {
	return &importService{
		repos: repos,
		log:   log.With().Str("service", "import").Logger(),
	}
}

// importRun holds the per-run state: the batch validator and the name → id
// lookups resolved so far.
type importRun struct {
	validator  *validation.Validator
	authors    map[string]int64
	categories map[string]int64
	tags       map[string]int64
	techStacks map[string]int64
}

type lineHandler func(ctx context.Context, run *importRun, raw []byte) ([]models.ValidationError, error)

// Import reads NDJSON records of one resource from r and inserts the valid ones.
// Invalid records and duplicates are reported in the result; a storage
// failure aborts the run.
func (s *importService) Import(ctx context.Context, resource models.ImportResource, r io.Reader) (_ *models.ImportResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ImportService.Import", attribute.String("resource", string(resource)))
	defer func() { telemetry.EndSpan(span, err) }()

	handle, ok := map[models.ImportResource]lineHandler{
		models.ImportUsers:      s.importUser,
		models.ImportCategories: s.importCategory,
		models.ImportTags:       s.importTag,
		models.ImportPosts:      s.importPost,
		models.ImportTechStacks: s.importTechStack,
		models.ImportProjects:   s.importProject,
	}[resource]
	if !ok {
		return nil, fmt.Errorf("unknown resource type: %s", resource)
	}

	startTime := time.Now()
	result := &models.ImportResult{Resource: resource}
	run := &importRun{
		validator:  validation.NewValidator(),
		authors:    make(map[string]int64),
		categories: make(map[string]int64),
		tags:       make(map[string]int64),
		techStacks: make(map[string]int64),
	}

	s.log.Info().Str("resource", string(resource)).Msg("Starting import")

	scanner := bufio.NewScanner(r)
	// Increase buffer size for long post bodies
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if strings.TrimSpace(string(line)) == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.Total++
		verrs, err := handle(ctx, run, line)
		if err != nil {
			s.log.Error().Err(err).Int("line", lineNum).Msg("Import aborted")
			return result, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if len(verrs) > 0 {
			result.Failed++
			for _, e := range verrs {
				e.Line = lineNum
				result.Errors = append(result.Errors, e)
			}
			continue
		}
		result.Succeeded++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read input: %w", err)
	}

	var errorRate float64
	if result.Total > 0 {
		errorRate = float64(result.Failed) / float64(result.Total) * 100
	}
	s.log.Info().
		Str("resource", string(resource)).
		Int("total", result.Total).
		Int("successful", result.Succeeded).
		Int("failed", result.Failed).
		Float64("error_rate_pct", errorRate).
		Int64("duration_ms", time.Since(startTime).Milliseconds()).
		Msg("Import completed")

	span.SetAttributes(attribute.Int("total", result.Total), attribute.Int("failed", result.Failed))
	return result, nil
}

func decode(raw []byte, dst any) []models.ValidationError {
	if err := json.Unmarshal(raw, dst); err != nil {
		return []models.ValidationError{{Field: "json", Message: fmt.Sprintf("invalid JSON: %v", err)}}
	}
	return nil
}

// duplicateError turns a store-level uniqueness failure into a record error
func duplicateError(err error, field string, value any) ([]models.ValidationError, error) {
	switch {
	case errors.Is(err, models.ErrDuplicateSlug):
		return []models.ValidationError{{Field: "slug", Message: "slug already exists", Value: value}}, nil
	case errors.Is(err, models.ErrDuplicateName):
		return []models.ValidationError{{Field: field, Message: field + " already exists", Value: value}}, nil
	default:
		return nil, err
	}
}

func (s *importService) importUser(ctx context.Context, run *importRun, raw []byte) ([]models.ValidationError, error) {
	var rec models.UserNDJSON
	if verrs := decode(raw, &rec); verrs != nil {
		return verrs, nil
	}
	if verrs := run.validator.ValidateUser(&rec); len(verrs) > 0 {
		return verrs, nil
	}

	user := &models.User{Username: rec.Username, Email: rec.Email}
	if err := s.repos.User.Create(ctx, user); err != nil {
		return duplicateError(err, "username", rec.Username)
	}
	run.validator.Remember(models.ImportUsers, rec.Username)
	run.authors[user.Username] = user.ID
	return nil, nil
}

func (s *importService) importCategory(ctx context.Context, run *importRun, raw []byte) ([]models.ValidationError, error) {
	var rec models.CategoryNDJSON
	if verrs := decode(raw, &rec); verrs != nil {
		return verrs, nil
	}
	if verrs := run.validator.ValidateCategory(&rec); len(verrs) > 0 {
		return verrs, nil
	}

	category := &models.Category{Name: rec.Name, Description: rec.Description}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		return duplicateError(err, "name", rec.Name)
	}
	run.validator.Remember(models.ImportCategories, rec.Name)
	run.categories[category.Name] = category.ID
	return nil, nil
}

func (s *importService) importTag(ctx context.Context, run *importRun, raw []byte) ([]models.ValidationError, error) {
	var rec models.TagNDJSON
	if verrs := decode(raw, &rec); verrs != nil {
		return verrs, nil
	}
	if verrs := run.validator.ValidateTag(&rec); len(verrs) > 0 {
		return verrs, nil
	}

	tag := &models.Tag{Name: rec.Name}
	if err := s.repos.Tag.Create(ctx, tag); err != nil {
		return duplicateError(err, "name", rec.Name)
	}
	run.validator.Remember(models.ImportTags, rec.Name)
	run.tags[tag.Name] = tag.ID
	return nil, nil
}

func (s *importService) importPost(ctx context.Context, run *importRun, raw []byte) ([]models.ValidationError, error) {
	var rec models.PostNDJSON
	if verrs := decode(raw, &rec); verrs != nil {
		return verrs, nil
	}

	slugValue := rec.Slug
	if slugValue == "" {
		slugValue = slug.Generate(rec.Title)
	}
	if verrs := run.validator.ValidatePost(&rec, slugValue); len(verrs) > 0 {
		return verrs, nil
	}

	var verrs []models.ValidationError

	authorID, found, err := s.lookup(ctx, run.authors, rec.Author, func(name string) (int64, bool, error) {
		user, err := s.repos.User.GetByUsername(ctx, name)
		if err != nil || user == nil {
			return 0, false, err
		}
		return user.ID, true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		verrs = append(verrs, models.ValidationError{Field: "author", Message: "referenced user does not exist", Value: rec.Author})
	}

	var categoryID *int64
	if rec.Category != "" {
		id, found, err := s.lookup(ctx, run.categories, rec.Category, func(name string) (int64, bool, error) {
			category, err := s.repos.Category.GetByName(ctx, name)
			if err != nil || category == nil {
				return 0, false, err
			}
			return category.ID, true, nil
		})
		if err != nil {
			return nil, err
		}
		if found {
			categoryID = &id
		} else {
			verrs = append(verrs, models.ValidationError{Field: "category", Message: "referenced category does not exist", Value: rec.Category})
		}
	}

	tagIDs := make([]int64, 0, len(rec.Tags))
	for _, name := range lo.Uniq(rec.Tags) {
		id, found, err := s.lookup(ctx, run.tags, name, func(name string) (int64, bool, error) {
			tag, err := s.repos.Tag.GetByName(ctx, name)
			if err != nil || tag == nil {
				return 0, false, err
			}
			return tag.ID, true, nil
		})
		if err != nil {
			return nil, err
		}
		if !found {
			verrs = append(verrs, models.ValidationError{Field: "tags", Message: "referenced tag does not exist", Value: name})
			continue
		}
		tagIDs = append(tagIDs, id)
	}

	if len(verrs) > 0 {
		return verrs, nil
	}

	post := &models.Post{
		Title:      rec.Title,
		Slug:       slugValue,
		Summary:    rec.Summary,
		Content:    rec.Content,
		IsDraft:    lo.FromPtrOr(rec.IsDraft, true),
		AuthorID:   authorID,
		CategoryID: categoryID,
	}
	if err := s.repos.Post.Create(ctx, post, tagIDs); err != nil {
		return duplicateError(err, "slug", slugValue)
	}
	run.validator.Remember(models.ImportPosts, slugValue)
	return nil, nil
}

func (s *importService) importTechStack(ctx context.Context, run *importRun, raw []byte) ([]models.ValidationError, error) {
	var rec models.TechStackNDJSON
	if verrs := decode(raw, &rec); verrs != nil {
		return verrs, nil
	}
	if verrs := run.validator.ValidateTechStack(&rec); len(verrs) > 0 {
		return verrs, nil
	}

	stack := &models.TechStack{Name: rec.Name, IconURL: rec.IconURL, OfficialURL: rec.OfficialURL, Color: rec.Color}
	if err := s.repos.TechStack.Create(ctx, stack); err != nil {
		return duplicateError(err, "name", rec.Name)
	}
	run.validator.Remember(models.ImportTechStacks, rec.Name)
	run.techStacks[stack.Name] = stack.ID
	return nil, nil
}

func (s *importService) importProject(ctx context.Context, run *importRun, raw []byte) ([]models.ValidationError, error) {
	var rec models.ProjectNDJSON
	if verrs := decode(raw, &rec); verrs != nil {
		return verrs, nil
	}

	slugValue := rec.Slug
	if slugValue == "" {
		slugValue = slug.Generate(rec.Title)
	}
	if verrs := run.validator.ValidateProject(&rec, slugValue); len(verrs) > 0 {
		return verrs, nil
	}

	var verrs []models.ValidationError
	stackIDs := make([]int64, 0, len(rec.TechStack))
	for _, name := range lo.Uniq(rec.TechStack) {
		id, found, err := s.lookup(ctx, run.techStacks, name, func(name string) (int64, bool, error) {
			stack, err := s.repos.TechStack.GetByName(ctx, name)
			if err != nil || stack == nil {
				return 0, false, err
			}
			return stack.ID, true, nil
		})
		if err != nil {
			return nil, err
		}
		if !found {
			verrs = append(verrs, models.ValidationError{Field: "tech_stack", Message: "referenced tech stack does not exist", Value: name})
			continue
		}
		stackIDs = append(stackIDs, id)
	}
	if len(verrs) > 0 {
		return verrs, nil
	}

	status := models.ProjectStatus(rec.Status)
	if status == "" {
		status = models.ProjectStatusDeveloping
	}

	project := &models.Project{
		Title:       rec.Title,
		Slug:        slugValue,
		Description: rec.Description,
		Content:     rec.Content,
		CoverImage:  rec.CoverImage,
		GithubURL:   rec.GithubURL,
		DemoURL:     rec.DemoURL,
		Status:      status,
		IsFeatured:  rec.IsFeatured,
		IsPublished: lo.FromPtrOr(rec.IsPublished, false),
		SortOrder:   rec.SortOrder,
	}
	if err := s.repos.Project.Create(ctx, project, stackIDs); err != nil {
		return duplicateError(err, "slug", slugValue)
	}
	run.validator.Remember(models.ImportProjects, slugValue)
	return nil, nil
}

// lookup resolves a referenced name through the run cache, falling back to the store
func (s *importService) lookup(ctx context.Context, cache map[string]int64, name string, load func(string) (int64, bool, error)) (int64, bool, error) {
	if id, ok := cache[name]; ok {
		return id, true, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	id, found, err := load(name)
	if err != nil || !found {
		return 0, false, err
	}
	cache[name] = id
	return id, true, nil
}
