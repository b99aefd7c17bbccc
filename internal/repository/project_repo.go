package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/myblog-api/internal/database"
	"github.com/myblog-api/internal/models"
	"github.com/samber/lo"
)

var projectColumns = []string{
	"p.id", "p.title", "p.slug", "p.description", "p.content", "p.cover_image",
	"p.github_url", "p.demo_url", "p.status", "p.is_featured", "p.is_published",
	"p.sort_order", "p.created_at", "p.updated_at",
}

type projectStackRow struct {
	ProjectID int64 `db:"project_id"`
	models.TechStack
}

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	db *database.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *database.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// published is the starting point of every read: unpublished projects never leave it.
func (r *projectRepo) published() sq.SelectBuilder {
	return r.db.Builder.
		Select(projectColumns...).
		From("projects p").
		Where(sq.Eq{"p.is_published": true})
}

// Create inserts a project and its tech stack links in one transaction
func (r *projectRepo) Create(ctx context.Context, project *models.Project, techStackIDs []int64) error {
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusDeveloping
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(ctx, tx, r.db.Builder.
		Insert("projects").
		Columns("title", "slug", "description", "content", "cover_image", "github_url", "demo_url",
			"status", "is_featured", "is_published", "sort_order", "created_at", "updated_at").
		Values(project.Title, project.Slug, project.Description, project.Content, project.CoverImage,
			project.GithubURL, project.DemoURL, string(project.Status), project.IsFeatured,
			project.IsPublished, project.SortOrder, project.CreatedAt, project.UpdatedAt))
	if err != nil {
		return writeError(err, "project", project.Slug)
	}

	if err := insertLinks(ctx, tx, r.db.Builder, "project_tech_stacks", "project_id", "tech_stack_id", id, techStackIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	project.ID = id
	return nil
}

// SetPublished flips the published flag
func (r *projectRepo) SetPublished(ctx context.Context, id int64, published bool) error {
	return execUpdate(ctx, r.db, r.db.Builder.
		Update("projects").
		Set("is_published", published).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}))
}

// ListPublished returns published projects, featured first, then by
// sort order and recency
func (r *projectRepo) ListPublished(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	q := r.published()
	if filter.FeaturedOnly {
		q = q.Where(sq.Eq{"p.is_featured": true})
	}
	return r.selectProjects(ctx, q.OrderBy("p.is_featured DESC", "p.sort_order DESC", "p.created_at DESC", "p.id DESC"))
}

// GetPublishedBySlug retrieves a published project; unknown or hidden slugs yield nil, nil
func (r *projectRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Project, error) {
	projects, err := r.selectProjects(ctx, r.published().Where(sq.Eq{"p.slug": slug}).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	return &projects[0], nil
}

func (r *projectRepo) selectProjects(ctx context.Context, q sq.SelectBuilder) ([]models.Project, error) {
	projects, err := selectAll[models.Project](ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := lo.Map(projects, func(p models.Project, _ int) int64 { return p.ID })
	rows, err := selectAll[projectStackRow](ctx, r.db, r.db.Builder.
		Select("pts.project_id", "ts.id", "ts.name", "ts.icon_url", "ts.official_url", "ts.color").
		From("project_tech_stacks pts").
		Join("tech_stacks ts ON ts.id = pts.tech_stack_id").
		Where(sq.Eq{"pts.project_id": ids}).
		OrderBy("ts.name", "ts.id"))
	if err != nil {
		return nil, fmt.Errorf("select project tech stacks: %w", err)
	}

	byProject := lo.GroupBy(rows, func(row projectStackRow) int64 { return row.ProjectID })
	for i := range projects {
		projects[i].CreatedAt = projects[i].CreatedAt.UTC()
		projects[i].UpdatedAt = projects[i].UpdatedAt.UTC()
		projects[i].TechStack = lo.Map(byProject[projects[i].ID], func(row projectStackRow, _ int) models.TechStack {
			return row.TechStack
		})
	}
	return projects, nil
}

// techStackRepo is the concrete implementation of TechStackRepository
type techStackRepo struct {
	db *database.DB
}

// NewTechStackRepo creates a new tech stack repository
func NewTechStackRepo(db *database.DB) TechStackRepository {
	return &techStackRepo{db: db}
}

func (r *techStackRepo) base() sq.SelectBuilder {
	return r.db.Builder.Select("id", "name", "icon_url", "official_url", "color").From("tech_stacks")
}

// Create inserts a new tech stack
func (r *techStackRepo) Create(ctx context.Context, stack *models.TechStack) error {
	id, err := insertReturningID(ctx, r.db, r.db.Builder.
		Insert("tech_stacks").
		Columns("name", "icon_url", "official_url", "color").
		Values(stack.Name, stack.IconURL, stack.OfficialURL, stack.Color))
	if err != nil {
		return writeError(err, "tech stack", stack.Name)
	}
	stack.ID = id
	return nil
}

// List returns every tech stack ordered by name
func (r *techStackRepo) List(ctx context.Context) ([]models.TechStack, error) {
	return selectAll[models.TechStack](ctx, r.db, r.base().OrderBy("name", "id"))
}

// GetByName retrieves a tech stack by its unique name
func (r *techStackRepo) GetByName(ctx context.Context, name string) (*models.TechStack, error) {
	return getOne[models.TechStack](ctx, r.db, r.base().Where(sq.Eq{"name": name}))
}
