package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/myblog-api/internal/database"
	"github.com/myblog-api/internal/models"
	"github.com/samber/lo"
)

// UserRepository defines the interface for author data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	List(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
}

// PostRepository defines the interface for post data operations.
// Reads only ever see posts with is_draft = false.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagIDs []int64) error
	SetDraft(ctx context.Context, id int64, draft bool) error
	ListPublished(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	Exists(ctx context.Context) (bool, error)
	Count(ctx context.Context) (int, error)
}

// TechStackRepository defines the interface for tech stack data operations
type TechStackRepository interface {
	Create(ctx context.Context, stack *models.TechStack) error
	List(ctx context.Context) ([]models.TechStack, error)
	GetByName(ctx context.Context, name string) (*models.TechStack, error)
}

// ProjectRepository defines the interface for project data operations.
// Reads only ever see projects with is_published = true.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project, techStackIDs []int64) error
	SetPublished(ctx context.Context, id int64, published bool) error
	ListPublished(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Project, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Category  CategoryRepository
	Tag       TagRepository
	Post      PostRepository
	TechStack TechStackRepository
	Project   ProjectRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepo(db),
		Category:  NewCategoryRepo(db),
		Tag:       NewTagRepo(db),
		Post:      NewPostRepo(db),
		TechStack: NewTechStackRepo(db),
		Project:   NewProjectRepo(db),
	}
}

// getOne runs q and scans a single row; a missing row yields nil, nil
func getOne[T any](ctx context.Context, db *database.DB, q sq.SelectBuilder) (*T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out T
	err = db.GetContext(ctx, &out, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// selectAll runs q and scans every row; no rows yields an empty, non-nil slice
func selectAll[T any](ctx context.Context, db *database.DB, q sq.SelectBuilder) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []T{}
	if err := db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// insertReturningID executes an INSERT and reads back the generated id
func insertReturningID(ctx context.Context, q sqlx.QueryerContext, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// insertLinks fills a many-to-many join table for one owner row
func insertLinks(ctx context.Context, tx *sqlx.Tx, b sq.StatementBuilderType, table, ownerCol, targetCol string, ownerID int64, targetIDs []int64) error {
	targetIDs = lo.Uniq(targetIDs)
	if len(targetIDs) == 0 {
		return nil
	}

	insert := b.Insert(table).Columns(ownerCol, targetCol)
	for _, id := range targetIDs {
		insert = insert.Values(ownerID, id)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build %s insert: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// execUpdate runs an UPDATE and reports models.ErrNotFound when no row matched
func execUpdate(ctx context.Context, db *database.DB, b sq.UpdateBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// writeError maps unique-constraint failures to the domain duplicate errors
func writeError(err error, entity, value string) error {
	field, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	if field == "slug" {
		return fmt.Errorf("%s slug %q: %w", entity, value, models.ErrDuplicateSlug)
	}
	return fmt.Errorf("%s %s %q: %w", entity, field, value, models.ErrDuplicateName)
}
