package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/myblog-api/internal/database"
	"github.com/myblog-api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) base() sq.SelectBuilder {
	return r.db.Builder.Select("id", "name", "description").From("categories")
}

// Create inserts a new category
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	id, err := insertReturningID(ctx, r.db, r.db.Builder.
		Insert("categories").
		Columns("name", "description").
		Values(category.Name, category.Description))
	if err != nil {
		return writeError(err, "category", category.Name)
	}
	category.ID = id
	return nil
}

// List returns every category ordered by id
func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return selectAll[models.Category](ctx, r.db, r.base().OrderBy("id"))
}

// GetByID retrieves a category by id
func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return getOne[models.Category](ctx, r.db, r.base().Where(sq.Eq{"id": id}))
}

// GetByName retrieves a category by its unique name
func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return getOne[models.Category](ctx, r.db, r.base().Where(sq.Eq{"name": name}))
}

// tagRepo is the concrete implementation of TagRepository
type tagRepo struct {
	db *database.DB
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db *database.DB) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) base() sq.SelectBuilder {
	return r.db.Builder.Select("id", "name").From("tags")
}

// Create inserts a new tag
func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	id, err := insertReturningID(ctx, r.db, r.db.Builder.
		Insert("tags").
		Columns("name").
		Values(tag.Name))
	if err != nil {
		return writeError(err, "tag", tag.Name)
	}
	tag.ID = id
	return nil
}

// List returns every tag ordered by id
func (r *tagRepo) List(ctx context.Context) ([]models.Tag, error) {
	return selectAll[models.Tag](ctx, r.db, r.base().OrderBy("id"))
}

// GetByID retrieves a tag by id
func (r *tagRepo) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	return getOne[models.Tag](ctx, r.db, r.base().Where(sq.Eq{"id": id}))
}

// GetByName retrieves a tag by its unique name
func (r *tagRepo) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return getOne[models.Tag](ctx, r.db, r.base().Where(sq.Eq{"name": name}))
}
