package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/myblog-api/internal/database"
	"github.com/myblog-api/internal/models"
	"github.com/samber/lo"
)

var postColumns = []string{
	"p.id", "p.title", "p.slug", "p.summary", "p.content", "p.is_draft",
	"p.author_id", "p.category_id", "p.created_at", "p.updated_at",
	"u.username AS author_username",
	"c.id AS cat_id", "c.name AS cat_name", "c.description AS cat_description",
}

// postRow is a post joined with its author and optional category
type postRow struct {
	models.Post
	AuthorUsername string         `db:"author_username"`
	CatID          sql.NullInt64  `db:"cat_id"`
	CatName        sql.NullString `db:"cat_name"`
	CatDescription sql.NullString `db:"cat_description"`
}

func (row postRow) toModel() models.Post {
	p := row.Post
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.Author = models.User{ID: p.AuthorID, Username: row.AuthorUsername}
	if row.CatID.Valid {
		p.Category = &models.Category{
			ID:          row.CatID.Int64,
			Name:        row.CatName.String,
			Description: row.CatDescription.String,
		}
	}
	p.Tags = []models.Tag{}
	return p
}

type postTagRow struct {
	PostID int64 `db:"post_id"`
	models.Tag
}

// likeEscaper escapes LIKE wildcards; queries declare ESCAPE '\'
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// postSearchColumns are matched case-insensitively by each search term
var postSearchColumns = []string{"p.title", "p.summary", "p.content", "u.username"}

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// published is the starting point of every read: drafts never leave it.
func (r *postRepo) published() sq.SelectBuilder {
	return r.db.Builder.
		Select(postColumns...).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		LeftJoin("categories c ON c.id = p.category_id").
		Where(sq.Eq{"p.is_draft": false})
}

// Create inserts a post and its tag links in one transaction
func (r *postRepo) Create(ctx context.Context, post *models.Post, tagIDs []int64) error {
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id, err := insertReturningID(ctx, tx, r.db.Builder.
		Insert("posts").
		Columns("title", "slug", "summary", "content", "is_draft", "author_id", "category_id", "created_at", "updated_at").
		Values(post.Title, post.Slug, post.Summary, post.Content, post.IsDraft,
			post.AuthorID, post.CategoryID, post.CreatedAt, post.UpdatedAt))
	if err != nil {
		return writeError(err, "post", post.Slug)
	}

	if err := insertLinks(ctx, tx, r.db.Builder, "post_tags", "post_id", "tag_id", id, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	post.ID = id
	return nil
}

// SetDraft flips the draft flag, publishing or withdrawing a post
func (r *postRepo) SetDraft(ctx context.Context, id int64, draft bool) error {
	return execUpdate(ctx, r.db, r.db.Builder.
		Update("posts").
		Set("is_draft", draft).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}))
}

// ListPublished returns non-draft posts matching filter, newest first
func (r *postRepo) ListPublished(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	q := r.published()

	if len(filter.CategoryIDs) > 0 {
		q = q.Where(sq.Eq{"p.category_id": filter.CategoryIDs})
	}

	if len(filter.TagIDs) > 0 {
		ids := lo.Uniq(filter.TagIDs)
		q = q.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id IN ("+sq.Placeholders(len(ids))+"))",
			lo.ToAnySlice(ids)...,
		))
	}

	for _, term := range filter.SearchTerms {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		q = q.Where(sq.Or(lo.Map(postSearchColumns, func(col string, _ int) sq.Sqlizer {
			return sq.Expr("LOWER("+col+`) LIKE ? ESCAPE '\'`, pattern)
		})))
	}

	return r.selectPosts(ctx, q.OrderBy("p.created_at DESC", "p.id DESC"))
}

// GetPublishedBySlug retrieves a non-draft post; drafts and unknown slugs yield nil, nil
func (r *postRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	posts, err := r.selectPosts(ctx, r.published().Where(sq.Eq{"p.slug": slug}).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// Exists reports whether the posts table holds any row
func (r *postRepo) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM posts)").Scan(&exists)
	return exists, err
}

// Count returns the total number of posts, drafts included
func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

func (r *postRepo) selectPosts(ctx context.Context, q sq.SelectBuilder) ([]models.Post, error) {
	rows, err := selectAll[postRow](ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	posts := lo.Map(rows, func(row postRow, _ int) models.Post { return row.toModel() })
	if err := r.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachTags loads the tags of every post in one query
func (r *postRepo) attachTags(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := lo.Map(posts, func(p models.Post, _ int) int64 { return p.ID })
	rows, err := selectAll[postTagRow](ctx, r.db, r.db.Builder.
		Select("pt.post_id", "t.id", "t.name").
		From("post_tags pt").
		Join("tags t ON t.id = pt.tag_id").
		Where(sq.Eq{"pt.post_id": ids}).
		OrderBy("t.id"))
	if err != nil {
		return fmt.Errorf("select post tags: %w", err)
	}

	byPost := lo.GroupBy(rows, func(row postTagRow) int64 { return row.PostID })
	for i := range posts {
		if linked, ok := byPost[posts[i].ID]; ok {
			posts[i].Tags = lo.Map(linked, func(row postTagRow, _ int) models.Tag { return row.Tag })
		}
	}
	return nil
}
