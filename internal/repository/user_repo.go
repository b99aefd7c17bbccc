package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/myblog-api/internal/database"
	"github.com/myblog-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	id, err := insertReturningID(ctx, r.db, r.db.Builder.
		Insert("users").
		Columns("username", "email").
		Values(user.Username, user.Email))
	if err != nil {
		return writeError(err, "user", user.Username)
	}
	user.ID = id
	return nil
}

// GetByUsername retrieves a user by username
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return getOne[models.User](ctx, r.db, r.db.Builder.
		Select("id", "username", "email").
		From("users").
		Where(sq.Eq{"username": username}))
}
