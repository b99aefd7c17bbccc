package database

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/myblog-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	db := newMemoryDB(t)
	require.NoError(t, db.RunMigrations())

	version, dirty, err := db.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	for _, table := range []string{"users", "categories", "tags", "posts", "post_tags", "tech_stacks", "projects", "project_tech_stacks"} {
		var n int
		err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}

	// running again is a no-op
	require.NoError(t, db.RunMigrations())
}

func TestMigrateDown(t *testing.T) {
	db := newMemoryDB(t)
	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.MigrateDown())

	version, _, err := db.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'projects'"))
	assert.Zero(t, n)

	// each migrator is released and the pool stays open
	assert.Zero(t, db.Stats().InUse)
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestHealthCheck(t *testing.T) {
	db := newMemoryDB(t)
	assert.NoError(t, db.HealthCheck(context.Background()))

	db.Close()
	assert.Error(t, db.HealthCheck(context.Background()))
}

func TestBuilderPlaceholders(t *testing.T) {
	query, _, err := newBuilder(DriverPostgres).Select("id").From("posts").Where("slug = ?", "a").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM posts WHERE slug = $1", query)

	query, _, err = newBuilder(DriverSQLite).Select("id").From("posts").Where("slug = ?", "a").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM posts WHERE slug = ?", query)
}

func TestUniqueViolation(t *testing.T) {
	db := newMemoryDB(t)
	require.NoError(t, db.RunMigrations())

	_, err := db.Exec("INSERT INTO categories (name) VALUES ('Go')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO categories (name) VALUES ('Go')")
	require.Error(t, err)

	field, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "name", field)

	field, ok = UniqueViolation(&pq.Error{Code: "23505", Constraint: "tech_stacks_name_key"})
	assert.True(t, ok)
	assert.Equal(t, "name", field)

	field, ok = UniqueViolation(&pq.Error{Code: "23505", Constraint: "posts_slug_key"})
	assert.True(t, ok)
	assert.Equal(t, "slug", field)

	_, ok = UniqueViolation(&pq.Error{Code: "23503", Constraint: "posts_author_id_fkey"})
	assert.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)

	_, ok = UniqueViolation(nil)
	assert.False(t, ok)
}

func TestForeignKeysEnforced(t *testing.T) {
	db := newMemoryDB(t)
	require.NoError(t, db.RunMigrations())

	_, err := db.Exec("INSERT INTO posts (title, slug, content, author_id) VALUES ('t', 't', 'c', 999)")
	assert.Error(t, err)
}
