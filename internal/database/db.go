package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/myblog-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:embed migrations/*/*.sql
var migrationFS embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DB wraps the sqlx connection with a dialect-aware statement builder
type DB struct {
	*sqlx.DB
	Builder sq.StatementBuilderType
	Driver  string
	log     zerolog.Logger
}

// New creates a new database connection with connection pooling
func New(cfg *config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	dsn := cfg.GetDSN()
	if cfg.Driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool
	if cfg.Driver == DriverSQLite && isMemory(cfg.Path) {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	wrapper := &DB{
		DB:      db,
		Builder: newBuilder(cfg.Driver),
		Driver:  cfg.Driver,
		log:     log.With().Str("component", "database").Logger(),
	}

	wrapper.log.Info().
		Str("driver", cfg.Driver).
		Str("host", cfg.Host).
		Str("database", lo.Ternary(cfg.Driver == DriverSQLite, cfg.Path, cfg.Name)).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Database connection established")

	return wrapper, nil
}

func newBuilder(driver string) sq.StatementBuilderType {
	if driver == DriverPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func isMemory(path string) bool {
	return strings.HasPrefix(path, ":memory:") || strings.Contains(path, "mode=memory")
}

// withMigrator runs fn against the embedded migrations for the active driver.
// The migrator lives only for the call: the postgres driver holds a dedicated
// connection for its advisory lock, and that connection goes back to the pool
// when fn returns.
func (db *DB) withMigrator(fn func(m *migrate.Migrate) error) error {
	src, err := iofs.New(migrationFS, "migrations/"+db.Driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	defer src.Close()

	var driver migratedb.Driver
	switch db.Driver {
	case DriverPostgres:
		ctx := context.Background()
		conn, connErr := db.DB.Conn(ctx)
		if connErr != nil {
			return fmt.Errorf("failed to acquire migration connection: %w", connErr)
		}
		// closing the driver releases conn and leaves the pool open
		pgDriver, pgErr := postgres.WithConnection(ctx, conn, &postgres.Config{})
		if pgErr != nil {
			conn.Close()
			return fmt.Errorf("failed to create migration driver: %w", pgErr)
		}
		defer pgDriver.Close()
		driver = pgDriver
	case DriverSQLite:
		// the sqlite3 driver closes the whole pool on Close, so it is never closed here
		driver, err = migratesqlite.WithInstance(db.DB.DB, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", db.Driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.Driver, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return fn(m)
}

// RunMigrations executes all pending migrations using golang-migrate
func (db *DB) RunMigrations() error {
	db.log.Info().Str("driver", db.Driver).Msg("Running database migrations")

	return db.withMigrator(func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to get migration version: %w", err)
		}

		db.log.Info().
			Uint("version", version).
			Bool("dirty", dirty).
			Msg("Migrations completed")
		return nil
	})
}

// MigrateDown rolls back the last migration
func (db *DB) MigrateDown() error {
	db.log.Info().Str("driver", db.Driver).Msg("Rolling back last migration")

	return db.withMigrator(func(m *migrate.Migrate) error {
		if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}
		db.log.Info().Msg("Migration rolled back")
		return nil
	})
}

// MigrationVersion reports the applied schema version; zero when nothing is applied
func (db *DB) MigrationVersion() (version uint, dirty bool, err error) {
	err = db.withMigrator(func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		if verr != nil {
			return fmt.Errorf("failed to get migration version: %w", verr)
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return version, dirty, nil
}

// HealthCheck verifies the database connection is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
