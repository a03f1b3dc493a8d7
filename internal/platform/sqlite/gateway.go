// Package sqlite implements the store interfaces on an embedded SQLite
// database. A single Gateway owns the connection; every unit of work
// acquires it exclusively, so all reads and writes are fully serialized.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards to slog.Error without exiting; the error is also returned
// from goose.Up and handled by the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// Gateway owns the single embedded-database connection and the mutex that
// serializes all access to it. Repository operations call Acquire for
// exactly one logical unit of work and release on completion; the
// multi-statement creators hold the handle across their whole transaction.
type Gateway struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
}

// Open bootstraps the database at dbPath and returns a Gateway over it.
// The parent directory is created recursively if absent, as is the database
// file itself on first run; embedded migrations then bring the schema up to
// date. Any failure here is fatal at startup and is propagated, not retried.
func Open(dbPath string, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		logger.Info("creating non-existent database", slog.String("path", dbPath))
	}

	// Foreign keys are off by default in SQLite; the busy timeout covers
	// the rare second connection the pool may open.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection is enough under the gateway mutex, and it keeps every
	// statement on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("connected to sqlite database", slog.String("path", dbPath))

	return &Gateway{db: db, logger: logger}, nil
}

// Acquire takes exclusive ownership of the database handle, blocking until
// any in-flight holder releases it. The returned release function must be
// called on every path.
func (g *Gateway) Acquire() (*sql.DB, func()) {
	g.mu.Lock()
	released := false
	return g.db, func() {
		if !released {
			released = true
			g.mu.Unlock()
		}
	}
}

// Close releases the underlying connection pool.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// runMigrations applies the embedded goose migrations.
func runMigrations(db *sql.DB) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName("schema_migrations")

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
