// Package sqlite provides SQLite-backed persistence for marker documents.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/markers/internal/documents/domain"
	"github.com/zjrosen/markers/internal/log"
	"github.com/zjrosen/markers/internal/pubsub"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the SQLite connection and exposes repositories over it.
// Repository writes are announced on the events broker, keyed by
// document name.
type DB struct {
	conn      *sql.DB
	events    *pubsub.Broker[string]
	documents domain.DocumentRepository
}

// NewDB opens (creating if needed) the database at path and runs pending
// migrations. The parent directory is created with 0700 permissions.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	log.Debug(log.CatStore, "Opened document database", "path", path)

	events := pubsub.NewBroker[string]()
	return &DB{
		conn:      conn,
		events:    events,
		documents: newDocumentRepository(conn, events),
	}, nil
}

// Conn returns the underlying database connection.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// Documents returns the document repository.
func (d *DB) Documents() domain.DocumentRepository {
	return d.documents
}

// Events returns the broker announcing document store changes.
func (d *DB) Events() *pubsub.Broker[string] {
	return d.events
}

// Close closes the events broker and the database connection.
func (d *DB) Close() error {
	d.events.Close()
	return d.conn.Close()
}

// runMigrations applies any pending schema migrations from the embedded
// migration files.
func runMigrations(conn *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", &migrationDriver{db: conn})
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
