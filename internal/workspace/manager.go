// Package workspace manages the ephemeral MySQL databases used as scratch
// space for import-then-export transformations, and the named targets of
// optional restores.
package workspace

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dbsmedya/goslim/internal/logger"
	"github.com/dbsmedya/goslim/internal/sqlutil"
)

// Charset and collation applied to every created database.
const (
	createCharset   = "utf8mb4"
	createCollation = "utf8mb4_unicode_ci"
)

// Manager issues database lifecycle statements against one MySQL server.
// All operations are serialized by the pipeline's sequential processing;
// the Manager itself holds no state beyond the connection.
type Manager struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewManager creates a Manager on an open connection.
func NewManager(db *sql.DB, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Manager{db: db, logger: log}
}

// Exists reports whether a database with the given name is present, via a
// name-filtered listing query.
func (m *Manager) Exists(ctx context.Context, name string) (bool, error) {
	rows, err := m.db.QueryContext(ctx, "SHOW DATABASES LIKE ?", name)
	if err != nil {
		return false, fmt.Errorf("failed to list databases: %w", err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("failed to list databases: %w", err)
	}
	return exists, nil
}

// Create issues a creation statement with a fixed charset and collation.
// The engine rejects name collisions; callers wanting a clean slate use
// Recreate instead.
func (m *Manager) Create(ctx context.Context, name string) error {
	quoted, err := sqlutil.QuoteIdentifierSafe(name)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("CREATE DATABASE %s CHARACTER SET %s COLLATE %s",
		quoted, createCharset, createCollation)
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}

	m.logger.Debugw("Created database", "database", name)
	return nil
}

// Drop destroys the named database. It does not guard against dropping a
// non-existent database; callers check Exists first or tolerate the error.
func (m *Manager) Drop(ctx context.Context, name string) error {
	quoted, err := sqlutil.QuoteIdentifierSafe(name)
	if err != nil {
		return err
	}

	if _, err := m.db.ExecContext(ctx, "DROP DATABASE "+quoted); err != nil {
		return fmt.Errorf("failed to drop database %s: %w", name, err)
	}

	m.logger.Debugw("Dropped database", "database", name)
	return nil
}

// Recreate drops the named database if it exists, then creates it. This is
// the dominant pattern for every phase that needs a clean workspace, and it
// absorbs leftovers of previous failed runs.
func (m *Manager) Recreate(ctx context.Context, name string) error {
	exists, err := m.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		if err := m.Drop(ctx, name); err != nil {
			return err
		}
	}
	return m.Create(ctx, name)
}

// TableCount returns the number of base tables in the named database.
func (m *Manager) TableCount(ctx context.Context, name string) (int, error) {
	var count int
	err := m.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ?",
		name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tables of %s: %w", name, err)
	}
	return count, nil
}

// SizeBytes returns the combined data and index size of the named database.
func (m *Manager) SizeBytes(ctx context.Context, name string) (int64, error) {
	var size sql.NullInt64
	err := m.db.QueryRowContext(ctx,
		"SELECT SUM(data_length + index_length) FROM information_schema.tables WHERE table_schema = ?",
		name).Scan(&size)
	if err != nil {
		return 0, fmt.Errorf("failed to measure size of %s: %w", name, err)
	}
	return size.Int64, nil
}

// invalidNameChars matches characters that cannot appear in a database name
// derived from a file path.
var invalidNameChars = regexp.MustCompile("[^a-zA-Z0-9_]")

// NameFor derives the deterministic workspace (or output-related) database
// name for a dump file path: the base name without its extension, sanitized
// to a valid identifier, plus the fixed suffix. The naming convention is
// stable across runs; concurrent pipeline runs against the same server are
// unsupported because of it.
func NameFor(path, suffix string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = invalidNameChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "dump"
	}
	return base + suffix
}
