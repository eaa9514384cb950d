// Package sqlite provides a SQLite-backed document store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/greenroomhq/greenroom/internal/docstore"
	"github.com/greenroomhq/greenroom/internal/docstore/sqlite/migrations"
	"github.com/greenroomhq/greenroom/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for versioned documents.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a document store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Collection returns a named document collection.
func (s *Store) Collection(name string) docstore.Collection {
	return &collection{sqlDB: s.sqlDB, name: name}
}

type collection struct {
	sqlDB *sql.DB
	name  string
}

func (c *collection) Get(ctx context.Context, id string) (docstore.Document, error) {
	var (
		version int64
		body    string
	)
	err := c.sqlDB.QueryRowContext(ctx,
		"SELECT version, body FROM documents WHERE collection = ? AND id = ?",
		c.name, id,
	).Scan(&version, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, fmt.Errorf("get document %s/%s: %w", c.name, id, err)
	}
	return docstore.Document{ID: id, Version: docstore.Version(version), Body: []byte(body)}, nil
}

func (c *collection) Put(ctx context.Context, doc docstore.Document) (docstore.Version, error) {
	if doc.Version == 0 {
		_, err := c.sqlDB.ExecContext(ctx,
			"INSERT INTO documents (collection, id, version, body) VALUES (?, ?, 1, ?)",
			c.name, doc.ID, string(doc.Body),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, docstore.ErrConflict
			}
			return 0, fmt.Errorf("insert document %s/%s: %w", c.name, doc.ID, err)
		}
		return 1, nil
	}

	res, err := c.sqlDB.ExecContext(ctx,
		"UPDATE documents SET version = version + 1, body = ? WHERE collection = ? AND id = ? AND version = ?",
		string(doc.Body), c.name, doc.ID, int64(doc.Version),
	)
	if err != nil {
		return 0, fmt.Errorf("update document %s/%s: %w", c.name, doc.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update document %s/%s: %w", c.name, doc.ID, err)
	}
	if affected == 0 {
		return 0, docstore.ErrConflict
	}
	return doc.Version + 1, nil
}

func (c *collection) Remove(ctx context.Context, id string, version docstore.Version) error {
	res, err := c.sqlDB.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ? AND version = ?",
		c.name, id, int64(version),
	)
	if err != nil {
		return fmt.Errorf("remove document %s/%s: %w", c.name, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove document %s/%s: %w", c.name, id, err)
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a missing document from a stale version.
	var exists int
	err = c.sqlDB.QueryRowContext(ctx,
		"SELECT 1 FROM documents WHERE collection = ? AND id = ?",
		c.name, id,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("remove document %s/%s: %w", c.name, id, err)
	}
	return docstore.ErrConflict
}

func (c *collection) QueryByField(ctx context.Context, fieldPath string, value any) ([]docstore.Document, error) {
	rows, err := c.sqlDB.QueryContext(ctx,
		"SELECT id, version, body FROM documents WHERE collection = ? AND json_extract(body, ?) = ? ORDER BY id",
		c.name, "$."+fieldPath, value,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents %s by %s: %w", c.name, fieldPath, err)
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

func (c *collection) ListAll(ctx context.Context) ([]docstore.Document, error) {
	rows, err := c.sqlDB.QueryContext(ctx,
		"SELECT id, version, body FROM documents WHERE collection = ? ORDER BY id",
		c.name,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents %s: %w", c.name, err)
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]docstore.Document, error) {
	var out []docstore.Document
	for rows.Next() {
		var (
			id      string
			version int64
			body    string
		)
		if err := rows.Scan(&id, &version, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, docstore.Document{ID: id, Version: docstore.Version(version), Body: []byte(body)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
