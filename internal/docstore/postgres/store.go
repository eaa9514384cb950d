// Package postgres provides a Postgres-backed document store using the pgx
// driver through database/sql.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/greenroomhq/greenroom/internal/docstore"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const documentsDDL = `CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    version BIGINT NOT NULL,
    body JSONB NOT NULL,
    PRIMARY KEY (collection, id)
)`

// Store provides Postgres-backed persistence for versioned documents.
type Store struct {
	sqlDB *sql.DB
}

// Open connects to Postgres with the provided DSN and ensures the documents
// table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, documentsDDL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure documents table: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying connection pool.
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
		body    []byte
	)
	err := c.sqlDB.QueryRowContext(ctx,
		"SELECT version, body FROM documents WHERE collection = $1 AND id = $2",
		c.name, id,
	).Scan(&version, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.Document{}, docstore.ErrNotFound
	}
	if err != nil {
		return docstore.Document{}, fmt.Errorf("get document %s/%s: %w", c.name, id, err)
	}
	return docstore.Document{ID: id, Version: docstore.Version(version), Body: body}, nil
}

func (c *collection) Put(ctx context.Context, doc docstore.Document) (docstore.Version, error) {
	if doc.Version == 0 {
		_, err := c.sqlDB.ExecContext(ctx,
			"INSERT INTO documents (collection, id, version, body) VALUES ($1, $2, 1, $3)",
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
		"UPDATE documents SET version = version + 1, body = $1 WHERE collection = $2 AND id = $3 AND version = $4",
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
		"DELETE FROM documents WHERE collection = $1 AND id = $2 AND version = $3",
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

	var exists int
	err = c.sqlDB.QueryRowContext(ctx,
		"SELECT 1 FROM documents WHERE collection = $1 AND id = $2",
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
	// "a.b" becomes the jsonb path {a,b} for the #>> text operator.
	path := "{" + strings.ReplaceAll(fieldPath, ".", ",") + "}"
	rows, err := c.sqlDB.QueryContext(ctx,
		"SELECT id, version, body FROM documents WHERE collection = $1 AND body #>> $2 = $3 ORDER BY id",
		c.name, path, fmt.Sprint(value),
	)
	if err != nil {
		return nil, fmt.Errorf("query documents %s by %s: %w", c.name, fieldPath, err)
	}
	defer func() { _ = rows.Close() }()
	return scanDocuments(rows)
}

func (c *collection) ListAll(ctx context.Context) ([]docstore.Document, error) {
	rows, err := c.sqlDB.QueryContext(ctx,
		"SELECT id, version, body FROM documents WHERE collection = $1 ORDER BY id",
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
			body    []byte
		)
		if err := rows.Scan(&id, &version, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, docstore.Document{ID: id, Version: docstore.Version(version), Body: body})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// isUniqueViolation matches SQLSTATE 23505 without binding to driver types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
