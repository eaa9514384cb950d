package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTempDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsRunsOnce(t *testing.T) {
	t.Parallel()

	migrationFS := fstest.MapFS{
		"0001_init.sql": {Data: []byte("CREATE TABLE widgets (id TEXT PRIMARY KEY);")},
		"notes.txt":     {Data: []byte("ignored")},
	}
	sqlDB := openTempDB(t)

	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	// A second run must skip the already-applied file.
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one recorded migration, got %d", count)
	}
	if _, err := sqlDB.Exec("INSERT INTO widgets (id) VALUES ('w1')"); err != nil {
		t.Fatalf("expected widgets table to exist: %v", err)
	}
}

func TestApplyMigrationsOrdersLexically(t *testing.T) {
	t.Parallel()

	migrationFS := fstest.MapFS{
		"0002_add_column.sql": {Data: []byte("ALTER TABLE widgets ADD COLUMN name TEXT;")},
		"0001_init.sql":       {Data: []byte("CREATE TABLE widgets (id TEXT PRIMARY KEY);")},
	}
	sqlDB := openTempDB(t)

	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := sqlDB.Exec("INSERT INTO widgets (id, name) VALUES ('w1', 'first')"); err != nil {
		t.Fatalf("expected both migrations applied: %v", err)
	}
}

func TestApplyMigrationsRejectsBrokenSQL(t *testing.T) {
	t.Parallel()

	migrationFS := fstest.MapFS{
		"0001_broken.sql": {Data: []byte("CREATE TABLEE nope;")},
	}
	if err := ApplyMigrations(openTempDB(t), migrationFS); err == nil {
		t.Fatal("expected error for broken migration")
	}
}
