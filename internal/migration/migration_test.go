package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)

	fsys := fstest.MapFS{
		"001_first.sql":  {Data: []byte(`CREATE TABLE first (id INTEGER PRIMARY KEY);`)},
		"002_second.sql": {Data: []byte(`CREATE TABLE second (id INTEGER PRIMARY KEY);`)},
	}

	runner := NewRunner(db, fsys)
	applied, err := runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 applied, got %d", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("failed to get version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	// re-running is a no-op
	applied, err = runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("failed to re-apply: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 applied on re-run, got %d", applied)
	}

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("expected validation to pass: %v", err)
	}
}

func TestApplyMigrationsPartialUpgrade(t *testing.T) {
	db := openTestDB(t)

	fsys := fstest.MapFS{
		"001_first.sql": {Data: []byte(`CREATE TABLE first (id INTEGER PRIMARY KEY);`)},
	}
	runner := NewRunner(db, fsys)
	if _, err := runner.ApplyMigrations(); err != nil {
		t.Fatalf("failed to apply first migration: %v", err)
	}

	// a new release ships migration 2
	fsys["002_second.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE second (id INTEGER PRIMARY KEY);`)}
	runner = NewRunner(db, fsys)

	applied, err := runner.ApplyMigrations()
	if err != nil {
		t.Fatalf("failed to apply pending migration: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected 1 applied, got %d", applied)
	}
}

func TestValidateVersionOutOfDate(t *testing.T) {
	db := openTestDB(t)

	fsys := fstest.MapFS{
		"001_first.sql": {Data: []byte(`CREATE TABLE first (id INTEGER PRIMARY KEY);`)},
	}
	runner := NewRunner(db, fsys)

	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected fresh database to fail validation")
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	db := openTestDB(t)

	fsys := fstest.MapFS{
		"init.sql": {Data: []byte(`CREATE TABLE x (id INTEGER);`)},
	}
	runner := NewRunner(db, fsys)

	if _, err := runner.ReadMigrationFiles(); err == nil {
		t.Error("expected error for filename without version prefix")
	}
}
