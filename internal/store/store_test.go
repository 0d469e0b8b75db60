package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/HerbHall/printwatch/pkg/plugin"
)

func tempDB(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New(%q): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_creates_database(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNew_invalid_path(t *testing.T) {
	_, err := New("/nonexistent/path/to/db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestTx_commit(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)")
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	err = s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO test (id, name) VALUES (1, 'alice')")
		return err
	})
	if err != nil {
		t.Fatalf("Tx commit: %v", err)
	}

	var name string
	err = s.DB().QueryRowContext(ctx, "SELECT name FROM test WHERE id = 1").Scan(&name)
	if err != nil {
		t.Fatalf("query after commit: %v", err)
	}
	if name != "alice" {
		t.Errorf("got name %q, want %q", name, "alice")
	}
}

func TestTx_rollback(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	_, err := s.DB().ExecContext(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)")
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	err = s.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO test (id, name) VALUES (1, 'bob')")
		if err != nil {
			return err
		}
		return sql.ErrNoRows // Simulate an error to trigger rollback
	})
	if err != sql.ErrNoRows {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}

	var count int
	err = s.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM test").Scan(&count)
	if err != nil {
		t.Fatalf("count after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("got count %d after rollback, want 0", count)
	}
}

func TestMigrate_applies_in_order(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	migrations := []plugin.Migration{
		{
			Version:     1,
			Description: "create printers table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("CREATE TABLE fleet_printers (id TEXT PRIMARY KEY, name TEXT)")
				return err
			},
		},
		{
			Version:     2,
			Description: "add location column",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("ALTER TABLE fleet_printers ADD COLUMN location TEXT")
				return err
			},
		},
	}

	if err := s.Migrate(ctx, "fleet", migrations); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Both migrations applied: the column from v2 exists.
	_, err := s.DB().ExecContext(ctx,
		"INSERT INTO fleet_printers (id, name, location) VALUES ('a', 'p', 'lab')")
	if err != nil {
		t.Errorf("insert using migrated schema: %v", err)
	}
}

func TestMigrate_is_idempotent(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	applied := 0
	migrations := []plugin.Migration{
		{
			Version:     1,
			Description: "create table",
			Up: func(tx *sql.Tx) error {
				applied++
				_, err := tx.Exec("CREATE TABLE fleet_printers (id TEXT PRIMARY KEY)")
				return err
			},
		},
	}

	if err := s.Migrate(ctx, "fleet", migrations); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := s.Migrate(ctx, "fleet", migrations); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if applied != 1 {
		t.Errorf("migration ran %d times, want 1", applied)
	}
}

func TestMigrate_failure_rolls_back(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	migrations := []plugin.Migration{
		{
			Version:     1,
			Description: "broken migration",
			Up: func(tx *sql.Tx) error {
				if _, err := tx.Exec("CREATE TABLE half_done (id TEXT)"); err != nil {
					return err
				}
				return errors.New("boom")
			},
		},
	}

	if err := s.Migrate(ctx, "fleet", migrations); err == nil {
		t.Fatal("expected migration error, got nil")
	}

	// The failed migration must not be recorded as applied.
	var count int
	err := s.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM _migrations WHERE plugin_name = 'fleet'").Scan(&count)
	if err != nil {
		t.Fatalf("query migrations: %v", err)
	}
	if count != 0 {
		t.Errorf("recorded %d migrations after failure, want 0", count)
	}
}

func TestMigrate_separate_plugins(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	mk := func(table string) []plugin.Migration {
		return []plugin.Migration{{
			Version:     1,
			Description: "create " + table,
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec("CREATE TABLE " + table + " (id TEXT PRIMARY KEY)")
				return err
			},
		}}
	}

	if err := s.Migrate(ctx, "fleet", mk("fleet_printers")); err != nil {
		t.Fatalf("migrate fleet: %v", err)
	}
	if err := s.Migrate(ctx, "other", mk("other_things")); err != nil {
		t.Fatalf("migrate other: %v", err)
	}
}

func TestCheckVersion_first_run(t *testing.T) {
	s := tempDB(t)
	if err := s.CheckVersion(context.Background(), "1.2.0"); err != nil {
		t.Fatalf("CheckVersion first run: %v", err)
	}
}

func TestCheckVersion_rejects_older_binary(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	if err := s.CheckVersion(ctx, "2.0.0"); err != nil {
		t.Fatalf("record version: %v", err)
	}
	err := s.CheckVersion(ctx, "1.0.0")
	if !errors.Is(err, ErrNewerSchema) {
		t.Errorf("err = %v, want ErrNewerSchema", err)
	}
}

func TestCheckVersion_upgrades_stored_version(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	if err := s.CheckVersion(ctx, "1.0.0"); err != nil {
		t.Fatalf("record version: %v", err)
	}
	if err := s.CheckVersion(ctx, "1.1.0"); err != nil {
		t.Fatalf("upgrade version: %v", err)
	}

	var stored string
	if err := s.DB().QueryRowContext(ctx,
		"SELECT app_version FROM _schema_meta WHERE id = 1").Scan(&stored); err != nil {
		t.Fatalf("query version: %v", err)
	}
	if stored != "1.1.0" {
		t.Errorf("stored = %q, want 1.1.0", stored)
	}
}

func TestCheckVersion_dev_always_passes(t *testing.T) {
	s := tempDB(t)
	ctx := context.Background()

	if err := s.CheckVersion(ctx, "9.9.9"); err != nil {
		t.Fatalf("record version: %v", err)
	}
	if err := s.CheckVersion(ctx, "dev"); err != nil {
		t.Errorf("dev binary must open any database: %v", err)
	}
}
