//go:build integration

package schemacheck

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemacheck/internal/validation"
)

func TestValidateDatabaseSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	_, err = conn.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);
		CREATE TABLE posts (
			id INTEGER PRIMARY KEY,
			author_id INTEGER REFERENCES users(id),
			editor_id INTEGER REFERENCES users(id)
		);
		CREATE TABLE schema_migrations (version TEXT);
	`)
	_ = conn.Close()
	if err != nil {
		t.Fatalf("Failed to seed database: %v", err)
	}

	report, err := ValidateDatabase(context.Background(), "sqlite://"+path, nil, &InspectOptions{
		ExcludeTables: []string{"schema_migrations"},
	})
	if err != nil {
		t.Fatalf("ValidateDatabase() error = %v", err)
	}

	if len(report.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(report.Entries))
	}
	s := report.Entries[0].Schema
	if len(s.Models) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(s.Models))
	}

	// Both foreign keys point at users without an alias, so they collide
	errs := report.Entries[0].Errors
	posts := errs.Models["posts"]
	if posts.Associations["posts.author_id"].Alias != validation.NameNotUnique {
		t.Errorf("Expected duplicate association on posts.author_id, got %v", posts.Associations["posts.author_id"].Alias)
	}
	if report.MaxIdentifierLength != validation.DefaultMaxIdentifierLength {
		t.Errorf("Expected default identifier length for SQLite, got %d", report.MaxIdentifierLength)
	}
}
