//go:build integration

package db

import (
	"testing"

	"github.com/tordrt/schemacheck/internal/catalog"
)

// fixtureTables is the set of tables every integration database is seeded with
var fixtureTables = []string{"order_items", "orders", "products", "users"}

func findTable(c *catalog.Catalog, name string) *catalog.Table {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}

func findColumn(t *catalog.Table, name string) *catalog.Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// verifyFixture checks the shape shared by every seeded database
func verifyFixture(t *testing.T, c *catalog.Catalog) {
	t.Helper()

	if len(c.Tables) != len(fixtureTables) {
		t.Fatalf("Expected %d tables, got %d", len(fixtureTables), len(c.Tables))
	}
	for _, name := range fixtureTables {
		if findTable(c, name) == nil {
			t.Errorf("Expected table %s not found", name)
		}
	}

	users := findTable(c, "users")
	if users == nil {
		t.Fatal("users table not found")
	}
	if len(users.PrimaryKey) != 1 || users.PrimaryKey[0] != "id" {
		t.Errorf("Expected primary key [id], got %v", users.PrimaryKey)
	}
	if col := findColumn(users, "username"); col == nil || !col.IsUnique {
		t.Error("Expected username to be unique")
	}

	orders := findTable(c, "orders")
	found := false
	for _, rel := range orders.Relations {
		if rel.SourceColumn == "user_id" && rel.TargetTable == "users" {
			found = true
		}
	}
	if !found {
		t.Error("Expected foreign key orders.user_id -> users")
	}

	items := findTable(c, "order_items")
	if !catalog.IsJoinTable(items) {
		t.Error("Expected order_items to be detected as a join table")
	}
}
