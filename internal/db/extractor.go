package db

import (
	"context"
	"fmt"

	"github.com/tordrt/schemacheck/internal/catalog"
)

// Dialect names a supported database engine
type Dialect string

// Supported dialects
const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// MaxIdentifierLength returns the longest table or column name the dialect
// accepts. Zero means the engine imposes no practical limit.
func (d Dialect) MaxIdentifierLength() int {
	switch d {
	case Postgres:
		return 63
	case MySQL:
		return 64
	default:
		return 0
	}
}

// Extractor reads table metadata from a live database
type Extractor interface {
	// Extract returns the requested tables, or every base table when tables is empty
	Extract(ctx context.Context, tables []string) (*catalog.Catalog, error)
}

// tableSource is implemented per dialect and supplies the raw metadata that
// extract assembles into a catalog.
type tableSource interface {
	tableNames(ctx context.Context) ([]string, error)
	columns(ctx context.Context, table string) ([]catalog.Column, error)
	primaryKey(ctx context.Context, table string) ([]string, error)
	relations(ctx context.Context, table string) ([]catalog.Relation, error)
	indexes(ctx context.Context, table string) ([]catalog.Index, error)
}

func extract(ctx context.Context, src tableSource, name string, dialect Dialect, requested []string) (*catalog.Catalog, error) {
	names := requested
	if len(names) == 0 {
		var err error
		names, err = src.tableNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	c := &catalog.Catalog{Name: name, Dialect: string(dialect), Tables: make([]catalog.Table, 0, len(names))}
	for _, tableName := range names {
		table, err := extractTable(ctx, src, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		c.Tables = append(c.Tables, *table)
	}

	return c, nil
}

func extractTable(ctx context.Context, src tableSource, name string) (*catalog.Table, error) {
	table := &catalog.Table{Name: name}

	var err error
	if table.Columns, err = src.columns(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if table.PrimaryKey, err = src.primaryKey(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	if table.Relations, err = src.relations(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	if table.Indexes, err = src.indexes(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}

	markUniqueColumns(table)
	return table, nil
}

// markUniqueColumns flags columns covered by a single-column unique index.
// A lone primary key column is left alone since uniqueness is implied.
func markUniqueColumns(t *catalog.Table) {
	for _, idx := range t.Indexes {
		if !idx.IsUnique || len(idx.Columns) != 1 {
			continue
		}
		col := idx.Columns[0]
		if len(t.PrimaryKey) == 1 && t.PrimaryKey[0] == col {
			continue
		}
		for i := range t.Columns {
			if t.Columns[i].Name == col {
				t.Columns[i].IsUnique = true
			}
		}
	}
}
