package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/tordrt/schemacheck/internal/catalog"
)

// SQLiteExtractor reads table metadata from a SQLite database file
type SQLiteExtractor struct {
	client *SQLiteClient
	name   string
}

// NewSQLiteExtractor creates a new SQLite extractor. The catalog is named
// after the database file without its extension.
func NewSQLiteExtractor(client *SQLiteClient, path string) *SQLiteExtractor {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &SQLiteExtractor{client: client, name: name}
}

// Extract implements Extractor
func (e *SQLiteExtractor) Extract(ctx context.Context, tables []string) (*catalog.Catalog, error) {
	return extract(ctx, e, e.name, SQLite, tables)
}

func (e *SQLiteExtractor) tableNames(ctx context.Context) ([]string, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// tableInfo holds one row of pragma_table_info
type tableInfo struct {
	column catalog.Column
	pk     int
}

func (e *SQLiteExtractor) tableInfo(ctx context.Context, table string) ([]tableInfo, error) {
	rows, err := e.client.GetDB().QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var info []tableInfo
	for rows.Next() {
		var row tableInfo
		var notNull int
		var defaultValue sql.NullString

		if err := rows.Scan(&row.column.Name, &row.column.Type, &notNull, &defaultValue, &row.pk); err != nil {
			return nil, err
		}
		row.column.Nullable = notNull == 0
		if defaultValue.Valid {
			row.column.DefaultValue = &defaultValue.String
		}
		info = append(info, row)
	}
	return info, rows.Err()
}

func (e *SQLiteExtractor) columns(ctx context.Context, table string) ([]catalog.Column, error) {
	info, err := e.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	columns := make([]catalog.Column, 0, len(info))
	for _, row := range info {
		// SQLite lets primary key columns hold NULL unless declared otherwise,
		// but an INTEGER PRIMARY KEY aliases rowid and can never be NULL.
		if row.pk > 0 && strings.EqualFold(row.column.Type, "integer") {
			row.column.Nullable = false
		}
		columns = append(columns, row.column)
	}
	return columns, nil
}

func (e *SQLiteExtractor) primaryKey(ctx context.Context, table string) ([]string, error) {
	info, err := e.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	// pk holds the 1-based position within the key
	ordered := make([]string, len(info))
	count := 0
	for _, row := range info {
		if row.pk > 0 && row.pk <= len(info) {
			ordered[row.pk-1] = row.column.Name
			count++
		}
	}
	return ordered[:count], nil
}

func (e *SQLiteExtractor) relations(ctx context.Context, table string) ([]catalog.Relation, error) {
	rows, err := e.client.GetDB().QueryContext(ctx,
		`SELECT "table", "from", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []catalog.Relation
	for rows.Next() {
		var rel catalog.Relation
		var to sql.NullString
		if err := rows.Scan(&rel.TargetTable, &rel.SourceColumn, &to); err != nil {
			return nil, err
		}
		// A missing target column refers to the parent's primary key
		rel.TargetColumn = to.String
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}

func (e *SQLiteExtractor) indexes(ctx context.Context, table string) ([]catalog.Index, error) {
	rows, err := e.client.GetDB().QueryContext(ctx,
		`SELECT name, "unique" FROM pragma_index_list(?) WHERE origin != 'pk' ORDER BY name`, table)
	if err != nil {
		return nil, err
	}

	var indexes []catalog.Index
	for rows.Next() {
		var idx catalog.Index
		if err := rows.Scan(&idx.Name, &idx.IsUnique); err != nil {
			rows.Close()
			return nil, err
		}
		indexes = append(indexes, idx)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range indexes {
		cols, err := e.indexColumns(ctx, indexes[i].Name)
		if err != nil {
			return nil, err
		}
		indexes[i].Columns = cols
	}
	return indexes, nil
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := e.client.GetDB().QueryContext(ctx,
		`SELECT name FROM pragma_index_info(?) ORDER BY seqno`, index)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		// Expression indexes report NULL column names
		if name.Valid {
			cols = append(cols, name.String)
		}
	}
	return cols, rows.Err()
}
