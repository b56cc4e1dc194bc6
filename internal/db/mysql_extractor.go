package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/schemacheck/internal/catalog"
)

// MySQLExtractor reads table metadata from one MySQL database
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{client: client, schemaName: schemaName}
}

// ParseDatabaseName returns the database named in a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("MySQL DSN does not name a database")
	}
	return cfg.DBName, nil
}

// Extract implements Extractor
func (e *MySQLExtractor) Extract(ctx context.Context, tables []string) (*catalog.Catalog, error) {
	return extract(ctx, e, e.schemaName, MySQL, tables)
}

func (e *MySQLExtractor) tableNames(ctx context.Context) ([]string, error) {
	return e.queryStrings(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, e.schemaName)
}

func (e *MySQLExtractor) columns(ctx context.Context, table string) ([]catalog.Column, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, `
		SELECT column_name, column_type, is_nullable, column_default, data_type
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, e.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []catalog.Column
	for rows.Next() {
		var col catalog.Column
		var nullable, dataType string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &nullable, &defaultVal, &dataType); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		if dataType == "enum" {
			values, err := parseEnumValues(col.Type)
			if err != nil {
				return nil, err
			}
			col.EnumValues = values
			col.Type = "enum"
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// parseEnumValues splits a column type such as enum('a','b') into its labels.
// Quotes inside labels are doubled by MySQL.
func parseEnumValues(columnType string) ([]string, error) {
	start := strings.Index(columnType, "(")
	end := strings.LastIndex(columnType, ")")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("invalid enum type format: %s", columnType)
	}

	var values []string
	var label strings.Builder
	inQuote := false
	body := columnType[start+1 : end]
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			label.WriteByte('\'')
			i++
		case ch == '\'':
			inQuote = !inQuote
			if !inQuote {
				values = append(values, label.String())
				label.Reset()
			}
		case inQuote:
			label.WriteByte(ch)
		}
	}
	return values, nil
}

func (e *MySQLExtractor) primaryKey(ctx context.Context, table string) ([]string, error) {
	return e.queryStrings(ctx, `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ? AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`, e.schemaName, table)
}

func (e *MySQLExtractor) relations(ctx context.Context, table string) ([]catalog.Relation, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, `
		SELECT column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position
	`, e.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []catalog.Relation
	for rows.Next() {
		var rel catalog.Relation
		if err := rows.Scan(&rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn); err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}

func (e *MySQLExtractor) indexes(ctx context.Context, table string) ([]catalog.Index, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, `
		SELECT index_name, non_unique = 0, GROUP_CONCAT(column_name ORDER BY seq_in_index)
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ? AND index_name != 'PRIMARY'
		GROUP BY index_name, non_unique
		ORDER BY index_name
	`, e.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []catalog.Index
	for rows.Next() {
		var idx catalog.Index
		var columnNames string
		if err := rows.Scan(&idx.Name, &idx.IsUnique, &columnNames); err != nil {
			return nil, err
		}
		idx.Columns = strings.Split(columnNames, ",")
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

func (e *MySQLExtractor) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := e.client.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
