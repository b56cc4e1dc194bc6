package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/schemacheck/internal/catalog"
)

const varcharType = "varchar"

// PostgresExtractor reads table metadata from one PostgreSQL schema
type PostgresExtractor struct {
	client *PostgresClient
	schema string
}

// NewPostgresExtractor creates an extractor for the given schema, "public" when empty
func NewPostgresExtractor(client *PostgresClient, schemaName string) *PostgresExtractor {
	if schemaName == "" {
		schemaName = "public"
	}
	return &PostgresExtractor{client: client, schema: schemaName}
}

// Extract implements Extractor
func (e *PostgresExtractor) Extract(ctx context.Context, tables []string) (*catalog.Catalog, error) {
	return extract(ctx, e, e.schema, Postgres, tables)
}

func (e *PostgresExtractor) tableNames(ctx context.Context) ([]string, error) {
	rows, err := e.client.GetConnection().Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, e.schema)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// normalizePostgresType maps verbose SQL type names to the short forms used in DDL
func normalizePostgresType(dataType, udtName string, charMaxLength *int) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		if charMaxLength != nil {
			return fmt.Sprintf("varchar(%d)", *charMaxLength)
		}
		return varcharType
	case "character":
		if charMaxLength != nil {
			return fmt.Sprintf("char(%d)", *charMaxLength)
		}
		return "char"
	case "ARRAY":
		// udt_name carries a leading underscore for arrays, e.g. _int4
		if len(udtName) > 0 && udtName[0] == '_' {
			return normalizeUdtName(udtName[1:]) + "[]"
		}
		return "array"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

func normalizeUdtName(udtName string) string {
	switch udtName {
	case "int4":
		return "integer"
	case "int8":
		return "bigint"
	case "int2":
		return "smallint"
	case "float4":
		return "real"
	case "float8":
		return "double precision"
	case "bool":
		return "boolean"
	default:
		return udtName
	}
}

func (e *PostgresExtractor) columns(ctx context.Context, table string) ([]catalog.Column, error) {
	rows, err := e.client.GetConnection().Query(ctx, `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES',
			c.column_default,
			c.udt_name,
			c.character_maximum_length
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`, e.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []catalog.Column
	var enumTypes []string
	for rows.Next() {
		var col catalog.Column
		var dataType, udtName string
		var charMaxLength *int

		if err := rows.Scan(&col.Name, &dataType, &col.Nullable, &col.DefaultValue, &udtName, &charMaxLength); err != nil {
			return nil, err
		}
		col.Type = normalizePostgresType(dataType, udtName, charMaxLength)
		if dataType == "USER-DEFINED" {
			enumTypes = append(enumTypes, udtName)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(enumTypes) == 0 {
		return columns, nil
	}

	labels, err := e.enumLabels(ctx, enumTypes)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		if values, ok := labels[columns[i].Type]; ok {
			columns[i].EnumValues = values
			columns[i].Type = "enum"
		}
	}
	return columns, nil
}

// enumLabels returns the ordered labels of each named enum type
func (e *PostgresExtractor) enumLabels(ctx context.Context, typeNames []string) (map[string][]string, error) {
	rows, err := e.client.GetConnection().Query(ctx, `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_namespace n ON t.typnamespace = n.oid
		WHERE n.nspname = $1 AND t.typname = ANY($2)
		ORDER BY t.typname, e.enumsortorder
	`, e.schema, typeNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make(map[string][]string)
	for rows.Next() {
		var typName, label string
		if err := rows.Scan(&typName, &label); err != nil {
			return nil, err
		}
		labels[typName] = append(labels[typName], label)
	}
	return labels, rows.Err()
}

func (e *PostgresExtractor) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := e.client.GetConnection().Query(ctx, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`, e.schema, table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (e *PostgresExtractor) relations(ctx context.Context, table string) ([]catalog.Relation, error) {
	rows, err := e.client.GetConnection().Query(ctx, `
		SELECT
			kcu.column_name,
			ccu.table_name,
			ccu.column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`, e.schema, table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Relation, error) {
		var rel catalog.Relation
		err := row.Scan(&rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn)
		return rel, err
	})
}

func (e *PostgresExtractor) indexes(ctx context.Context, table string) ([]catalog.Index, error) {
	rows, err := e.client.GetConnection().Query(ctx, `
		SELECT
			i.relname,
			ix.indisunique,
			array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum))
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE t.relkind = 'r'
			AND n.nspname = $1
			AND t.relname = $2
			AND NOT ix.indisprimary
		GROUP BY i.relname, ix.indisunique
		ORDER BY i.relname
	`, e.schema, table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Index, error) {
		var idx catalog.Index
		err := row.Scan(&idx.Name, &idx.IsUnique, &idx.Columns)
		return idx, err
	})
}
