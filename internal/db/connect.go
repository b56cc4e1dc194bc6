package db

import (
	"context"
	"fmt"
)

// Connection pairs an extractor with the client it reads from
type Connection struct {
	Extractor
	Dialect Dialect
	close   func() error
}

// Close releases the underlying client
func (c *Connection) Close() error {
	return c.close()
}

// Open connects to a database of the given dialect. schemaName selects the
// PostgreSQL schema or MySQL database; when empty it defaults to "public"
// for PostgreSQL and to the database named in the DSN for MySQL.
func Open(ctx context.Context, dialect Dialect, dsn, schemaName string) (*Connection, error) {
	switch dialect {
	case Postgres:
		client, err := NewPostgresClient(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return &Connection{
			Extractor: NewPostgresExtractor(client, schemaName),
			Dialect:   dialect,
			close:     func() error { return client.Close(ctx) },
		}, nil

	case MySQL:
		if schemaName == "" {
			name, err := ParseDatabaseName(dsn)
			if err != nil {
				return nil, fmt.Errorf("failed to determine database name: %w", err)
			}
			schemaName = name
		}
		client, err := NewMySQLClient(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return &Connection{
			Extractor: NewMySQLExtractor(client, schemaName),
			Dialect:   dialect,
			close:     client.Close,
		}, nil

	case SQLite:
		client, err := NewSQLiteClient(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return &Connection{
			Extractor: NewSQLiteExtractor(client, dsn),
			Dialect:   dialect,
			close:     client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", dialect)
	}
}
