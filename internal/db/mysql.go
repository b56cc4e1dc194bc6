package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient wraps a small connection pool for information_schema queries
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient opens a pool from a go-sql-driver DSN such as
// user:pass@tcp(host:3306)/shop.
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = connectTimeout
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(2)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// Close closes the pool
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying pool
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}
