package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemacheck/internal/catalog"
)

func TestDialectMaxIdentifierLength(t *testing.T) {
	assert.Equal(t, 63, Postgres.MaxIdentifierLength())
	assert.Equal(t, 64, MySQL.MaxIdentifierLength())
	assert.Equal(t, 0, SQLite.MaxIdentifierLength())
}

func TestParseDatabaseName(t *testing.T) {
	name, err := ParseDatabaseName("root:secret@tcp(localhost:3306)/shop?parseTime=true")
	require.NoError(t, err)
	assert.Equal(t, "shop", name)

	_, err = ParseDatabaseName("root:secret@tcp(localhost:3306)/")
	assert.Error(t, err)

	_, err = ParseDatabaseName("not a dsn")
	assert.Error(t, err)
}

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		columnType string
		want       []string
	}{
		{"enum('open','paid')", []string{"open", "paid"}},
		{"enum('a, b','c')", []string{"a, b", "c"}},
		{"enum('it''s')", []string{"it's"}},
	}

	for _, tt := range tests {
		got, err := parseEnumValues(tt.columnType)
		require.NoError(t, err, tt.columnType)
		assert.Equal(t, tt.want, got, tt.columnType)
	}

	_, err := parseEnumValues("enum")
	assert.Error(t, err)
}

func TestNormalizePostgresType(t *testing.T) {
	length := 120
	assert.Equal(t, "varchar(120)", normalizePostgresType("character varying", "varchar", &length))
	assert.Equal(t, "varchar", normalizePostgresType("character varying", "varchar", nil))
	assert.Equal(t, "timestamptz", normalizePostgresType("timestamp with time zone", "timestamptz", nil))
	assert.Equal(t, "integer[]", normalizePostgresType("ARRAY", "_int4", nil))
	assert.Equal(t, "mood", normalizePostgresType("USER-DEFINED", "mood", nil))
	assert.Equal(t, "numeric", normalizePostgresType("numeric", "numeric", nil))
}

func TestMarkUniqueColumns(t *testing.T) {
	table := &catalog.Table{
		Columns:    []catalog.Column{{Name: "id"}, {Name: "email"}, {Name: "first"}, {Name: "last"}},
		PrimaryKey: []string{"id"},
		Indexes: []catalog.Index{
			{Name: "users_id", Columns: []string{"id"}, IsUnique: true},
			{Name: "users_email", Columns: []string{"email"}, IsUnique: true},
			{Name: "users_name", Columns: []string{"first", "last"}, IsUnique: true},
		},
	}

	markUniqueColumns(table)

	assert.False(t, table.Columns[0].IsUnique)
	assert.True(t, table.Columns[1].IsUnique)
	assert.False(t, table.Columns[2].IsUnique)
	assert.False(t, table.Columns[3].IsUnique)
}
