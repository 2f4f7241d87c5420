package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"users",
		"api_keys",
		"teams",
		"team_members",
		"projects",
		"experiments",
		"insights",
		"canvases",
		"timeline_events",
		"subscription_tiers",
		"user_subscriptions",
		"schema_migrations",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Running again is a no-op.
	require.NoError(t, db.Migrate(context.Background()))
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM t WHERE a = ? AND b = ?"
	require.Equal(t, query, rebind(DialectSQLite, query))
	require.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", rebind(DialectPostgres, query))

	require.Equal(t, "SELECT 1", rebind(DialectPostgres, "SELECT 1"))

	wide := "INSERT INTO t VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	require.Equal(t, "INSERT INTO t VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)", rebind(DialectPostgres, wide))

	require.Equal(t, "UPDATE t SET name = $1 WHERE name = 'é' AND id = $2", rebind(DialectPostgres, "UPDATE t SET name = ? WHERE name = 'é' AND id = ?"))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("")
	require.NoError(t, err)
	require.Equal(t, DialectSQLite, d)

	d, err = ParseDialect("PostgreSQL")
	require.NoError(t, err)
	require.Equal(t, DialectPostgres, d)

	_, err = ParseDialect("mysql")
	require.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("-- header\nCREATE TABLE a (id TEXT);\n\n-- only a comment\n;\nINSERT INTO a VALUES ('x');\n")
	require.Equal(t, []string{"-- header\nCREATE TABLE a (id TEXT)", "INSERT INTO a VALUES ('x')"}, stmts)
}
