package schema

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestStatements(t *testing.T) {
	script := `-- header comment
CREATE TABLE a (id INTEGER);

  -- indented comment
INSERT INTO a VALUES (1);
`
	stmts := Statements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INTEGER)", stmts[0])
	assert.Equal(t, "INSERT INTO a VALUES (1)", stmts[1])
}

func TestEmbeddedScripts(t *testing.T) {
	assert.Contains(t, Tables(), "CREATE TABLE billing")
	assert.Len(t, Statements(Tables()), 5)
	assert.Contains(t, Seed(), "INSERT INTO doctors")
}

func TestApply_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, Apply(ctx, db, true))

	counts := map[string]int{
		"patients":     5,
		"doctors":      5,
		"appointments": 6,
		"treatments":   4,
		"billing":      4,
	}
	for table, want := range counts {
		var got int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got))
		assert.Equal(t, want, got, table)
	}
}

func TestApply_TablesOnly(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, Apply(ctx, db, false))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patients").Scan(&n))
	assert.Zero(t, n)
}
