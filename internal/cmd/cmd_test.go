package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willfong/healthreport/internal/schema"
)

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--no-color"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return out.String(), errOut.String(), err
}

func seededDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clinic.db")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, schema.Apply(context.Background(), db, true))
	return path
}

func TestRunCommand_SQLite(t *testing.T) {
	dbPath := seededDatabase(t)
	outDir := t.TempDir()

	out, _, err := execute(t, "run", "--driver", "sqlite", "--db", dbPath, "--output-dir", outDir)
	require.NoError(t, err)

	assert.Contains(t, out, "▶ Billing sample")
	assert.Contains(t, out, "Connection closed")
	assert.Contains(t, out, "Run Complete")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
	assert.FileExists(t, filepath.Join(outDir, "patients_by_gender.csv"))
}

func TestRunCommand_ConnectionFailure(t *testing.T) {
	outDir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "clinic.db")

	out, errOut, err := execute(t, "run", "--driver", "sqlite", "--db", missing, "--output-dir", outDir)
	require.ErrorIs(t, err, errReported)

	assert.Contains(t, errOut, "Connection error:")
	assert.NotContains(t, out, "▶ ")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no report files may be written when the connection fails")
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	_, errOut, err := execute(t, "run", "--driver", "oracle", "--output-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, errOut, "database.driver must be one of")
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := execute(t, "schema", "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE patients")
	assert.NotContains(t, out, "INSERT INTO")

	_, errOut, err := execute(t, "schema", "views")
	require.Error(t, err)
	assert.Contains(t, errOut, "unknown schema type")
}

func TestListCommand(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Doctors experience stats")
	assert.Contains(t, out, "doctors_experience_stats.csv")
}
