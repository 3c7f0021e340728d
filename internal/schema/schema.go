// Package schema embeds the healthcare DDL and a deterministic fixture
// data set. The CLI prints them for database setup; tests apply them to an
// in-memory SQLite database.
package schema

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Tables returns the CREATE TABLE statements for patients, doctors,
// appointments, treatments and billing.
func Tables() string {
	return mustRead("sql/schema.sql")
}

// Seed returns the fixture INSERT statements.
func Seed() string {
	return mustRead("sql/seed.sql")
}

func mustRead(name string) string {
	content, err := sqlFS.ReadFile(name)
	if err != nil {
		// Embedded at build time; a miss is a packaging bug.
		panic(fmt.Sprintf("schema: missing embedded file %s: %v", name, err))
	}
	return string(content)
}

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply creates the tables and, when seed is true, loads the fixture rows.
func Apply(ctx context.Context, db Execer, seed bool) error {
	if err := execScript(ctx, db, Tables()); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if !seed {
		return nil
	}
	if err := execScript(ctx, db, Seed()); err != nil {
		return fmt.Errorf("failed to load fixture rows: %w", err)
	}
	return nil
}

// Statements splits a script into individual statements, dropping
// full-line "--" comments. Statement text must not contain literal ';'.
func Statements(script string) []string {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func execScript(ctx context.Context, db Execer, script string) error {
	for _, stmt := range Statements(script) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
