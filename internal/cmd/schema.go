package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/willfong/healthreport/internal/schema"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Output the healthcare schema and fixture data",
	Long: `Output the SQL for setting up a database the reports can run against.

Available types:
  full      Tables followed by fixture rows (default)
  tables    CREATE TABLE statements for patients, doctors, appointments,
            treatments and billing
  seed      INSERT statements with a small deterministic data set

The DDL is portable across PostgreSQL, MySQL 8+ and SQLite.

Examples:
  healthreport schema tables | psql clinic
  healthreport schema full | sqlite3 clinic.db
  healthreport schema seed -o seed.sql`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"full", "tables", "seed"},
	RunE:      runSchema,
}

var schemaOutputFile string

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&schemaOutputFile, "output", "o", "", "output file (default: stdout)")
}

func runSchema(cmd *cobra.Command, args []string) error {
	u := newUI(cmd)

	schemaType := "full"
	if len(args) > 0 {
		schemaType = args[0]
	}

	var content string
	switch schemaType {
	case "full":
		content = schema.Tables() + "\n" + schema.Seed()
	case "tables":
		content = schema.Tables()
	case "seed":
		content = schema.Seed()
	default:
		return fmt.Errorf("unknown schema type '%s' (valid types: full, tables, seed)", schemaType)
	}

	if schemaOutputFile == "" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(schemaOutputFile)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	if err := os.WriteFile(schemaOutputFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), u.Success("Schema written to: "+schemaOutputFile))
	return nil
}
