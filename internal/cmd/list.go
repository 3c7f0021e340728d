package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willfong/healthreport/internal/config"
	"github.com/willfong/healthreport/internal/report"
)

var listShowSQL bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the reports and the files they produce",
	Long: `List the reports in execution order together with the file each one
writes. The catalog, filename template and format come from the
environment or config file, as for the run command.

Example:
  healthreport list
  healthreport list --sql
  HEALTHREPORT_OUTPUT_FILENAME_TEMPLATE="output_{name}" healthreport list`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listShowSQL, "sql", false, "include the SQL text")
}

func runList(cmd *cobra.Command, args []string) error {
	u := newUI(cmd)
	out := cmd.OutOrStdout()

	// Listing needs no database settings, so only the output side is validated
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}

	specs, err := loadSpecs(cfg)
	if err != nil {
		return err
	}

	ext := ".csv"
	if cfg.Output.Format == config.FormatXLSX {
		ext = ".xlsx"
	}

	headers := []string{"#", "Report", "File"}
	if listShowSQL {
		headers = append(headers, "SQL")
	}

	rows := make([][]string, 0, len(specs))
	for i, spec := range specs {
		row := []string{
			fmt.Sprintf("%d", i+1),
			spec.Label,
			report.FileName(cfg.Output.FilenameTemplate, spec.Label, ext),
		}
		if listShowSQL {
			row = append(row, spec.Text)
		}
		rows = append(rows, row)
	}

	fmt.Fprintln(out, u.Table(headers, rows))

	for _, labels := range report.Collisions(specs) {
		fmt.Fprintln(out, u.Warning(fmt.Sprintf("reports %q write the same file; the later one wins", labels)))
	}
	return nil
}
