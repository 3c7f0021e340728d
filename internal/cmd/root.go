package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willfong/healthreport/internal/config"
	"github.com/willfong/healthreport/internal/ui"
)

var verbose bool
var noColor bool
var configFile string

// v holds flag, environment and file configuration for all commands
var v = config.NewViper()

// errReported signals that the command already printed its diagnostics
var errReported = errors.New("error already reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "healthreport",
	Short:   "Healthcare analytics report runner",
	Version: Version,
	Long: `Run the predefined healthcare analytics queries and export the results.

Each report (billing, doctors, patients, appointments, treatments) is
executed in order against the configured database, printed as a table
and written to <report_name>.csv in the output directory.

Connection settings come from flags, HEALTHREPORT_* environment
variables or a config file. Passwords belong in the environment:

  export HEALTHREPORT_DATABASE_PASSWORD=...

Example usage:
  healthreport run --host localhost --db clinic --user analyst
  healthreport run --filename-template "output_{name}" --format xlsx
  healthreport list
  healthreport schema full | psql clinic`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		u := newUI(rootCmd)
		fmt.Fprintln(rootCmd.ErrOrStderr(), u.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and animations")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, toml or json)")

	// Silence usage and cobra's own error line - Execute prints styled errors
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	// Set version template
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// newUI returns a terminal UI writing to the command's output stream
func newUI(cmd *cobra.Command) *ui.UI {
	u := ui.New()
	if noColor {
		u.SetNoColor(true)
	}
	u.Out = cmd.OutOrStdout()
	return u
}

// loadConfig merges the config file, environment and flags, then validates
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
