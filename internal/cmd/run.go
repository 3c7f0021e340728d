package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/willfong/healthreport/internal/config"
	"github.com/willfong/healthreport/internal/database"
	"github.com/willfong/healthreport/internal/export"
	"github.com/willfong/healthreport/internal/logging"
	"github.com/willfong/healthreport/internal/models"
	"github.com/willfong/healthreport/internal/report"
	"github.com/willfong/healthreport/internal/ui"
	"go.uber.org/zap"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run all reports and export the results",
	Long: `Connect to the database, run every report in order, print each
result and write non-empty results to files named after the report.

A failing report is shown and skipped; the remaining reports still run
and the command exits non-zero at the end. Use --fail-fast to stop at
the first failure instead.

File names are the report label lowercased with spaces replaced by
underscores, substituted into --filename-template ("{name}" by default):
  "Billing sample" -> billing_sample.csv
  --filename-template "output_{name}" -> output_billing_sample.csv

Example:
  healthreport run --host db.internal --db clinic --user analyst
  healthreport run --driver mysql --port 3306 --db clinic --user root
  healthreport run --driver sqlite --db ./clinic.db --output-dir reports
  healthreport run --catalog reports.toml --format xlsx`,
	Args: cobra.NoArgs,
	RunE: runReports,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.String("driver", config.DBDriver, "database driver: postgres, mysql or sqlite")
	f.String("host", config.DBHost, "database host")
	f.String("port", config.DBPort, "database port")
	f.String("db", "", "database name (file path for sqlite)")
	f.String("user", "", "database user")
	f.String("password", "", "database password (prefer HEALTHREPORT_DATABASE_PASSWORD)")
	f.String("sslmode", config.DBSSLMode, "postgres sslmode")
	f.String("dsn", "", "full connection string, overrides host/port/db/user/password")
	f.Duration("connect-timeout", config.DBConnectTimeout, "timeout for the initial connection")

	f.StringP("output-dir", "o", config.OutputDir, "directory for report files")
	f.String("filename-template", config.FilenameTemplate, "report file name template, must contain {name}")
	f.String("format", config.OutputFormat, "export format: csv or xlsx")
	f.Bool("positional-header", false, "write column positions (0,1,...) instead of names in the header row")

	f.Duration("query-timeout", 0, "per-query timeout (0 = none)")
	f.Bool("fail-fast", false, "stop at the first failing report")
	f.String("catalog", "", "TOML file with the reports to run instead of the built-in set")

	f.String("log-level", config.LogLevel, "log level: debug, info, warn, error")
	f.String("log-file", "", "write logs to this file instead of stderr")

	bindings := map[string]string{
		"database.driver":          "driver",
		"database.host":            "host",
		"database.port":            "port",
		"database.name":            "db",
		"database.user":            "user",
		"database.password":        "password",
		"database.sslmode":         "sslmode",
		"database.dsn":             "dsn",
		"database.connect_timeout": "connect-timeout",
		"output.dir":               "output-dir",
		"output.filename_template": "filename-template",
		"output.format":            "format",
		"output.positional_header": "positional-header",
		"run.query_timeout":        "query-timeout",
		"run.fail_fast":            "fail-fast",
		"run.catalog":              "catalog",
		"log.level":                "log-level",
		"log.file":                 "log-file",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func runReports(cmd *cobra.Command, args []string) error {
	u := newUI(cmd)
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	specs, err := loadSpecs(cfg)
	if err != nil {
		return err
	}

	writer, err := export.New(cfg.Output.Format)
	if err != nil {
		return err
	}

	runID := logging.NewRunID()
	logger, err := logging.New(cfg.Log.Level, cfg.Log.File, runID)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fmt.Fprintln(out, u.Header("Health Reports"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, u.KeyValue("Database", describeDatabase(cfg.Database)))
	fmt.Fprintln(out, u.KeyValue("Reports", fmt.Sprintf("%d", len(specs))))
	fmt.Fprintln(out, u.KeyValue("Output", filepath.Join(cfg.Output.Dir, cfg.Output.FilenameTemplate+writer.Extension())))
	if cfg.Run.QueryTimeout > 0 {
		fmt.Fprintln(out, u.KeyValue("Timeout", cfg.Run.QueryTimeout.String()))
	}
	if cfg.Run.FailFast {
		fmt.Fprintln(out, u.KeyValue("Mode", "fail fast"))
	}
	fmt.Fprintln(out)

	pool, err := database.Open(cfg.Database)
	if err != nil {
		fmt.Fprintln(errOut, u.Error(fmt.Sprintf("Connection error: %v", err)))
		return errReported
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := report.NewRunner(report.RunnerConfig{
		OutputDir:        cfg.Output.Dir,
		FilenameTemplate: cfg.Output.FilenameTemplate,
		PositionalHeader: cfg.Output.PositionalHeader,
		QueryTimeout:     cfg.Run.QueryTimeout,
		FailFast:         cfg.Run.FailFast,
	}, report.RunnerOptions{
		UI:     u,
		Writer: writer,
		Logger: logger.With(zap.String("driver", cfg.Database.Driver)),
	})

	summary, err := runner.Run(ctx, pool, specs)

	var connErr *report.ConnectionError
	if errors.As(err, &connErr) {
		fmt.Fprintln(errOut, u.Error(fmt.Sprintf("Connection error: %v", connErr.Err)))
		return errReported
	}

	printRunSummary(u, out, summary, pool.Stats())

	if err != nil {
		fmt.Fprintln(errOut, u.Error(err.Error()))
		return errReported
	}
	return nil
}

// loadSpecs returns the catalog file's reports, or the built-in set
func loadSpecs(cfg *config.Config) ([]models.QuerySpec, error) {
	if cfg.Run.Catalog == "" {
		return report.DefaultCatalog(), nil
	}
	return report.LoadCatalog(cfg.Run.Catalog)
}

// describeDatabase renders the connection target without credentials
func describeDatabase(cfg config.DatabaseConfig) string {
	switch {
	case cfg.DSN != "":
		return cfg.Driver + " (dsn)"
	case cfg.Driver == config.DriverSQLite:
		return "sqlite " + cfg.Name
	}
	return fmt.Sprintf("%s %s@%s:%s/%s", cfg.Driver, cfg.User, cfg.Host, cfg.Port, cfg.Name)
}

// printRunSummary prints a styled run summary
func printRunSummary(u *ui.UI, out io.Writer, summary *report.Summary, stats database.PoolStats) {
	fmt.Fprintln(out)
	for _, o := range summary.Outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintln(out, u.TableRow(o.Label, o.Err.Error(), ui.StatusError))
		case o.Path == "":
			fmt.Fprintln(out, u.TableRow(o.Label, "no rows, no file", ui.StatusPending))
		default:
			fmt.Fprintln(out, u.TableRow(o.Label, fmt.Sprintf("%d rows -> %s", o.Rows, o.Path), ui.StatusSuccess))
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, u.ProgressLine("Reports", summary.Succeeded(), summary.Total))

	status := "Success"
	if len(summary.Failed()) > 0 || summary.Aborted {
		status = "Failed"
	}

	items := []ui.KV{
		{Key: "Reports", Value: fmt.Sprintf("%d of %d", len(summary.Outcomes), summary.Total)},
		{Key: "Failed", Value: fmt.Sprintf("%d", len(summary.Failed()))},
		{Key: "Files", Value: fmt.Sprintf("%d", len(summary.Files()))},
		{Key: "Queries", Value: fmt.Sprintf("%d", stats.TotalQueries)},
		{Key: "Avg Latency", Value: stats.AvgLatency.String()},
		{Key: "Duration", Value: summary.Duration.Round(1 * 1e6).String()},
		{Key: "Status", Value: status},
	}

	fmt.Fprintln(out, u.SummaryBox("Run Complete", items))
}
