package report

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/willfong/healthreport/internal/export"
	"github.com/willfong/healthreport/internal/models"
	"github.com/willfong/healthreport/internal/ui"
)

// Querier executes a parameterless SELECT. *sql.DB and *database.Pool
// both satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Connector is a database session that must be verified before use and
// released afterwards.
type Connector interface {
	Querier
	Connect(ctx context.Context) error
	Close() error
}

// RunnerConfig holds the output and execution settings for a run
type RunnerConfig struct {
	// Directory report files are written to
	OutputDir string

	// FilenameTemplate containing {name}
	FilenameTemplate string

	// PositionalHeader writes column indexes instead of names
	PositionalHeader bool

	// QueryTimeout applies to each query (0 = none)
	QueryTimeout time.Duration

	// FailFast stops after the first failed report
	FailFast bool
}

// RunnerOptions holds collaborators that are not configuration
type RunnerOptions struct {
	UI     *ui.UI
	Writer export.Writer
	Logger *zap.Logger
}

// Runner executes reports one after another over a single session.
type Runner struct {
	cfg    RunnerConfig
	ui     *ui.UI
	writer export.Writer
	logger *zap.Logger
}

// Outcome is the result of one report.
type Outcome struct {
	Label    string
	Rows     int
	Path     string // empty when no file was written
	Duration time.Duration
	Err      error
}

// Summary collects the outcomes of a run in execution order.
type Summary struct {
	Outcomes []Outcome
	Total    int
	Aborted  bool
	Duration time.Duration
}

// Failed returns the labels of reports that failed.
func (s *Summary) Failed() []string {
	var failed []string
	for _, o := range s.Outcomes {
		if o.Err != nil {
			failed = append(failed, o.Label)
		}
	}
	return failed
}

// Succeeded returns the number of reports that completed without error.
func (s *Summary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Files returns the paths written, in execution order.
func (s *Summary) Files() []string {
	var files []string
	for _, o := range s.Outcomes {
		if o.Path != "" {
			files = append(files, o.Path)
		}
	}
	return files
}

// NewRunner creates a runner. Missing options fall back to plain stdout
// output, CSV export and a no-op logger.
func NewRunner(cfg RunnerConfig, opts RunnerOptions) *Runner {
	if opts.UI == nil {
		opts.UI = ui.New()
	}
	if opts.Writer == nil {
		opts.Writer = &export.CSVWriter{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	return &Runner{
		cfg:    cfg,
		ui:     opts.UI,
		writer: opts.Writer,
		logger: opts.Logger,
	}
}

// Run connects, executes every spec and closes the session on every path.
// A failed connect returns a *ConnectionError before any report runs.
func (r *Runner) Run(ctx context.Context, conn Connector, specs []models.QuerySpec) (*Summary, error) {
	defer func() {
		if err := conn.Close(); err != nil {
			r.logger.Warn("closing database connection", zap.Error(err))
		}
	}()

	spin := r.ui.NewSpinner("Connecting to database")
	spin.Start()
	if err := conn.Connect(ctx); err != nil {
		spin.Error("failed")
		r.logger.Error("database connection failed", zap.Error(err))
		return nil, &ConnectionError{Err: err}
	}
	spin.Success("connected")
	r.logger.Info("connected to database")

	summary, err := r.RunAll(ctx, conn, specs)

	fmt.Fprintln(r.ui.Out)
	fmt.Fprintln(r.ui.Out, r.ui.Success("Connection closed"))
	return summary, err
}

// RunAll executes specs in declaration order, each at most once. A failing
// report is recorded and the run continues unless FailFast is set. The
// returned error is a *RunError when any report failed.
func (r *Runner) RunAll(ctx context.Context, db Querier, specs []models.QuerySpec) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Total: len(specs)}

	for _, labels := range Collisions(specs) {
		r.logger.Warn("report labels share an output file; the later report wins",
			zap.Strings("labels", labels))
	}

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run cancelled", zap.Error(err))
			summary.Aborted = true
			break
		}

		outcome := r.runOne(ctx, db, spec)
		summary.Outcomes = append(summary.Outcomes, outcome)

		if outcome.Err != nil && r.cfg.FailFast {
			summary.Aborted = true
			break
		}
	}
	summary.Duration = time.Since(start)

	if failed := summary.Failed(); len(failed) > 0 || summary.Aborted {
		return summary, &RunError{Failed: failed, Total: summary.Total, Aborted: summary.Aborted}
	}
	return summary, nil
}

func (r *Runner) runOne(ctx context.Context, db Querier, spec models.QuerySpec) Outcome {
	start := time.Now()
	outcome := Outcome{Label: spec.Label}
	log := r.logger.With(zap.String("report", spec.Label))

	fmt.Fprintln(r.ui.Out, r.ui.Section(spec.Label))

	rs, err := r.fetch(ctx, db, spec)
	if err != nil {
		outcome.Err = &QueryError{Label: spec.Label, Err: err}
		outcome.Duration = time.Since(start)
		fmt.Fprintln(r.ui.Out, r.ui.Error(err.Error()))
		log.Error("query failed", zap.Error(err), zap.Duration("duration", outcome.Duration))
		return outcome
	}
	outcome.Rows = rs.Len()

	r.render(rs)

	if !rs.Empty() {
		path := filepath.Join(r.cfg.OutputDir, FileName(r.cfg.FilenameTemplate, spec.Label, r.writer.Extension()))
		if err := r.writer.Write(path, rs.Header(r.cfg.PositionalHeader), rs); err != nil {
			outcome.Err = &ExportError{Label: spec.Label, Path: path, Err: err}
			outcome.Duration = time.Since(start)
			fmt.Fprintln(r.ui.Out, r.ui.Error(outcome.Err.Error()))
			log.Error("export failed", zap.String("path", path), zap.Error(err))
			return outcome
		}
		outcome.Path = path
		fmt.Fprintln(r.ui.Out, r.ui.Muted(fmt.Sprintf("saved %d rows to %s", outcome.Rows, path)))
	}

	outcome.Duration = time.Since(start)
	log.Debug("report complete",
		zap.Int("rows", outcome.Rows),
		zap.String("path", outcome.Path),
		zap.Duration("duration", outcome.Duration))
	return outcome
}

func (r *Runner) fetch(ctx context.Context, db Querier, spec models.QuerySpec) (*models.ResultSet, error) {
	if r.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.QueryTimeout)
		defer cancel()
	}

	rows, err := db.QueryContext(ctx, spec.Text)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return ScanAll(rows)
}

// ScanAll reads every remaining row into memory.
func ScanAll(rows *sql.Rows) (*models.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := &models.ResultSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(rs.Rows)+1, err)
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

// render prints the result grid, or a placeholder for an empty result.
func (r *Runner) render(rs *models.ResultSet) {
	if rs.Empty() {
		fmt.Fprintln(r.ui.Out, r.ui.NoRows())
		return
	}

	cells := make([][]string, len(rs.Rows))
	for i, row := range rs.Rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = export.FormatValue(v)
		}
	}
	fmt.Fprintln(r.ui.Out, r.ui.Table(rs.Header(false), cells))
}
