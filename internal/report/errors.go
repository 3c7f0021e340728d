package report

import (
	"fmt"
	"strings"
)

// ConnectionError reports that the database could not be reached or
// rejected the credentials. No report runs after it.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError is a failure executing or fetching one report's SQL.
type QueryError struct {
	Label string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("report %q: query failed: %v", e.Label, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ExportError is a failure writing one report's output file.
type ExportError struct {
	Label string
	Path  string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("report %q: export to %s failed: %v", e.Label, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// RunError summarizes a run in which at least one report failed.
type RunError struct {
	Failed  []string
	Total   int
	Aborted bool
}

func (e *RunError) Error() string {
	if len(e.Failed) == 0 {
		return fmt.Sprintf("run aborted before all %d reports completed", e.Total)
	}
	msg := fmt.Sprintf("%d of %d reports failed: %s", len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
	if e.Aborted {
		msg += " (remaining reports skipped)"
	}
	return msg
}
