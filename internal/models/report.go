package models

import "strconv"

// QuerySpec is one named analytical query. Specs are immutable once the
// catalog is built and run in declaration order.
type QuerySpec struct {
	// Human-readable report name, unique within a run
	Label string `toml:"label" json:"label"`

	// Parameterless SQL statement
	Text string `toml:"sql" json:"sql"`
}

// ResultSet holds the fully fetched output of a single QuerySpec.
type ResultSet struct {
	// Column names in select order. An entry may be empty when the driver
	// does not report a name for that position.
	Columns []string

	// Rows of scalar values as returned by the driver
	Rows [][]any
}

// Empty reports whether the query returned no rows.
func (r *ResultSet) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Header returns the header row for export. With positional set, or for
// any column the driver left unnamed, the zero-based column index is used.
func (r *ResultSet) Header(positional bool) []string {
	header := make([]string, len(r.Columns))
	for i, name := range r.Columns {
		if positional || name == "" {
			header[i] = strconv.Itoa(i)
			continue
		}
		header[i] = name
	}
	return header
}
