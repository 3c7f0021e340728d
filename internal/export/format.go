// Package export serializes fetched result sets to report files.
package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/willfong/healthreport/internal/config"
	"github.com/willfong/healthreport/internal/models"
)

// Writer persists one result set to a file.
type Writer interface {
	// Extension is appended to the derived file name, including the dot.
	Extension() string

	// Write creates or overwrites path.
	Write(path string, header []string, rs *models.ResultSet) error
}

// New returns the writer for the configured output format.
func New(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case config.FormatCSV, "":
		return &CSVWriter{}, nil
	case config.FormatXLSX:
		return &XLSXWriter{}, nil
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// FormatValue renders a scanned driver value as text for files and the
// console. Integral floats keep a trailing ".0" so averages stay
// recognizable as such.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case float64:
		return formatFloat(val, 64)
	case float32:
		return formatFloat(float64(val), 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return FormatTime(val)
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// FormatTime renders DATE values as 2006-01-02 and anything with a
// time-of-day as 2006-01-02 15:04:05.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
