package export

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/willfong/healthreport/internal/models"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "Oncology", "Oncology"},
		{"bytes", []byte("4.0000000000000000"), "4.0000000000000000"},
		{"int64", int64(42), "42"},
		{"integral float", float64(4), "4.0"},
		{"fraction", 2775.125, "2775.125"},
		{"float32", float32(1.5), "1.5"},
		{"inf", math.Inf(1), "+Inf"},
		{"bool", true, "true"},
		{"date", time.Date(1956, 3, 14, 0, 0, 0, 0, time.UTC), "1956-03-14"},
		{"datetime", time.Date(2023, 1, 9, 9, 30, 0, 0, time.UTC), "2023-01-09 09:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	w, err := New("csv")
	require.NoError(t, err)
	assert.Equal(t, ".csv", w.Extension())

	w, err = New("XLSX")
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", w.Extension())

	_, err = New("parquet")
	assert.ErrorContains(t, err, "unsupported output format")
}

func sampleResultSet() *models.ResultSet {
	return &models.ResultSet{
		Columns: []string{"specialization", "avg_experience", "note"},
		Rows: [][]any{
			{"Oncology", float64(4), nil},
			{"Pediatrics", float64(10), []byte("has, comma")},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors_experience_stats.csv")
	rs := sampleResultSet()

	w := &CSVWriter{}
	require.NoError(t, w.Write(path, rs.Header(false), rs))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "specialization,avg_experience,note\n" +
		"Oncology,4.0,\n" +
		"Pediatrics,10.0,\"has, comma\"\n"
	assert.Equal(t, want, string(content))
}

func TestCSVWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale contents that are much longer than the new file\n"), 0644))

	rs := &models.ResultSet{Columns: []string{"n"}, Rows: [][]any{{int64(1)}}}
	require.NoError(t, (&CSVWriter{}).Write(path, rs.Header(false), rs))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "n\n1\n", string(content))
}

func TestCSVWriter_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "report.csv")
	rs := &models.ResultSet{Columns: []string{"n"}, Rows: [][]any{{int64(1)}}}
	require.NoError(t, (&CSVWriter{}).Write(path, rs.Header(true), rs))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n", string(content))
}

func TestCSVWriter_Deterministic(t *testing.T) {
	dir := t.TempDir()
	rs := sampleResultSet()
	w := &CSVWriter{}

	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	require.NoError(t, w.Write(first, rs.Header(false), rs))
	require.NoError(t, w.Write(second, rs.Header(false), rs))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestXLSXWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors_experience_stats.xlsx")
	rs := sampleResultSet()

	require.NoError(t, (&XLSXWriter{}).Write(path, rs.Header(false), rs))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("doctors_experience_stats")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"specialization", "avg_experience", "note"}, rows[0])
	assert.Equal(t, "Oncology", rows[1][0])
	assert.Equal(t, "4", rows[1][1])
	assert.Equal(t, "has, comma", rows[2][2])
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "billing_sample", sheetName("/tmp/billing_sample.xlsx"))
	assert.Equal(t, "a_b", sheetName("a:b.xlsx"))
	assert.Len(t, sheetName("an_extremely_long_report_label_that_exceeds_excel.xlsx"), maxSheetName)
}
