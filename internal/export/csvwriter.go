package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/willfong/healthreport/internal/models"
)

// CSVWriter writes a result set as UTF-8, comma-separated text with a
// single header row and no index column.
type CSVWriter struct {
	// Buffer size in bytes (default: 64KB)
	BufferSize int
}

// Extension implements Writer.
func (w *CSVWriter) Extension() string {
	return ".csv"
}

// Write creates (or truncates) path and writes header plus rows.
func (w *CSVWriter) Write(path string, header []string, rs *models.ResultSet) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	bufSize := w.BufferSize
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file %s: %w", path, cerr)
		}
	}()

	buffer := bufio.NewWriterSize(file, bufSize)
	writer := csv.NewWriter(buffer)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rs.Rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, FormatValue(v))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv flush error: %w", err)
	}
	if err := buffer.Flush(); err != nil {
		return fmt.Errorf("buffer flush error: %w", err)
	}
	return nil
}
