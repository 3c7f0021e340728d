package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/willfong/healthreport/internal/models"
)

// maxSheetName is Excel's limit on worksheet name length.
const maxSheetName = 31

// XLSXWriter writes a result set as a single-sheet workbook. Numbers and
// times keep their native cell types; everything else is stored as text.
type XLSXWriter struct{}

// Extension implements Writer.
func (w *XLSXWriter) Extension() string {
	return ".xlsx"
}

// Write creates (or overwrites) path with one sheet named after the file.
func (w *XLSXWriter) Write(path string, header []string, rs *models.ResultSet) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(path)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range rs.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// cellValue converts driver values into types excelize stores natively.
func cellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case int64, int32, int, float64, float32, bool:
		return val
	default:
		return FormatValue(val)
	}
}

func sheetName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	// Excel forbids these characters in sheet names
	name = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_").Replace(name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	if name == "" {
		name = "Sheet1"
	}
	return name
}
