package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"shipcli/internal/table"
)

// DefaultSheet names the worksheet tables are written to
const DefaultSheet = "Sheet1"

// XLSXWriter writes tables as Excel workbooks with typed cells
type XLSXWriter struct {
	logger *slog.Logger
	sheet  string
}

// NewXLSXWriter creates a workbook writer. An empty sheet selects DefaultSheet.
func NewXLSXWriter(logger *slog.Logger, sheet string) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	return &XLSXWriter{logger: logger, sheet: sheet}
}

// WriteTable replaces filePath with a single-sheet workbook holding t
func (w *XLSXWriter) WriteTable(filePath string, t *table.Table) error {
	w.logger.Debug("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("sheet", w.sheet),
		slog.Int("record_count", t.Len()))

	f := excelize.NewFile()
	defer f.Close()

	if name := f.GetSheetName(0); name != w.sheet {
		if err := f.SetSheetName(name, w.sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]interface{}, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, r := range t.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cellValues(r)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	return writeAtomic(filePath, func(out io.Writer) error {
		_, err := f.WriteTo(out)
		return err
	})
}
