package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"shipcli/internal/table"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
	bom    bool
}

// NewCSVWriter creates a new CSV writer. With bom set every file starts
// with a UTF-8 byte order mark for Excel.
func NewCSVWriter(logger *slog.Logger, bom bool) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger, bom: bom}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV replaces filePath with the given header and records.
// The file appears complete or not at all.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	return writeAtomic(filePath, func(out io.Writer) error {
		if options.BOMPrefix {
			if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
				return fmt.Errorf("failed to write BOM: %w", err)
			}
		}

		writer := csv.NewWriter(out)

		if len(options.Headers) > 0 {
			if err := writer.Write(options.Headers); err != nil {
				return fmt.Errorf("failed to write headers: %w", err)
			}
		}

		for i, record := range options.Records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}

		writer.Flush()
		return writer.Error()
	})
}

// WriteTable writes t with its header. Numbers keep their native text form.
func (w *CSVWriter) WriteTable(filePath string, t *table.Table) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   t.Columns(),
		Records:   t.Records(),
		BOMPrefix: w.bom,
	})
}
