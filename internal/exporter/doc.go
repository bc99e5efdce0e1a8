// Package exporter persists tables.
//
// CSVWriter writes delimited text with a header row and an optional UTF-8
// BOM for Excel. XLSXWriter writes a single-sheet workbook with numeric
// cells kept numeric. Both replace the destination atomically: output goes
// to a temporary file in the destination directory and is renamed into
// place, so readers never observe a half-written table.
//
// RenderTable prints a table to a terminal.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger, cfg.Pipeline.WriteBOM)
//	if err := w.WriteTable(paths.AggregatedCSV, aggregated); err != nil {
//	    return err
//	}
package exporter
