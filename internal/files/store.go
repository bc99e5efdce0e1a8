package files

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shipcli/internal/dataprocessing"
	"shipcli/internal/errors"
	"shipcli/internal/exporter"
	"shipcli/internal/table"
)

// Format identifies how a location is encoded
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from the location's extension.
// Anything that is not a workbook is read as delimited text.
func FormatOf(location string) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// StoreOptions configures persistence
type StoreOptions struct {
	// WriteBOM prefixes written CSV files with a UTF-8 byte order mark
	WriteBOM bool
	// XLSXMirror writes a workbook copy next to every saved CSV table
	XLSXMirror bool
	// Sheet names the worksheet of written workbooks
	Sheet string
}

// Store loads and persists whole tables by location
type Store struct {
	logger *slog.Logger
	opts   StoreOptions
	csv    *exporter.CSVWriter
	xlsx   *exporter.XLSXWriter
}

// NewStore creates a table store
func NewStore(logger *slog.Logger, opts StoreOptions) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger,
		opts:   opts,
		csv:    exporter.NewCSVWriter(logger, opts.WriteBOM),
		xlsx:   exporter.NewXLSXWriter(logger, opts.Sheet),
	}
}

// Exists reports whether location names a regular file
func (s *Store) Exists(location string) bool {
	info, err := os.Stat(location)
	return err == nil && info.Mode().IsRegular()
}

// Load reads the table at location and types it with schema. A missing
// file, a missing required column and a bad numeric cell are all fatal.
func (s *Store) Load(ctx context.Context, location string, schema table.Schema) (*table.Table, error) {
	info, err := os.Stat(location)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewMissingInputError(location, err)
		}
		return nil, errors.NewStorageError("failed to stat "+location, err)
	}
	if info.IsDir() {
		return nil, errors.NewMissingInputError(location, nil).WithContext("reason", "is a directory")
	}

	var raw dataprocessing.RawRecords
	switch FormatOf(location) {
	case FormatXLSX:
		raw, err = dataprocessing.ReadWorkbook(location, schema.Sheet)
	default:
		raw, err = s.readCSV(location)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read "+location, err).
			WithContext("location", location)
	}

	t, err := dataprocessing.ParseRecords(location, raw, schema)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "loaded table",
		slog.String("location", location),
		slog.String("format", string(FormatOf(location))),
		slog.Int("rows", t.Len()),
		slog.Int("columns", len(t.Columns())))

	return t, nil
}

func (s *Store) readCSV(location string) (dataprocessing.RawRecords, error) {
	f, err := os.Open(location)
	if err != nil {
		return dataprocessing.RawRecords{}, err
	}
	defer f.Close()
	return dataprocessing.ReadCSV(f)
}

// Save replaces the table at location, creating missing directories.
// The previous content stays in place if writing fails.
func (s *Store) Save(ctx context.Context, location string, t *table.Table) error {
	var err error
	switch FormatOf(location) {
	case FormatXLSX:
		err = s.xlsx.WriteTable(location, t)
	default:
		err = s.csv.WriteTable(location, t)
		if err == nil && s.opts.XLSXMirror {
			mirror := strings.TrimSuffix(location, filepath.Ext(location)) + ".xlsx"
			err = s.xlsx.WriteTable(mirror, t)
		}
	}
	if err != nil {
		return errors.NewStorageError("failed to save "+location, err).
			WithContext("location", location)
	}

	s.logger.InfoContext(ctx, "saved table",
		slog.String("location", location),
		slog.Int("rows", t.Len()))

	return nil
}
