package validation

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shipcli/internal/errors"
)

// supportedExtensions are the table formats the store reads and writes
var supportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xlsm": true,
}

// FileValidator checks table locations before a stage touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// IsSupportedTable reports whether path has a table extension the store handles
func IsSupportedTable(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ValidateInputTable checks that path is an existing, readable table file
func (v *FileValidator) ValidateInputTable(path string) error {
	info, err := os.Stat(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		v.logger.Error("Input table does not exist",
			slog.String("file", path))
		return errors.NewMissingInputError(path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat input table",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to stat %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return errors.NewMissingInputError(path, nil).WithContext("reason", "is a directory")
	}
	if !IsSupportedTable(path) {
		return errors.NewAppValidationError(
			fmt.Sprintf("%s is not a supported table (extension %q)", path, filepath.Ext(path)))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input table is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("%s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("Input table validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputTable checks that path can receive a table: a supported
// extension, not an existing directory, and a parent directory that exists
// or can be created and is writable
func (v *FileValidator) ValidateOutputTable(path string) error {
	if !IsSupportedTable(path) {
		return errors.NewAppValidationError(
			fmt.Sprintf("%s is not a supported table (extension %q)", path, filepath.Ext(path)))
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return errors.NewAppValidationError(fmt.Sprintf("%s is a directory", path))
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a probe file
	probe, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
