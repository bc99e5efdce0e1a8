package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	DataDir      string
	RawDir       string
	ProcessedDir string
	LogsDir      string

	// Well-known table files
	RawCSV        string
	AggregatedCSV string
	SummaryCSV    string
	ManifestFile  string
}

// GetPaths resolves the configured locations into absolute paths.
// Relative file names are taken relative to the data directory, and a
// relative data directory is taken relative to the working directory.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %v", err)
	}

	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = DefaultLogsDir
	}
	logsDir, err = filepath.Abs(logsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs directory: %v", err)
	}

	// Directory structure:
	// data/
	//   ├── raw/         (source extracts)
	//   └── processed/   (aggregated, summary and filtered tables)
	// logs/
	paths := &Paths{
		DataDir:      dataDir,
		RawDir:       filepath.Join(dataDir, RawSubdir),
		ProcessedDir: filepath.Join(dataDir, ProcessedSubdir),
		LogsDir:      logsDir,

		RawCSV:        resolveUnder(dataDir, orDefault(cfg.RawFile, DefaultRawFile)),
		AggregatedCSV: resolveUnder(dataDir, orDefault(cfg.AggregatedFile, DefaultAggregatedFile)),
		SummaryCSV:    resolveUnder(dataDir, orDefault(cfg.SummaryFile, DefaultSummaryFile)),
		ManifestFile:  filepath.Join(dataDir, ManifestFileName),
	}

	return paths, nil
}

// FilteredCSV returns the filter output location for a target end period
func (p *Paths) FilteredCSV(targetEnd string) string {
	return filepath.Join(p.DataDir, fmt.Sprintf(FilteredFilePattern, targetEnd))
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.ProcessedDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("processed", p.ProcessedDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("tables",
			slog.String("raw", p.RawCSV),
			slog.String("aggregated", p.AggregatedCSV),
			slog.String("summary", p.SummaryCSV),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func resolveUnder(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
