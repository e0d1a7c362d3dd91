package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the directories the cleaner reads from and writes to.
// Every relative path in the configuration is resolved against BaseDir.
type Paths struct {
	BaseDir      string
	DataDir      string
	RawDir       string
	ProcessedDir string
	LogsDir      string
}

// GetPaths returns the application paths rooted at baseDir. An empty
// baseDir means the current working directory.
func GetPaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	return &Paths{
		BaseDir:      baseDir,
		DataDir:      filepath.Join(baseDir, DefaultDataDir),
		RawDir:       filepath.Join(baseDir, DefaultRawDir),
		ProcessedDir: filepath.Join(baseDir, DefaultProcessedDir),
		LogsDir:      filepath.Join(baseDir, DefaultLogsDir),
	}, nil
}

// Resolve returns p unchanged when empty or absolute, otherwise joined to
// BaseDir.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// EnsureDirectories creates the output directories if they don't exist.
// The raw directory is input and is never created.
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()

	for _, dir := range []string{p.ProcessedDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// LogPathResolution logs every resolved directory
func (p *Paths) LogPathResolution() {
	slog.Default().Info("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("raw_dir", p.RawDir),
		slog.String("processed_dir", p.ProcessedDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
