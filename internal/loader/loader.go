package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"corplinks/internal/config"
	apperrors "corplinks/internal/errors"
	"corplinks/pkg/contracts/domain"
)

// LoadStats summarizes how the packed lines of a source were shaped.
type LoadStats struct {
	Lines     int `json:"lines"`
	Loaded    int `json:"loaded"`
	Padded    int `json:"padded"`
	Truncated int `json:"truncated"`
	Rejected  int `json:"rejected"`
}

// Loader reads a raw ownership export and splits it into records.
type Loader struct {
	logger *slog.Logger
	sheet  string
	policy string
}

// New creates a loader for the given input settings.
func New(cfg config.InputConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	policy := cfg.SchemaPolicy
	if policy == "" {
		policy = config.SchemaPolicyReject
	}
	return &Loader{
		logger: logger.With(slog.String("component", "loader")),
		sheet:  cfg.Sheet,
		policy: policy,
	}
}

// Load reads path and returns one RawRecord per accepted line, in source
// order. The file format is chosen by extension: .xlsx, .csv or .txt.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawRecord, LoadStats, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, LoadStats{}, apperrors.NewNotFoundError("input file").WithContext("path", path)
		}
		return nil, LoadStats{}, apperrors.NewStorageError("failed to stat input file", err).WithContext("path", path)
	}

	var (
		lines []string
		err   error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		lines, err = readWorkbook(ctx, path, l.sheet)
	case ".csv", ".txt":
		lines, err = readTextLines(ctx, path)
	default:
		return nil, LoadStats{}, apperrors.NewValidationError(fmt.Sprintf("unsupported input format %q", ext), nil).WithContext("path", path)
	}
	if err != nil {
		return nil, LoadStats{}, err
	}

	l.logger.InfoContext(ctx, "Read raw export",
		slog.String("path", path),
		slog.Int("lines", len(lines)))

	records, stats, err := l.Split(ctx, lines)
	if err != nil {
		return nil, stats, err
	}

	l.logger.InfoContext(ctx, "Loaded raw records",
		slog.Int("loaded", stats.Loaded),
		slog.Int("padded", stats.Padded),
		slog.Int("truncated", stats.Truncated),
		slog.Int("rejected", stats.Rejected),
		slog.String("schema_policy", l.policy))

	return records, stats, nil
}

// Split turns packed lines into records, applying the schema policy to
// lines with more than seven fields. Line numbers are 1-based.
func (l *Loader) Split(ctx context.Context, lines []string) ([]domain.RawRecord, LoadStats, error) {
	stats := LoadStats{Lines: len(lines)}
	records := make([]domain.RawRecord, 0, len(lines))

	for i, line := range lines {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, apperrors.NewCanceledError("load", err)
			}
		}

		lineNo := i + 1
		fields := SplitLine(line)

		if len(fields) > domain.FieldCount {
			if l.policy != config.SchemaPolicyTruncate {
				schemaErr := apperrors.NewSchemaError(
					fmt.Sprintf("line has %d fields, expected %d", len(fields), domain.FieldCount)).
					WithContext("line", lineNo)
				l.logger.WarnContext(ctx, "Rejected raw line",
					slog.Int("line", lineNo),
					slog.Int("fields", len(fields)),
					slog.String("error", schemaErr.Error()))
				stats.Rejected++
				continue
			}
			fields = fields[:domain.FieldCount]
			stats.Truncated++
		} else if len(fields) < domain.FieldCount {
			stats.Padded++
		}

		records = append(records, domain.NewRawRecord(lineNo, fields))
	}

	stats.Loaded = len(records)
	return records, stats, nil
}
