// Package cleaning applies the field normalizers to every raw record.
package cleaning

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	apperrors "corplinks/internal/errors"
	"corplinks/internal/normalize"
	"corplinks/pkg/contracts/domain"
)

// cancelCheckEvery is how many rows a worker cleans between context checks.
const cancelCheckEvery = 256

// Stats counts missing values per field in a cleaned table.
type Stats struct {
	Rows    int                  `json:"rows"`
	Missing map[domain.Field]int `json:"-"`
}

// MissingByName returns the missing counts keyed by export column name.
func (s Stats) MissingByName() map[string]int {
	out := make(map[string]int, len(s.Missing))
	for f, n := range s.Missing {
		out[f.String()] = n
	}
	return out
}

func (s *Stats) merge(o Stats) {
	s.Rows += o.Rows
	for f, n := range o.Missing {
		s.Missing[f] += n
	}
}

func newStats() Stats {
	return Stats{Missing: make(map[domain.Field]int, domain.FieldCount)}
}

// Cleaner normalizes raw records column by column.
type Cleaner struct {
	logger  *slog.Logger
	workers int
}

// NewCleaner creates a cleaner. workers below 2 cleans sequentially.
func NewCleaner(logger *slog.Logger, workers int) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Cleaner{
		logger:  logger.With(slog.String("component", "cleaner")),
		workers: workers,
	}
}

// Clean returns one cleaned record per raw record, in the same order. The
// only error is cancellation of ctx.
func (c *Cleaner) Clean(ctx context.Context, raw []domain.RawRecord) ([]domain.CleanedRecord, Stats, error) {
	out := make([]domain.CleanedRecord, len(raw))
	stats := newStats()

	if c.workers == 1 || len(raw) < 2 {
		if err := cleanRange(ctx, raw, out, &stats); err != nil {
			return nil, Stats{}, err
		}
	} else {
		var err error
		stats, err = c.cleanParallel(ctx, raw, out)
		if err != nil {
			return nil, Stats{}, err
		}
	}

	c.logger.InfoContext(ctx, "Cleaned records",
		slog.Int("rows", stats.Rows),
		slog.Int("workers", c.workers))
	for _, f := range domain.Fields() {
		if n := stats.Missing[f]; n > 0 {
			c.logger.DebugContext(ctx, "Missing values after cleaning",
				slog.String("field", f.String()),
				slog.Int("count", n))
		}
	}

	return out, stats, nil
}

// cleanParallel splits raw into contiguous chunks. Each worker writes only
// its own index range of out, so order needs no merge step.
func (c *Cleaner) cleanParallel(ctx context.Context, raw []domain.RawRecord, out []domain.CleanedRecord) (Stats, error) {
	chunkSize := (len(raw) + c.workers - 1) / c.workers
	chunks := (len(raw) + chunkSize - 1) / chunkSize
	partial := make([]Stats, chunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i := 0; i < chunks; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, len(raw))
		partial[i] = newStats()
		g.Go(func() error {
			return cleanRange(gctx, raw[start:end], out[start:end], &partial[i])
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	stats := newStats()
	for _, p := range partial {
		stats.merge(p)
	}
	return stats, nil
}

func cleanRange(ctx context.Context, raw []domain.RawRecord, out []domain.CleanedRecord, stats *Stats) error {
	for i := range raw {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return apperrors.NewCanceledError("clean", err)
			}
		}
		out[i] = CleanRecord(raw[i])
		for _, f := range domain.Fields() {
			if out[i].Missing(f) {
				stats.Missing[f]++
			}
		}
		stats.Rows++
	}
	return nil
}

// CleanRecord normalizes each field of r independently. The percent display
// is derived last from the normalized fraction.
func CleanRecord(r domain.RawRecord) domain.CleanedRecord {
	cleaned := domain.CleanedRecord{
		Line:          r.Line,
		Owner:         normalize.OwnerName(r.Owner),
		Company:       normalize.CompanyName(r.Company),
		TaxID:         normalize.TaxID(r.TaxID),
		Ownership:     normalize.OwnershipFraction(r.Ownership),
		Region:        r.Region,
		Source:        r.Source,
		OwnershipDate: normalize.OwnershipDate(r.OwnershipDate),
	}
	cleaned.OwnershipPercent = normalize.PercentDisplay(cleaned.Ownership)
	return cleaned
}
