package ingestion

import (
	"context"
	"log/slog"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"salespulse/pkg/contracts/domain"
)

// Clock supplies the "now" used for missing order times
type Clock func() time.Time

// IDGenerator returns a token that is unique within one call for a row index
type IDGenerator func(index int) string

// TimestampIDs builds the default generator: call time in milliseconds plus
// the row index, so tokens never repeat within a call and rarely across calls.
func TimestampIDs(now time.Time) IDGenerator {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	return func(index int) string {
		return stamp + strconv.Itoa(index)
	}
}

const (
	// DefaultParallelThreshold is the row count at which cleaning fans out
	DefaultParallelThreshold = 2000
	// firstDataRow is the sheet row number of rows[0]; row 1 is the header
	firstDataRow = 2
)

// Config tunes how a Cleaner schedules work
type Config struct {
	// ParallelThreshold is the smallest input cleaned concurrently; 0 disables fan-out
	ParallelThreshold int
	// MaxWorkers bounds concurrent row batches; 0 means GOMAXPROCS
	MaxWorkers int
}

// DefaultConfig returns the scheduling defaults
func DefaultConfig() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		MaxWorkers:        runtime.GOMAXPROCS(0),
	}
}

// Cleaner turns raw rows into canonical records with diagnostics. It holds
// no per-call state and is safe for concurrent use once configured.
type Cleaner struct {
	config Config
	clock  Clock
	ids    IDGenerator
	logger *slog.Logger
}

// NewCleaner creates a cleaner using the wall clock and timestamp IDs
func NewCleaner(config Config, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = runtime.GOMAXPROCS(0)
	}

	return &Cleaner{
		config: config,
		clock:  time.Now,
		logger: logger.With(slog.String("component", "cleaner")),
	}
}

// SetClock replaces the clock. Call before the cleaner is shared.
func (c *Cleaner) SetClock(clock Clock) {
	if clock != nil {
		c.clock = clock
	}
}

// SetIDGenerator replaces the per-call timestamp generator. Call before the
// cleaner is shared.
func (c *Cleaner) SetIDGenerator(ids IDGenerator) {
	c.ids = ids
}

// Clean canonicalizes every row through mapping. It returns exactly one
// record per row in input order and never rejects a row; the only error is
// cancellation of ctx.
func (c *Cleaner) Clean(ctx context.Context, rows []domain.RawRecord, mapping domain.ColumnMapping) (*domain.CleaningResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	now := c.clock().UTC()
	ids := c.ids
	if ids == nil {
		ids = TimestampIDs(now)
	}

	outcomes := make([]rowOutcome, len(rows))
	parallel := c.config.ParallelThreshold > 0 && len(rows) >= c.config.ParallelThreshold && c.config.MaxWorkers > 1

	if parallel {
		if err := c.cleanParallel(ctx, rows, mapping, now, ids, outcomes); err != nil {
			return nil, err
		}
	} else {
		for i, row := range rows {
			outcomes[i] = cleanRow(i, row, mapping, now, ids)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	result := assemble(outcomes)

	c.logger.InfoContext(ctx, "cleaning completed",
		slog.Int("rows", len(rows)),
		slog.Int("issues", len(result.Issues)),
		slog.Int("errors", result.ErrorCount()),
		slog.Float64("quality_score", result.QualityScore),
		slog.Bool("parallel", parallel),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// cleanParallel splits rows into contiguous batches, one per worker slot.
// Each batch writes only its own slice of outcomes so order is preserved.
func (c *Cleaner) cleanParallel(ctx context.Context, rows []domain.RawRecord, mapping domain.ColumnMapping,
	now time.Time, ids IDGenerator, outcomes []rowOutcome) error {

	workers := c.config.MaxWorkers
	batch := (len(rows) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < len(rows); lo += batch {
		hi := min(lo+batch, len(rows))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				outcomes[i] = cleanRow(i, rows[i], mapping, now, ids)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func assemble(outcomes []rowOutcome) *domain.CleaningResult {
	result := &domain.CleaningResult{
		Records: make([]domain.CleanedRecord, len(outcomes)),
		Issues:  []domain.ValidationIssue{},
	}

	total := 0
	for i, o := range outcomes {
		result.Records[i] = o.record
		result.Issues = append(result.Issues, o.issues...)
		total += o.record.QualityScore
	}
	if len(outcomes) > 0 {
		result.QualityScore = float64(total) / float64(len(outcomes))
	}
	return result
}

// orderIDPattern is the loose prefix+digits shape of a well-formed order ID
var orderIDPattern = regexp.MustCompile(`^[A-Z]+[-_]?[0-9]+$`)

func normalizeOrderID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
