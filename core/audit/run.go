package audit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"migration-audit/core/catalog"
	"migration-audit/core/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds run-scoped configuration.
type Config struct {
	// OldSchema and NewSchema are the two schema identifiers under audit.
	OldSchema string `mapstructure:"old_schema" default:""`
	NewSchema string `mapstructure:"new_schema" default:""`

	// ChunkSize is the number of rows per fetch window during row
	// reconciliation. It affects performance only, never the result.
	ChunkSize int `mapstructure:"chunk_size" default:"10000"`

	// BatchSize is the number of records per report output unit.
	BatchSize int `mapstructure:"batch_size" default:"100"`

	// Workers bounds the per-table worker pool so the audit cannot
	// exhaust either database's connection limit.
	Workers int `mapstructure:"workers" default:"4"`
}

// Sinks groups one report sink per category.
type Sinks struct {
	Structural Sink
	Counts     Sink
	Aggregates Sink
	Nulls      Sink
	Rows       Sink
}

// Close closes every sink, returning the first error.
func (s Sinks) Close() error {
	var first error
	for _, sink := range []Sink{s.Structural, s.Counts, s.Aggregates, s.Nulls, s.Rows} {
		if sink == nil {
			continue
		}
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Summary is the final accounting of one run.
type Summary struct {
	RunID        string
	Tables       int
	ErrorCount   int
	FailedTables []string
	Duration     time.Duration
	Cancelled    bool
}

// Run sequences a full audit: snapshot both schemas, compare structure
// once, then fan the common-table set out over a bounded worker pool for
// count, aggregate, null and row-level validation. Each run owns its
// configuration, snapshots and sinks; there is no process-wide state.
type Run struct {
	ID       string
	cfg      Config
	pair     Pair
	sinks    Sinks
	notifier notify.Notifier
	logger   *zap.Logger

	mu           sync.Mutex
	errCount     int
	failedTables map[string]struct{}
}

// NewRun builds a run with a fresh unique ID.
func NewRun(cfg Config, pair Pair, sinks Sinks, notifier notify.Notifier, logger *zap.Logger) *Run {
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = 10000
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Run{
		ID:           uuid.NewString(),
		cfg:          cfg,
		pair:         pair,
		sinks:        sinks,
		notifier:     notifier,
		logger:       logger,
		failedTables: make(map[string]struct{}),
	}
}

// Execute performs the audit. It returns a summary on success or graceful
// cancellation; only a connection-level failure aborts with an error.
func (r *Run) Execute(ctx context.Context) (*Summary, error) {
	start := time.Now()
	r.phase(ctx, "Connecting", 0,
		fmt.Sprintf("Starting migration audit %s -> %s", r.cfg.OldSchema, r.cfg.NewSchema))

	oldSnap, newSnap, err := r.buildSnapshots(ctx)
	if err != nil {
		r.notifier.Notify(ctx, notify.Event{
			RunID: r.ID, Phase: "Failed", Message: "Schema snapshot failed", Err: err,
		})
		return nil, err
	}

	r.phase(ctx, "Validating Structure", 15, "Comparing tables, columns, indexes, triggers, sequences and views")
	if err := CompareStructure(oldSnap, newSnap, r.sinks.Structural); err != nil {
		return nil, fmt.Errorf("failed to compare structure: %w", err)
	}

	common := CommonTables(oldSnap, newSnap)
	r.phase(ctx, "Reconciling Tables", 30,
		fmt.Sprintf("Reconciling %d common tables with %d workers", len(common), r.cfg.Workers))

	cancelled := r.processTables(ctx, oldSnap, newSnap, common)

	summary := &Summary{
		RunID:     r.ID,
		Tables:    len(common),
		Duration:  time.Since(start),
		Cancelled: cancelled,
	}
	r.mu.Lock()
	summary.ErrorCount = r.errCount
	for t := range r.failedTables {
		summary.FailedTables = append(summary.FailedTables, t)
	}
	r.mu.Unlock()
	sort.Strings(summary.FailedTables)

	if cancelled {
		r.phase(ctx, "Cancelled", 100, "Migration audit stopped on cancellation request")
	} else {
		r.phase(ctx, "Completed", 100,
			fmt.Sprintf("Migration audit completed: %d tables, %d errors", summary.Tables, summary.ErrorCount))
	}
	return summary, nil
}

// buildSnapshots reads both catalogs concurrently. A failure on either
// side is fatal for the run.
func (r *Run) buildSnapshots(ctx context.Context) (*catalog.SchemaSnapshot, *catalog.SchemaSnapshot, error) {
	var (
		oldSnap, newSnap *catalog.SchemaSnapshot
		oldErr, newErr   error
		wg               sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		oldSnap, oldErr = catalog.BuildSnapshot(ctx, r.pair.Old, r.cfg.OldSchema)
	}()
	go func() {
		defer wg.Done()
		newSnap, newErr = catalog.BuildSnapshot(ctx, r.pair.New, r.cfg.NewSchema)
	}()
	wg.Wait()

	if oldErr != nil {
		return nil, nil, &ConnectionError{Side: "old", Err: oldErr}
	}
	if newErr != nil {
		return nil, nil, &ConnectionError{Side: "new", Err: newErr}
	}
	return oldSnap, newSnap, nil
}

// processTables fans the common tables out over the worker pool. Each
// worker holds its own cursor pair for the table it is processing. The
// return value reports whether the run stopped on cancellation.
func (r *Run) processTables(ctx context.Context, oldSnap, newSnap *catalog.SchemaSnapshot, tables []string) bool {
	work := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for table := range work {
				r.processTable(ctx, oldSnap.Tables[table], newSnap.Tables[table])
			}
		}()
	}

	cancelled := false
feed:
	for _, table := range tables {
		select {
		case work <- table:
		case <-ctx.Done():
			cancelled = true
			break feed
		}
	}
	close(work)
	wg.Wait()
	return cancelled || ctx.Err() != nil
}

// processTable runs every per-table phase, isolating failures so one bad
// table never aborts the audit of the rest.
func (r *Run) processTable(ctx context.Context, old, new catalog.TableDescriptor) {
	log := r.logger.With(zap.String("table", old.Name))
	log.Info("Auditing table")

	steps := []struct {
		sink Sink
		run  func() error
	}{
		{r.sinks.Counts, func() error {
			return ValidateCounts(ctx, r.pair, old, new, r.sinks.Counts)
		}},
		{r.sinks.Aggregates, func() error {
			return ValidateAggregates(ctx, r.pair, old, new, r.sinks.Aggregates)
		}},
		{r.sinks.Nulls, func() error {
			return ValidateNulls(ctx, r.pair, old, new, r.sinks.Nulls)
		}},
		{r.sinks.Rows, func() error {
			return ReconcileRows(ctx, r.pair, old, new, r.cfg.ChunkSize, r.sinks.Rows)
		}},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return
		}
		if err := step.run(); err != nil {
			if IsCancellation(err) {
				return
			}
			r.recordTableFailure(step.sink, old.Name, err, log)
		}
	}
}

// recordTableFailure writes a Table Error record and counts the failure.
// The sink write itself may fail; that is logged, never escalated.
func (r *Run) recordTableFailure(sink Sink, table string, err error, log *zap.Logger) {
	log.Error("Table audit step failed", zap.Error(err))

	r.mu.Lock()
	r.errCount++
	r.failedTables[table] = struct{}{}
	r.mu.Unlock()

	var qerr *QueryError
	column := ""
	if errors.As(err, &qerr) {
		column = qerr.Column
	}
	if sinkErr := sink.Discrepancy(Discrepancy{
		Kind:    KindTableError,
		Table:   table,
		Object:  column,
		Details: err.Error(),
	}); sinkErr != nil {
		log.Error("Failed to record table error", zap.Error(sinkErr))
	}
}

func (r *Run) phase(ctx context.Context, name string, percent int, message string) {
	r.notifier.Notify(ctx, notify.Event{
		RunID:   r.ID,
		Phase:   name,
		Percent: percent,
		Message: message,
	})
}
