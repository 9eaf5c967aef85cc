package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelter-sync/core/logger"
	"shelter-sync/core/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options controls the behaviour of an Engine.
type Options struct {
	// DeleteAbsent enables the delete pass for stored records not seen upstream.
	DeleteAbsent bool
	// MergePartial lets successfully drained partitions be merged when a sibling failed.
	// When false, any partition failure aborts the cycle before the first write.
	MergePartial bool
	// DryRun computes the plan without writing to the store.
	DryRun bool
	// AllowEmptySweep lets the delete pass run when upstream reported no records at all.
	AllowEmptySweep bool
	// PartitionConcurrency is the number of partitions drained at once. Values below 2
	// drain sequentially.
	PartitionConcurrency int
}

// EngineOption configures optional collaborators of an Engine.
type EngineOption func(*engineHooks)

type engineHooks struct {
	notifier Notifier
	now      func() time.Time
}

// WithNotifier publishes applied changes at the end of every cycle.
func WithNotifier(n Notifier) EngineOption {
	return func(h *engineHooks) { h.notifier = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(h *engineHooks) { h.now = now }
}

// Engine runs fetch, merge and reconcile for one source.
type Engine[E any] struct {
	source Source[E]
	store  Store[E]
	policy Policy[E]
	opts   Options
	logger *zap.Logger
	hooks  engineHooks
}

// NewEngine creates an Engine.
func NewEngine[E any](source Source[E], store Store[E], policy Policy[E], opts Options, logger *zap.Logger, extra ...EngineOption) *Engine[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	hooks := engineHooks{now: time.Now}
	for _, o := range extra {
		o(&hooks)
	}
	return &Engine[E]{
		source: source,
		store:  store,
		policy: policy,
		opts:   opts,
		logger: logger,
		hooks:  hooks,
	}
}

// Name returns the source name.
func (e *Engine[E]) Name() string {
	return e.source.Name()
}

// WithOptions returns a copy of the engine using opts.
func (e *Engine[E]) WithOptions(opts Options) *Engine[E] {
	cp := *e
	cp.opts = opts
	return &cp
}

// Options returns the engine options.
func (e *Engine[E]) Options() Options {
	return e.opts
}

type drained[E any] struct {
	result   PartitionResult
	entities []E
}

// Run executes one full cycle and always returns a Result.
func (e *Engine[E]) Run(ctx context.Context) *Result {
	res := &Result{
		CycleID:   uuid.New().String(),
		Source:    e.source.Name(),
		Phase:     PhaseIdle,
		DryRun:    e.opts.DryRun,
		StartedAt: e.hooks.now(),
	}
	l := logger.WithCycle(e.logger, res.Source, res.CycleID)
	l.Info("Sync cycle started", zap.Bool("dry_run", e.opts.DryRun))

	defer func() {
		res.FinishedAt = e.hooks.now()
		metrics.RecordCycle(res.Source, string(res.Status), res.Duration().Seconds())
		if res.OK() && !res.DryRun {
			metrics.LastSuccess.WithLabelValues(res.Source).Set(float64(res.FinishedAt.Unix()))
		}
		l.Info("Sync cycle finished",
			zap.String("status", string(res.Status)),
			zap.String("detail", res.Detail),
			zap.Int("seen", res.Seen),
			zap.Int("inserted", res.Inserted),
			zap.Int("updated", res.Updated),
			zap.Int("deleted", res.Deleted),
			zap.Duration("took", res.Duration()))
	}()

	// fetching
	res.Phase = PhaseFetching
	parts := e.drainAll(ctx, l)

	var failed []string
	for _, p := range parts {
		res.Partitions = append(res.Partitions, p.result)
		res.MappingErrors += p.result.MappingErrors
		if p.result.Failed() {
			failed = append(failed, p.result.Name)
		}
	}

	if err := ctx.Err(); err != nil {
		e.fail(res, fmt.Sprintf("cancelled during fetch: %v", err))
		return res
	}
	if len(failed) > 0 && !e.opts.MergePartial {
		e.fail(res, fmt.Sprintf("partition failure (%s); no writes applied", strings.Join(failed, ", ")))
		return res
	}

	// merging
	res.Phase = PhaseMerging
	seen := make(map[string]struct{})
	var changes []Change
	// A dry run writes nothing, so later duplicates of a key are compared
	// against what the run would have stored.
	var planned map[string]E
	if e.opts.DryRun {
		planned = make(map[string]E)
	}

	for _, p := range parts {
		for _, incoming := range p.entities {
			if err := ctx.Err(); err != nil {
				e.fail(res, fmt.Sprintf("cancelled during merge: %v", err))
				e.notify(ctx, l, changes)
				return res
			}
			key := e.policy.Key(incoming)
			seen[key] = struct{}{}
			res.Seen++
			if c, ok := e.merge(ctx, l, res, key, incoming, planned); ok {
				changes = append(changes, c)
			}
		}
	}

	// reconciling
	switch {
	case !e.opts.DeleteAbsent:
		e.skipReconcile(res, "delete pass disabled")
	case len(failed) > 0:
		e.skipReconcile(res, fmt.Sprintf("partition failure (%s)", strings.Join(failed, ", ")))
	case len(seen) == 0 && !e.opts.AllowEmptySweep:
		e.skipReconcile(res, "empty sweep")
		l.Warn("Upstream returned no records; delete pass skipped")
	default:
		res.Phase = PhaseReconciling
		deleted, err := e.reconcile(ctx, l, res, seen)
		changes = append(changes, deleted...)
		if err != nil {
			e.fail(res, err.Error())
			e.notify(ctx, l, changes)
			return res
		}
	}

	e.notify(ctx, l, changes)

	if len(failed) > 0 {
		e.fail(res, fmt.Sprintf("partition failure (%s); merged %d records from remaining partitions",
			strings.Join(failed, ", "), res.Seen))
		return res
	}

	res.Phase = PhaseDone
	res.Status = StatusOK
	res.Detail = fmt.Sprintf("synced %d records", res.Seen)
	if res.StoreErrors > 0 {
		res.Detail += fmt.Sprintf(" (%d store errors)", res.StoreErrors)
	}
	return res
}

func (e *Engine[E]) drainAll(ctx context.Context, l *zap.Logger) []drained[E] {
	names := e.source.Partitions()
	out := make([]drained[E], len(names))

	if e.opts.PartitionConcurrency < 2 {
		for i, name := range names {
			out[i] = e.drain(ctx, l, name)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(e.opts.PartitionConcurrency)
	for i, name := range names {
		g.Go(func() error {
			out[i] = e.drain(ctx, l, name)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *Engine[E]) drain(ctx context.Context, l *zap.Logger, partition string) drained[E] {
	d := drained[E]{result: PartitionResult{Name: partition}}
	for entity, err := range e.source.Records(ctx, partition) {
		if err != nil {
			if IsRecordLocal(err) {
				d.result.MappingErrors++
				metrics.RecordMappingError(e.source.Name())
				l.Warn("Dropped unmappable record", zap.String("partition", partition), zap.Error(err))
				continue
			}
			d.result.Error = err.Error()
			l.Error("Partition failed", zap.String("partition", partition), zap.Error(err))
			break
		}
		d.entities = append(d.entities, entity)
		d.result.Records++
	}
	l.Debug("Partition drained",
		zap.String("partition", partition),
		zap.Int("records", d.result.Records),
		zap.Int("mapping_errors", d.result.MappingErrors))
	return d
}

func (e *Engine[E]) merge(ctx context.Context, l *zap.Logger, res *Result, key string, incoming E, planned map[string]E) (Change, bool) {
	src := e.source.Name()

	stored, found := planned[key]
	if !found {
		var err error
		stored, found, err = e.store.FindByKey(ctx, key)
		if err != nil {
			e.storeError(l, res, "find", key, err)
			return Change{}, false
		}
	}

	if !found {
		if planned != nil {
			planned[key] = incoming
		} else if err := e.store.Upsert(ctx, incoming); err != nil {
			e.storeError(l, res, "insert", key, err)
			return Change{}, false
		}
		res.Inserted++
		metrics.RecordOutcome(src, "inserted")
		return e.change(res, ChangeInserted, key), true
	}

	if !e.policy.IsChanged(stored, incoming) {
		res.Unchanged++
		metrics.RecordOutcome(src, "unchanged")
		return Change{}, false
	}

	merged := e.policy.Merge(stored, incoming)
	if planned != nil {
		planned[key] = merged
	} else if err := e.store.Upsert(ctx, merged); err != nil {
		e.storeError(l, res, "update", key, err)
		return Change{}, false
	}
	res.Updated++
	metrics.RecordOutcome(src, "updated")
	return e.change(res, ChangeUpdated, key), true
}

func (e *Engine[E]) reconcile(ctx context.Context, l *zap.Logger, res *Result, seen map[string]struct{}) ([]Change, error) {
	src := e.source.Name()

	stored, err := e.store.ScanAll(ctx)
	if err != nil {
		metrics.RecordStoreError(src, "scan")
		return nil, NewError(KindStore, "scan", src, err)
	}

	var changes []Change
	for _, s := range stored {
		key := e.policy.Key(s)
		if _, ok := seen[key]; ok {
			continue
		}
		if e.policy.IsProtected(s) {
			res.Protected++
			metrics.RecordOutcome(src, "protected")
			continue
		}
		if err := ctx.Err(); err != nil {
			return changes, fmt.Errorf("cancelled during delete pass: %w", err)
		}
		if !e.opts.DryRun {
			if err := e.store.Delete(ctx, s); err != nil {
				e.storeError(l, res, "delete", key, err)
				continue
			}
		}
		res.Deleted++
		metrics.RecordOutcome(src, "deleted")
		changes = append(changes, e.change(res, ChangeDeleted, key))
	}
	return changes, nil
}

func (e *Engine[E]) change(res *Result, t ChangeType, key string) Change {
	return Change{Source: res.Source, CycleID: res.CycleID, Type: t, Key: key, At: e.hooks.now()}
}

func (e *Engine[E]) storeError(l *zap.Logger, res *Result, op, key string, err error) {
	res.StoreErrors++
	metrics.RecordStoreError(e.source.Name(), op)
	l.Error("Store operation failed", zap.Error(NewError(KindStore, op, key, err)))
}

func (e *Engine[E]) skipReconcile(res *Result, reason string) {
	res.ReconcileSkipped = true
	res.SkipReason = reason
}

func (e *Engine[E]) fail(res *Result, detail string) {
	res.Phase = PhaseFailed
	res.Status = StatusFailed
	res.Detail = detail
	if !res.ReconcileSkipped && res.Deleted == 0 {
		res.ReconcileSkipped = true
		if res.SkipReason == "" {
			res.SkipReason = detail
		}
	}
}

func (e *Engine[E]) notify(ctx context.Context, l *zap.Logger, changes []Change) {
	if e.hooks.notifier == nil || len(changes) == 0 || e.opts.DryRun {
		return
	}
	if err := e.hooks.notifier.Notify(context.WithoutCancel(ctx), changes); err != nil {
		l.Warn("Failed to publish changes", zap.Int("changes", len(changes)), zap.Error(err))
	}
}
