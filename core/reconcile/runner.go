package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shelter-sync/core/lock"
	"shelter-sync/core/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CycleFunc runs one cycle. Engine.Run satisfies it.
type CycleFunc func(ctx context.Context) *Result

// Locker guards a cycle across processes.
type Locker interface {
	// WithLock runs fn while the lock is held. fn's context is cancelled if the lock is lost.
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// ReportSink persists finished cycle results.
type ReportSink interface {
	Save(ctx context.Context, res *Result) error
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLocker adds a cross-process guard held for the duration of each cycle.
func WithLocker(l Locker, ttl time.Duration) RunnerOption {
	return func(r *Runner) {
		r.locker = l
		r.lockTTL = ttl
	}
}

// WithReportSink archives every finished cycle.
func WithReportSink(s ReportSink) RunnerOption {
	return func(r *Runner) { r.sinks = append(r.sinks, s) }
}

// Runner is the single-flight trigger boundary for one source.
// Overlapping triggers within the process join the in-flight cycle and receive its
// result. Panics inside a cycle are recovered and reported as failed.
type Runner struct {
	name    string
	run     CycleFunc
	logger  *zap.Logger
	locker  Locker
	lockTTL time.Duration
	sinks   []ReportSink

	sf      singleflight.Group
	mu      sync.RWMutex
	running bool
	last    *Result
}

// NewRunner creates a Runner for the named source.
func NewRunner(name string, run CycleFunc, logger *zap.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{name: name, run: run, logger: logger, lockTTL: time.Minute}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Name returns the source name.
func (r *Runner) Name() string {
	return r.name
}

// Trigger runs a cycle, or joins the one already running.
func (r *Runner) Trigger(ctx context.Context) *Result {
	v, _, shared := r.sf.Do(r.name, func() (any, error) {
		return r.execute(ctx), nil
	})
	if shared {
		r.logger.Debug("Joined in-flight sync cycle", zap.String("source", r.name))
	}
	return v.(*Result)
}

// IsRunning reports whether a cycle is in progress.
func (r *Runner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// Last returns the result of the most recent finished cycle, or nil.
func (r *Runner) Last() *Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

func (r *Runner) execute(ctx context.Context) (res *Result) {
	r.setRunning(true)
	metrics.CyclesInFlight.WithLabelValues(r.name).Inc()
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Sync cycle panicked", zap.String("source", r.name), zap.Any("panic", p))
			res = failedResult(r.name, fmt.Sprintf("panic: %v", p))
			metrics.RecordCycle(r.name, string(StatusFailed), 0)
		}
		metrics.CyclesInFlight.WithLabelValues(r.name).Dec()
		r.finish(ctx, res)
	}()

	if r.locker == nil {
		return r.run(ctx)
	}

	err := r.locker.WithLock(ctx, "cycle:"+r.name, r.lockTTL, func(lctx context.Context) error {
		res = r.run(lctx)
		return nil
	})
	switch {
	case errors.Is(err, lock.ErrNotAcquired):
		r.logger.Warn("Sync cycle already running in another process", zap.String("source", r.name))
		return failedResult(r.name, "cycle already running")
	case err != nil:
		r.logger.Error("Failed to acquire cycle lock", zap.String("source", r.name), zap.Error(err))
		return failedResult(r.name, fmt.Sprintf("lock unavailable: %v", err))
	}
	return res
}

func (r *Runner) finish(ctx context.Context, res *Result) {
	r.mu.Lock()
	r.running = false
	r.last = res
	r.mu.Unlock()

	for _, s := range r.sinks {
		if err := s.Save(context.WithoutCancel(ctx), res); err != nil {
			r.logger.Warn("Failed to save cycle report",
				zap.String("source", r.name),
				zap.String("cycle_id", res.CycleID),
				zap.Error(err))
		}
	}
}

func (r *Runner) setRunning(v bool) {
	r.mu.Lock()
	r.running = v
	r.mu.Unlock()
}

func failedResult(source, detail string) *Result {
	now := time.Now()
	return &Result{
		CycleID:          uuid.New().String(),
		Source:           source,
		Status:           StatusFailed,
		Detail:           detail,
		Phase:            PhaseFailed,
		StartedAt:        now,
		FinishedAt:       now,
		ReconcileSkipped: true,
		SkipReason:       detail,
	}
}
