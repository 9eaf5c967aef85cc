package events

import (
	"context"
	"time"

	"shelter-sync/core/logger"
	"shelter-sync/core/reconcile"

	"go.uber.org/zap"
)

const snapshotTimeout = time.Minute

// Service runs event syncs and serves mirrored events.
type Service struct {
	cfg     Config
	store   *Store
	crawler *Crawler
	engine  *reconcile.Engine[*PetEvent]
	runner  *reconcile.Runner
	logger  *zap.Logger
}

// NewService wires the crawl source, engine and runner.
// A crawl that cannot be read aborts the cycle before any write, and nothing is ever deleted.
func NewService(
	cfg Config,
	store *Store,
	crawler *Crawler,
	logger *zap.Logger,
	engineOpts []reconcile.EngineOption,
	runnerOpts []reconcile.RunnerOption,
) *Service {
	s := &Service{
		cfg:     cfg,
		store:   store,
		crawler: crawler,
		logger:  logger,
	}
	s.engine = reconcile.NewEngine[*PetEvent](
		NewSource(crawler, snapshotTimeout),
		store,
		Policy{},
		reconcile.Options{},
		logger,
		engineOpts...,
	)
	s.runner = reconcile.NewRunner(SourceName, s.cycle, logger, runnerOpts...)
	return s
}

// cycle runs the engine and prunes old snapshots after a successful write.
func (s *Service) cycle(ctx context.Context) *reconcile.Result {
	res := s.engine.Run(ctx)
	if !res.OK() || res.DryRun {
		return res
	}
	if _, err := s.crawler.Prune(ctx); err != nil {
		logger.WithCycle(s.logger, res.Source, res.CycleID).Warn("Failed to prune crawl snapshots", zap.Error(err))
	}
	return res
}

// Prepare migrates the pet_event table.
func (s *Service) Prepare(ctx context.Context) error {
	return s.store.Migrate(ctx)
}

// RunSync runs one cycle, or joins the running one.
func (s *Service) RunSync(ctx context.Context) *reconcile.Result {
	return s.runner.Trigger(ctx)
}

// DryRun computes what a cycle would write without touching the store.
func (s *Service) DryRun(ctx context.Context) *reconcile.Result {
	opts := s.engine.Options()
	opts.DryRun = true
	return s.engine.WithOptions(opts).Run(ctx)
}

// Status reports whether a cycle is running and the last finished result.
func (s *Service) Status() (bool, *reconcile.Result) {
	return s.runner.IsRunning(), s.runner.Last()
}

// Get returns one event by hash.
func (s *Service) Get(ctx context.Context, hash string) (*PetEvent, bool, error) {
	return s.store.FindByKey(ctx, hash)
}

// Recent returns the latest updated events.
func (s *Service) Recent(ctx context.Context, limit int) ([]PetEvent, error) {
	return s.store.Recent(ctx, limit)
}

// Schedule returns the cron expression of the scheduled sync.
func (s *Service) Schedule() string {
	return s.cfg.Schedule
}
