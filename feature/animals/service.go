package animals

import (
	"context"

	"shelter-sync/core/reconcile"

	"go.uber.org/zap"
)

// Service runs registry syncs and serves mirrored animals.
type Service struct {
	cfg    Config
	store  *Store
	engine *reconcile.Engine[*Animal]
	runner *reconcile.Runner
	logger *zap.Logger
}

// NewService wires the pager, engine and runner for the registry.
func NewService(
	cfg Config,
	store *Store,
	fetch reconcile.PageFunc[Record],
	logger *zap.Logger,
	engineOpts []reconcile.EngineOption,
	runnerOpts []reconcile.RunnerOption,
) *Service {
	pager := reconcile.NewPager(fetch, reconcile.PagerConfig{
		Source:      SourceName,
		PageSize:    cfg.PageSize,
		MaxPages:    cfg.MaxPages,
		PageTimeout: cfg.PageTimeout(),
	}, logger)

	engine := reconcile.NewEngine[*Animal](
		NewSource(pager, cfg.Partitions()),
		store,
		Policy{ProtectedState: cfg.ProtectedState},
		reconcile.Options{
			DeleteAbsent:         cfg.DeleteAbsent,
			MergePartial:         true,
			AllowEmptySweep:      cfg.AllowEmptySweep,
			PartitionConcurrency: cfg.PartitionConcurrency,
		},
		logger,
		engineOpts...,
	)

	return &Service{
		cfg:    cfg,
		store:  store,
		engine: engine,
		runner: reconcile.NewRunner(SourceName, engine.Run, logger, runnerOpts...),
		logger: logger,
	}
}

// Prepare migrates the animals table.
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

// Get returns one mirrored animal.
func (s *Service) Get(ctx context.Context, desertionNo string) (*Animal, bool, error) {
	return s.store.FindByKey(ctx, desertionNo)
}

// List returns a page of mirrored animals.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Animal, int64, error) {
	return s.store.List(ctx, f)
}

// Schedule returns the cron expression of the scheduled sync.
func (s *Service) Schedule() string {
	return s.cfg.Schedule
}
