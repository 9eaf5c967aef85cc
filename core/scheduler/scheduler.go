package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyRunning is returned when trying to start a running scheduler
	ErrAlreadyRunning = errors.New("scheduler already running")
	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("duplicate job name")
)

// parser accepts six-field expressions with a leading seconds field, plus descriptors
// such as @hourly.
var parser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Parse validates a cron expression.
func Parse(spec string) (cron.Schedule, error) {
	s, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return s, nil
}

// JobFunc is invoked when a job fires. The context is cancelled on Stop.
type JobFunc func(ctx context.Context)

type job struct {
	name     string
	spec     string
	schedule cron.Schedule
}

// Scheduler fires registered jobs according to their cron expressions.
type Scheduler struct {
	cron   *cron.Cron
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	jobs    []*job
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler evaluating expressions in loc.
func New(loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLog := cron.PrintfLogger(zap.NewStdLog(logger))
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog)),
		),
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Add registers a job.
func (s *Scheduler) Add(name, spec string, fn JobFunc) error {
	schedule, err := Parse(spec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
		}
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() { s.fire(name, fn) }))
	s.jobs = append(s.jobs, &job{name: name, spec: spec, schedule: schedule})
	return nil
}

func (s *Scheduler) fire(name string, fn JobFunc) {
	s.mu.RLock()
	ctx := s.ctx
	s.mu.RUnlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	s.logger.Info("Running scheduled job", zap.String("job", name))
	fn(ctx)
}

// Next returns the next activation of the named job, computed from now.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.name == name {
			return j.schedule.Next(s.now().In(s.loc)), true
		}
	}
	return time.Time{}, false
}

// Start starts firing jobs. Cancelling ctx cancels running jobs and suppresses new ones.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()

	now := s.now().In(s.loc)
	for _, j := range s.jobs {
		s.logger.Info("Scheduled job",
			zap.String("job", j.name),
			zap.String("cron", j.spec),
			zap.Time("next", j.schedule.Next(now)))
	}
	return nil
}

// Stop stops firing, cancels running jobs and waits for them to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler...")
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler shutdown timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
