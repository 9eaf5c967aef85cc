package integrity

import (
	"context"
	"time"

	"shelter-sync/core/storage"
	"shelter-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options selects what the integrity checks look at.
type Options struct {
	// Prefixes must each hold at least one object.
	Prefixes []string
	// SnapshotPrefix is where crawl snapshots land.
	SnapshotPrefix string
	// SnapshotMaxAge marks the newest snapshot stale. Zero disables it.
	SnapshotMaxAge time.Duration
	// Models are the tables whose schema is checked.
	Models []checks.Model
}

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	db     *gorm.DB
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, db *gorm.DB, opts Options, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		db:     db,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// CheckStorage returns the required prefixes that are empty.
func (s *Service) CheckStorage(ctx context.Context) ([]string, error) {
	return checks.CheckPrefixes(ctx, s.client, s.bucket, s.opts.Prefixes)
}

// FixStorage creates folder markers for the missing prefixes.
func (s *Service) FixStorage(ctx context.Context, missing []string) error {
	return checks.FixPrefixes(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSnapshot reports on the newest crawl snapshot.
func (s *Service) CheckSnapshot(ctx context.Context) (*checks.SnapshotReport, error) {
	return checks.CheckSnapshot(ctx, s.client, s.bucket, s.opts.SnapshotPrefix, s.opts.SnapshotMaxAge, s.now())
}

// CheckSchema compares the mirrored tables against their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.opts.Models...)
}
