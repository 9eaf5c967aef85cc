package cmd

import (
	"context"
	"fmt"
	"time"

	"shelter-sync/core/config"
	"shelter-sync/core/database"
	"shelter-sync/core/lock"
	"shelter-sync/core/logger"
	"shelter-sync/core/notify"
	"shelter-sync/core/reconcile"
	"shelter-sync/core/storage"
	"shelter-sync/feature/animals"
	"shelter-sync/feature/events"
	"shelter-sync/feature/integrity"
	"shelter-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reportPrefix holds archived cycle results in the bucket.
const reportPrefix = "reports/"

// application holds the dependencies shared by the commands.
type application struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	storage storage.Client
	animals *animals.Service
	events  *events.Service
	closers []func() error
}

// bootstrap loads configuration and wires every dependency.
func bootstrap(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	rt := &application{cfg: cfg, logger: logg}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rt.db = db
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	rt.storage = client
	if created, err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		logg.Warn("Storage bucket unavailable; event syncs and reports will fail", zap.Error(err))
	} else if created {
		logg.Info("Created storage bucket", zap.String("bucket", cfg.Storage.Bucket))
	}

	var (
		engineOpts []reconcile.EngineOption
		runnerOpts = []reconcile.RunnerOption{
			reconcile.WithReportSink(reconcile.NewStorageSink(client, cfg.Storage.Bucket, reportPrefix)),
		}
	)

	if cfg.Redis.Enabled {
		rdb, err := lock.Connect(ctx, cfg.Redis)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.closers = append(rt.closers, rdb.Close)
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		runnerOpts = append(runnerOpts, reconcile.WithLocker(lock.NewLocker(rdb, cfg.Redis.KeyPrefix, logg), ttl))
		logg.Info("Cross-process cycle lock enabled", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Kafka.Enabled {
		pub := notify.NewPublisher(cfg.Kafka, logg)
		rt.closers = append(rt.closers, pub.Close)
		engineOpts = append(engineOpts, reconcile.WithNotifier(pub))
		logg.Info("Change publishing enabled", zap.String("topic", cfg.Kafka.Topic))
	}

	registry := animals.NewClient(cfg.Animals.BaseURL, cfg.Animals.ServiceKey, nil)
	rt.animals = animals.NewService(cfg.Animals, animals.NewStore(db), registry.FetchPage,
		logg.Named("animals"), engineOpts, runnerOpts)

	crawler := events.NewCrawler(client, cfg.Storage.Bucket, cfg.Events.SnapshotPrefix, cfg.Events.SnapshotRetention, logg)
	rt.events = events.NewService(cfg.Events, events.NewStore(db), crawler,
		logg.Named("events"), engineOpts, runnerOpts)

	if err := rt.animals.Prepare(ctx); err != nil {
		rt.Close()
		return nil, err
	}
	if err := rt.events.Prepare(ctx); err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}

// integrityOptions returns what the integrity checks inspect.
func (rt *application) integrityOptions() integrity.Options {
	return integrity.Options{
		Prefixes:       []string{rt.cfg.Events.SnapshotPrefix, reportPrefix},
		SnapshotPrefix: rt.cfg.Events.SnapshotPrefix,
		SnapshotMaxAge: 26 * time.Hour,
		Models:         []checks.Model{animals.Animal{}, events.PetEvent{}},
	}
}

// Close releases the optional connections and flushes the logger.
func (rt *application) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
	rt.closers = nil
	_ = rt.logger.Sync()
}
