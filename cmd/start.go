package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelter-sync/core/loader"
	"shelter-sync/core/logger"
	"shelter-sync/core/middleware/auth"
	"shelter-sync/core/middleware/rayid"
	"shelter-sync/core/scheduler"
	"shelter-sync/core/server"
	"shelter-sync/feature/animals"
	"shelter-sync/feature/events"
	"shelter-sync/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "shelter-sync/docs/swagger"
)

// @title Shelter Sync API
// @version 1.0
// @description Mirrors the abandoned-animal registry and crawled pet events.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync server and scheduler",
	Long:  `Starts the HTTP server, loads all enabled features and runs scheduled syncs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()
		logg := rt.logger

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
				return err
			}
			l.Debug("Request served", fields...)
			return nil
		})

		// Public endpoints.
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		app.Use(auth.New(auth.Config{
			ApiKey: rt.cfg.Server.ApiKey,
			Skip:   []string{"/metrics", "/swagger"},
		}))

		mgr := loader.NewManager()
		mgr.Register(animals.NewFeature(rt.cfg.Animals, rt.animals, logg))
		mgr.Register(events.NewFeature(rt.cfg.Events, rt.events, logg))
		mgr.Register(integrity.NewFeature(rt.storage, rt.cfg.Storage.Bucket, rt.db, rt.integrityOptions(), logg))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		sched, err := newScheduler(rt)
		if err != nil {
			return err
		}
		if sched != nil {
			if err := sched.Start(ctx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
		}

		serveErr := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("addr", rt.cfg.Server.Addr()))
			serveErr <- app.Listen(rt.cfg.Server.Addr())
		}()

		select {
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
		case <-ctx.Done():
		}

		logg.Info("Shutting down server...")
		return shutdown(app, sched, rt.cfg.Server, logg)
	},
}

// newScheduler registers a job per enabled feature. It returns nil when scheduling is off.
func newScheduler(rt *application) (*scheduler.Scheduler, error) {
	if !rt.cfg.Scheduler.Enabled {
		rt.logger.Info("Scheduler disabled")
		return nil, nil
	}

	loc, err := time.LoadLocation(rt.cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone %q: %w", rt.cfg.Scheduler.Timezone, err)
	}

	sched := scheduler.New(loc, rt.logger.Named("scheduler"))
	if rt.cfg.Animals.Enabled {
		if err := sched.Add(animals.SourceName, rt.animals.Schedule(), func(ctx context.Context) {
			rt.animals.RunSync(ctx)
		}); err != nil {
			return nil, err
		}
	}
	if rt.cfg.Events.Enabled {
		if err := sched.Add(events.SourceName, rt.events.Schedule(), func(ctx context.Context) {
			rt.events.RunSync(ctx)
		}); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

// shutdown stops accepting requests, then waits for running cycles.
func shutdown(app *fiber.App, sched *scheduler.Scheduler, cfg server.Config, logg *zap.Logger) error {
	timeout := cfg.ShutdownTimeout()
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		logg.Warn("Server shutdown incomplete", zap.Error(err))
	}
	if sched == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := sched.Stop(ctx); err != nil {
		logg.Warn("Scheduled cycles still running at shutdown", zap.Error(err))
	}
	return nil
}

func init() {
	RootCmd.AddCommand(startCmd)
}
