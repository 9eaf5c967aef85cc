package cmd

import (
	"context"
	"errors"
	"fmt"

	"shelter-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the storage layout and the mirror schema",
	Long:  `Checks that the storage bucket has the expected prefixes, that the latest crawl snapshot is fresh, and that the mirror tables match their models.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), true, true)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix storage prefixes and snapshot freshness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), true, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the mirror tables against their models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(storageCmd, schemaCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing prefixes")
}

func runIntegrity(ctx context.Context, runStorage, runSchema bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	logg := rt.logger

	svc := integrity.NewService(rt.storage, rt.cfg.Storage.Bucket, rt.db, rt.integrityOptions(), logg)
	healthy := true

	if runStorage {
		logg.Info("Checking storage prefixes...")
		missing, err := svc.CheckStorage(ctx)
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}

		switch {
		case len(missing) == 0:
			logg.Info("Storage prefixes are intact.")
		case fixFlag:
			logg.Warn("Missing prefixes detected", zap.Strings("missing", missing))
			if err := svc.FixStorage(ctx, missing); err != nil {
				return fmt.Errorf("failed to fix storage: %w", err)
			}
			logg.Info("Storage prefixes fixed.")
		default:
			healthy = false
			logg.Warn("Missing prefixes detected", zap.Strings("missing", missing))
			logg.Info("Run with --fix to create missing prefixes.")
		}

		snap, err := svc.CheckSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("snapshot check failed: %w", err)
		}
		if snap.Status == "ok" {
			logg.Info("Latest crawl snapshot is fresh.", zap.String("key", snap.Key), zap.String("age", snap.Age))
		} else {
			healthy = false
			logg.Warn("Crawl snapshot needs attention",
				zap.String("status", snap.Status),
				zap.String("key", snap.Key),
				zap.String("age", snap.Age),
			)
		}
	}

	if runSchema {
		logg.Info("Checking mirror schema...", zap.String("driver", rt.cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Mirror schema matches the models.")
		} else {
			healthy = false
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				logg.Warn("Table mismatch",
					zap.String("table", table),
					zap.String("status", tbl.Status),
					zap.Strings("missing_columns", tbl.MissingColumns),
					zap.Strings("type_mismatches", tbl.TypeMismatches),
					zap.Strings("null_mismatches", tbl.NullMismatches),
				)
			}
			for _, e := range report.Errors {
				logg.Error("Inspection error", zap.String("error", e))
			}
		}
	}

	if !healthy {
		return errors.New("integrity checks found problems")
	}
	return nil
}
