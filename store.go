package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/simshi01/thansgiving-day/app/db"
	"github.com/simshi01/thansgiving-day/app/sweeper"
	"github.com/simshi01/thansgiving-day/config"
	"github.com/spf13/cobra"
)

// openStore connects to the configured message store. SQL stores are
// migrated before they are handed out.
func openStore(ctx context.Context, cfg config.StorageConfig) (db.MessageRepository, error) {
	if cfg.Driver == "redis" {
		rd := db.NewRedisDriver(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rd.Ping(ctx); err != nil {
			_ = rd.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return rd, nil
	}

	conn, err := db.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	gd := db.NewGormDriver(conn)
	if err := db.Migrate(conn); err != nil {
		_ = gd.Close()
		return nil, err
	}
	return gd, nil
}

func newMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the messages table",
		Long:  "Creates the messages table and its indexes in the configured SQL store. Safe to run multiple times.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runMigrate(cmd.OutOrStdout(), cfg.Storage)
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func runMigrate(out io.Writer, cfg config.StorageConfig) error {
	if cfg.Driver == "redis" {
		fmt.Fprintln(out, "Redis store needs no migration")
		return nil
	}

	conn, err := db.Connect(cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := db.Migrate(conn); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %s store\n", cfg.Driver)
	return nil
}

func newSweepCmd() *cobra.Command {
	var (
		configPath string
		maxAge     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Deactivate old messages once",
		Long:  "Marks every message older than the sweep max age inactive, the same job serve runs on its cron schedule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if maxAge > 0 {
				cfg.Sweep.MaxAge = maxAge
			}
			return runSweep(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "override sweep.max_age, e.g. 30m")
	return cmd
}

func runSweep(ctx context.Context, out io.Writer, cfg *config.Config) error {
	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	sweep, err := sweeper.New(store, cfg.Sweep.Cron, cfg.Sweep.MaxAge)
	if err != nil {
		return err
	}
	n, err := sweep.RunOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deactivated %d messages older than %s\n", n, cfg.Sweep.MaxAge)
	return nil
}
