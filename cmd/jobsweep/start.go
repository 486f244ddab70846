package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sweeping daemon",
	Long:  "Runs every enabled search on the configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logConfig(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recordSink, err := openSink(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open sink", "error", err)
		os.Exit(1)
	}
	defer recordSink.Close()

	runners := buildRunners(cfg, buildFetcher(cfg, logger), recordSink, setupNotifier(cfg, logger), logger)
	if len(runners) == 0 {
		logger.Error("no searches to run")
		os.Exit(1)
	}

	sched := scheduler.NewScheduler(asRunners(runners), cfg.Pipeline.Interval, cfg.Pipeline.Pause, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

func logConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("config loaded",
		"site", cfg.Site.BaseURL,
		"searches", len(cfg.EnabledSearches()),
		"interval", cfg.Pipeline.Interval.String(),
		"window", cfg.Pipeline.Window,
		"batch_size", cfg.Pipeline.BatchSize,
		"transport", cfg.Transport.Type,
		"sink", cfg.Sink.Type,
	)
}
