package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/runner"
	"github.com/amishk599/jobsweep/internal/scheduler"
	"github.com/amishk599/jobsweep/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every enabled search once, then exit",
	Long:  "One pass over the enabled searches: paginate, enrich, store and notify.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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
	summaries := sched.RunOnce(ctx)

	saved, failed := 0, 0
	for _, s := range summaries {
		saved += s.Saved
		if s.Err != nil {
			failed++
		}
	}
	attrs := []any{"searches", len(summaries), "saved", saved, "failed", failed}
	if sq, ok := recordSink.(*store.SQLiteSink); ok {
		if total, err := sq.Count(ctx); err == nil {
			attrs = append(attrs, "stored_total", total)
		}
	}
	logger.Info("run complete", attrs...)
	return nil
}

func asRunners(runners []*runner.SearchRunner) []scheduler.Runner {
	out := make([]scheduler.Runner, len(runners))
	for i, r := range runners {
		out[i] = r
	}
	return out
}
