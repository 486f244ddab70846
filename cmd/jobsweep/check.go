package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run every enabled search once, log records, exit",
	Long:  "Dry run: discovers and enriches like `run` but logs each record instead of storing it.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: no records will be stored")

	runners := buildRunners(cfg, buildFetcher(cfg, logger), store.NewLogSink(logger), setupNotifier(cfg, logger), logger)
	if len(runners) == 0 {
		logger.Error("no searches to run")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, r := range runners {
		if ctx.Err() != nil {
			break
		}
		if _, err := r.Run(ctx); err != nil {
			logger.Error("search failed", "search", r.Name(), "error", err)
		}
	}

	logger.Info("check complete")
	return nil
}
