package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/browse"
	"github.com/amishk599/jobsweep/internal/config"
	"github.com/amishk599/jobsweep/internal/model"
	"github.com/amishk599/jobsweep/internal/notifier"
	"github.com/amishk599/jobsweep/internal/store"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse listings interactively (TUI)",
	Long:  "Shows the search picker, discovers the chosen search's listings, then opens the listing browser.",
	RunE:  runBrowseCmd,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowseCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Anything written to stdout once the alt-screen is up corrupts the display.
	runBrowse(cfg, buildFetcher(cfg, discardLogger()))
	return nil
}

func runBrowse(cfg *config.Config, fetcher model.PageFetcher) {
	searches := cfg.EnabledSearches()
	if len(searches) == 0 {
		fmt.Println("No enabled searches in config.")
		return
	}

	silent := discardLogger()
	for {
		choice, err := browse.RunSearchPicker(searches)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return
		}
		if choice < 0 {
			return
		}
		search := searches[choice]

		r, err := newSearchRunner(cfg, search, fetcher, store.NewNopSink(), notifier.NewLogNotifier(silent), silent)
		if err != nil {
			fmt.Printf("Invalid search %q: %v\n", search.Name, err)
			continue
		}

		stubs, err := browse.RunLoader(search.Name, func(ctx context.Context) ([]model.ListingStub, error) {
			stubs, _, err := r.Discover(ctx)
			return stubs, err
		})
		if err != nil {
			fmt.Printf("Error discovering listings: %v\n", err)
			continue
		}

		wantQuit, err := browse.RunBrowser(search.Name, stubs, fetcher)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return
		}
	}
}
