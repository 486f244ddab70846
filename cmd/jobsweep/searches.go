package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List all configured searches",
	Long:  "Reads the config and prints a table of all configured searches with their start URLs.",
	RunE:  runSearches,
}

func init() {
	rootCmd.AddCommand(searchesCmd)
}

func runSearches(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-25s %-8s %-9s %-8s %s\n", "Search", "Target", "MaxPages", "Details", "Status")
	fmt.Println(strings.Repeat("─", 62))

	enabled, disabled := 0, 0
	for _, s := range cfg.Searches {
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		fmt.Printf("%-25s %-8s %-9s %-8t %s\n", s.Name, limitLabel(s.TargetResults), limitLabel(s.MaxPages), s.CollectDetails, status)

		urls, err := s.StartURLs(cfg.Site)
		if err != nil {
			fmt.Printf("  ! %v\n", err)
			continue
		}
		for _, u := range urls {
			fmt.Printf("  %s\n", u)
		}
	}

	fmt.Printf("\nTotal: %d searches (%d enabled, %d disabled)\n", len(cfg.Searches), enabled, disabled)
	return nil
}

func limitLabel(n int) string {
	if n <= 0 {
		return "∞"
	}
	return fmt.Sprint(n)
}
