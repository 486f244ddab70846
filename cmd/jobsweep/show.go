package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobsweep/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show <url>",
	Short: "Print a stored record",
	Long:  "Looks up a record by its canonical URL in the SQLite sink and prints it as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Sink.Type != "sqlite" {
		fmt.Fprintf(os.Stderr, "show reads the sqlite sink; sink.type is %q\n", cfg.Sink.Type)
		os.Exit(1)
	}

	sq, err := store.NewSQLiteSink(cfg.Sink.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sq.Close()

	found, err := printRecord(cmd.Context(), os.Stdout, sq, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "no record stored for %s\n", args[0])
		os.Exit(1)
	}
	return nil
}

func printRecord(ctx context.Context, w io.Writer, sq *store.SQLiteSink, url string) (bool, error) {
	rec, ok, err := sq.Get(ctx, url)
	if err != nil || !ok {
		return false, err
	}
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encoding record: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return true, nil
}
