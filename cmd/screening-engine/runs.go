// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/runstore"
	"github.com/pdiddy/screening-engine/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored screening runs",
	Long: `Runs manages the SQLite run store written by filter --save. Use
subcommands to list runs, show one run in full, search stored article
titles, or delete a run.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run with its kept and removed articles",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over stored article titles",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsSearch,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a run and its articles",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsCmd.PersistentFlags().String("data-dir", "data", "base directory for the run store")
	runsShowCmd.Flags().Bool("json", false, "output the run as JSON")
	runsSearchCmd.Flags().Int("max-results", 0, "maximum number of search hits (default 20)")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsSearchCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

func openRunStore(cmd *cobra.Command) (*runstore.Store, error) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	return runstore.NewStore(types.StoreConfig{DataDir: dataDir})
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-19s  %-24s  %6s  %6s  %7s\n",
		"ID", "Created", "Source", "Total", "Kept", "Removed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range runs {
		source := r.Source
		if len(source) > 24 {
			source = source[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-19s  %-24s  %6d  %6d  %7d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), source,
			r.TotalProcessed, r.Kept, r.Counts.Total())
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Printf("Run %s (%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.Source != "" {
		fmt.Printf("Source: %s\n", run.Source)
	}
	fmt.Printf("\nProcessed %d articles\n\n", run.TotalProcessed)
	fmt.Printf("  duplicates removed:       %d\n", run.Counts.Duplicates)
	fmt.Printf("  reviews removed:          %d\n", run.Counts.Reviews)
	fmt.Printf("  excluded (all list):      %d\n", run.Counts.ExcludedAll)
	fmt.Printf("  excluded (reviews list):  %d\n", run.Counts.ExcludedReviews)
	fmt.Printf("  excluded (useful list):   %d\n", run.Counts.ExcludedUseful)
	fmt.Printf("\n  kept: %d\n\n", run.Kept)

	formatRecordTable(run.KeptItems)
	return nil
}

func runRunsSearch(cmd *cobra.Command, args []string) error {
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	maxResults, _ := cmd.Flags().GetInt("max-results")
	hits, err := store.SearchTitles(context.Background(), args[0], maxResults)
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-60s  %-16s  %s\n", "PMID", "Title", "Stage", "Run")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, h := range hits {
		title := h.Record.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-60s  %-16s  %s\n",
			h.Record.PMID, title, h.Stage, h.RunID[:8])
	}
	fmt.Fprintf(os.Stdout, "\n%d matches\n", len(hits))
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteRun(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", args[0])
	return nil
}
