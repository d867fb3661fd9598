// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/exclusion"
	"github.com/pdiddy/screening-engine/internal/runstore"
	"github.com/pdiddy/screening-engine/internal/screen"
	"github.com/pdiddy/screening-engine/pkg/types"
)

var filterCmd = &cobra.Command{
	Use:   "filter [medline-file]",
	Short: "Run the screening pipeline over a MEDLINE export",
	Long: `Filter parses a MEDLINE export and applies the screening pipeline:
duplicate removal, automatic review detection, then up to three exclusion
lists ("all articles" already processed, known review articles, and
articles already accepted as useful). Stages run in that fixed order,
each over the survivors of the previous one.

Exclusion lists are plain text, one entry per line; # and // start
comments. Entries may be PMIDs (with or without a PMID- prefix) or
partial titles; titles are matched fuzzily.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().Bool("keep-duplicates", false, "skip the duplicate-removal stage")
	filterCmd.Flags().Bool("keep-reviews", false, "skip automatic review removal")
	filterCmd.Flags().String("exclude-all", "", "exclusion list of previously processed articles")
	filterCmd.Flags().String("exclude-reviews", "", "exclusion list of known review articles")
	filterCmd.Flags().String("exclude-useful", "", "exclusion list of already accepted articles")
	filterCmd.Flags().String("out", "", "write the full result to a YAML file")
	filterCmd.Flags().Bool("save", false, "save the run to the run store")
	filterCmd.Flags().String("data-dir", "data", "base directory for the run store")
	filterCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	source := args[0]
	records, err := loadRecords(source)
	if err != nil {
		return err
	}

	keepDuplicates, _ := cmd.Flags().GetBool("keep-duplicates")
	keepReviews, _ := cmd.Flags().GetBool("keep-reviews")

	opts := screen.Options{
		RemoveDuplicates: !keepDuplicates,
		RemoveReviews:    !keepReviews,
	}

	lists := []struct {
		flag string
		dest *map[string]struct{}
	}{
		{"exclude-all", &opts.ExcludeAll},
		{"exclude-reviews", &opts.ExcludeReviews},
		{"exclude-useful", &opts.ExcludeUseful},
	}
	for _, l := range lists {
		path, _ := cmd.Flags().GetString(l.flag)
		if path == "" {
			continue
		}
		set, err := loadExclusionList(path)
		if err != nil {
			return err
		}
		*l.dest = set
	}

	cfg := matcherConfig()
	res := screen.Filter(records, opts, cfg)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		formatFilterSummary(source, res)
	}

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		if err := screen.WriteResultFile(outPath, source, opts, cfg, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Result written to %s\n", outPath)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		store, err := runstore.NewStore(types.StoreConfig{DataDir: dataDir})
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.SaveRun(context.Background(), source, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run saved as %s\n", id)
	}

	return nil
}

func loadExclusionList(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading exclusion list: %w", err)
	}
	return exclusion.ParseList(string(data)), nil
}

func formatFilterSummary(source string, res screen.Result) {
	fmt.Printf("Processed %d articles from %s\n\n", res.TotalProcessed, source)
	fmt.Printf("  duplicates removed:       %d\n", res.Counts.Duplicates)
	fmt.Printf("  reviews removed:          %d\n", res.Counts.Reviews)
	fmt.Printf("  excluded (all list):      %d\n", res.Counts.ExcludedAll)
	fmt.Printf("  excluded (reviews list):  %d\n", res.Counts.ExcludedReviews)
	fmt.Printf("  excluded (useful list):   %d\n", res.Counts.ExcludedUseful)
	fmt.Printf("\n  kept: %d\n", len(res.Kept))

	if res.TotalProcessed > 0 && len(res.Kept) == 0 {
		fmt.Fprintln(os.Stderr, "warning: every article was filtered out; check the exclusion lists")
	}
}
