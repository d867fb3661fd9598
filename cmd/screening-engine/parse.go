// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/medline"
	"github.com/pdiddy/screening-engine/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [medline-file]",
	Short: "Parse a MEDLINE export and list its records",
	Long: `Parse reads a PubMed MEDLINE export file and prints the article
records it contains. Records without a PMID are dropped. Use --json for
machine-readable output.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	formatRecordTable(records)
	return nil
}

// loadRecords reads and parses a MEDLINE export file. Zero parsed
// records from non-empty input is a user-facing error: the file is
// probably not a MEDLINE export.
func loadRecords(path string) ([]types.ArticleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MEDLINE file: %w", err)
	}

	records := medline.ParseRecords(string(data))
	if len(records) == 0 && len(data) > 0 {
		return nil, fmt.Errorf("no PMID- records found in %s: is it a MEDLINE export?", path)
	}
	return records, nil
}

func formatRecordTable(records []types.ArticleRecord) {
	if len(records) == 0 {
		fmt.Println("No records found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-60s  %s\n", "PMID", "Title", "Types")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, rec := range records {
		title := rec.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-10s  %-60s  %s\n",
			rec.PMID, title, strings.Join(rec.PublicationTypes, ", "))
	}

	fmt.Fprintf(os.Stdout, "\n%d records\n", len(records))
}
