// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/screen"
)

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Build exclusion lists from MEDLINE exports",
}

var exclusionsGenerateCmd = &cobra.Command{
	Use:   "generate [medline-file]",
	Short: "Generate a review-articles exclusion list",
	Long: `Generate scans a MEDLINE export for review-type publications
(Review, Systematic Review, Meta-Analysis publication types) and writes
them as an exclusion list usable with filter --exclude-reviews.

Formats: pmid (one PMID per line), pmid-with-title (PMID plus a title
comment), title (one title per line).`,
	Args: cobra.ExactArgs(1),
	RunE: runExclusionsGenerate,
}

func init() {
	exclusionsGenerateCmd.Flags().StringP("output", "o", "review_articles_exclusion.txt", "output file for the exclusion list")
	exclusionsGenerateCmd.Flags().String("format", string(screen.FormatPMID), "entry format: pmid, pmid-with-title, or title")

	exclusionsCmd.AddCommand(exclusionsGenerateCmd)
	rootCmd.AddCommand(exclusionsCmd)
}

func runExclusionsGenerate(cmd *cobra.Command, args []string) error {
	records, err := loadRecords(args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch screen.ListFormat(format) {
	case screen.FormatPMID, screen.FormatPMIDWithTitle, screen.FormatTitle:
	default:
		return fmt.Errorf("unknown format %q: use pmid, pmid-with-title, or title", format)
	}

	output, _ := cmd.Flags().GetString("output")
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	n, err := screen.WriteReviewList(f, records, screen.ListFormat(format))
	if err != nil {
		return fmt.Errorf("writing exclusion list: %w", err)
	}

	fmt.Printf("Wrote %d review articles to %s\n", n, output)
	if n == 0 {
		fmt.Fprintln(os.Stderr, "warning: no review articles found in the export")
	}
	return nil
}
