// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/fetch"
	"github.com/pdiddy/screening-engine/internal/secrets"
	"github.com/pdiddy/screening-engine/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "screening-engine/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [pmids...]",
	Short: "Download MEDLINE records from PubMed",
	Long: `Fetch downloads MEDLINE-format records for the given PMIDs from the
NCBI E-utilities API and writes them to a file for later parsing and
filtering. PMIDs come from arguments, from --input (one PMID per line,
PMID- prefixes and #-comments allowed), or both.

An NCBI API key raises the permitted request rate; place it in
.secrets/ncbi-api-key or pass --api-key.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("input", "", "file with PMIDs to fetch")
	fetchCmd.Flags().StringP("output", "o", "medline-export.txt", "output file for the MEDLINE records")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Int("batch-size", 0, "PMIDs per efetch request (default 200)")
	fetchCmd.Flags().Duration("batch-delay", 0, "delay between efetch requests (default 350ms)")
	fetchCmd.Flags().String("api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")
	fetchCmd.Flags().String("email", "", "Entrez contact email (default: .secrets/entrez-email)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	pmids := append([]string(nil), args...)

	if input, _ := cmd.Flags().GetString("input"); input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading PMID file: %w", err)
		}
		pmids = append(pmids, fetch.ParsePMIDs(string(data))...)
	}
	if len(pmids) == 0 {
		return fmt.Errorf("provide PMIDs as arguments or with --input")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	batchDelay, _ := cmd.Flags().GetDuration("batch-delay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	email, _ := cmd.Flags().GetString("email")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		BatchSize:  batchSize,
		BatchDelay: batchDelay,
		APIKey:     secretDefault(secrets.NCBIAPIKey, apiKey),
		Email:      secretDefault(secrets.EntrezEmail, email),
	}

	client := &http.Client{Timeout: cfg.Timeout}

	text, err := fetch.FetchMEDLINE(context.Background(), client, pmids, cfg, os.Stdout)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	fmt.Printf("Wrote %d PMIDs to %s\n", len(pmids), output)
	return nil
}
