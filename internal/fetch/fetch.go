// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads MEDLINE records from the NCBI E-utilities API.
// See docs/ARCHITECTURE § Fetch.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/screening-engine/internal/httputil"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// efetchBase is the Entrez efetch endpoint. Declared as a var so tests
// can substitute an httptest server.
var efetchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

const (
	toolName = "screening-engine"

	defaultBatchSize  = 200
	defaultBatchDelay = 350 * time.Millisecond
)

// FetchMEDLINE downloads the MEDLINE-format records for the given PMIDs,
// batched to respect Entrez URL-length and rate limits, and returns the
// concatenated export text. Progress is reported to w per batch.
func FetchMEDLINE(ctx context.Context, client *http.Client, pmids []string, cfg types.FetchConfig, w io.Writer) (string, error) {
	if len(pmids) == 0 {
		return "", fmt.Errorf("no PMIDs to fetch")
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	delay := cfg.BatchDelay
	if delay <= 0 {
		delay = defaultBatchDelay
	}

	batches := (len(pmids) + batchSize - 1) / batchSize

	var out strings.Builder
	for i := 0; i < len(pmids); i += batchSize {
		end := i + batchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batch := pmids[i:end]
		batchNum := i/batchSize + 1

		if batchNum > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		text, err := fetchBatch(ctx, client, batch, cfg)
		if err != nil {
			return "", fmt.Errorf("batch %d/%d: %w", batchNum, batches, err)
		}
		out.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			out.WriteString("\n")
		}

		fmt.Fprintf(w, "fetched batch %d/%d (%d PMIDs)\n", batchNum, batches, len(batch))
	}

	return out.String(), nil
}

func fetchBatch(ctx context.Context, client *http.Client, pmids []string, cfg types.FetchConfig) (string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"rettype": {"medline"},
		"retmode": {"text"},
		"tool":    {toolName},
	}
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}
	if cfg.Email != "" {
		params.Set("email", cfg.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, efetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading efetch response: %w", err)
	}
	return string(body), nil
}

// ParsePMIDs reads a PMID list in the exclusion-list text format: one
// PMID per line, blank lines and #/"//" comments ignored, optional
// PMID- prefix stripped. Order is preserved; repeats are dropped.
func ParsePMIDs(raw string) []string {
	seen := make(map[string]struct{})
	var pmids []string
	for _, line := range strings.Split(raw, "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" || strings.HasPrefix(entry, "#") || strings.HasPrefix(entry, "//") {
			continue
		}
		entry = strings.TrimSpace(strings.TrimPrefix(entry, "PMID-"))
		if entry == "" {
			continue
		}
		if _, dup := seen[entry]; dup {
			continue
		}
		seen[entry] = struct{}{}
		pmids = append(pmids, entry)
	}
	return pmids
}
