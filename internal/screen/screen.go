// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen runs the article filtering pipeline: duplicate removal,
// review auto-detection, and exclusion-list filtering.
// See docs/ARCHITECTURE § Filtering Pipeline.
package screen

import (
	"github.com/pdiddy/screening-engine/internal/exclusion"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// Options selects which pipeline stages run. An empty exclusion set
// disables its stage.
type Options struct {
	// RemoveDuplicates enables the duplicate-detection stage.
	RemoveDuplicates bool

	// RemoveReviews enables automatic removal of review-type publications.
	RemoveReviews bool

	// ExcludeAll holds previously processed articles (IDs or titles).
	ExcludeAll map[string]struct{}

	// ExcludeReviews holds known review articles to reject.
	ExcludeReviews map[string]struct{}

	// ExcludeUseful holds articles already accepted in a prior pass.
	ExcludeUseful map[string]struct{}
}

// Counts holds the per-stage removal counters.
type Counts struct {
	Duplicates      int `json:"duplicates" yaml:"duplicates"`
	Reviews         int `json:"reviews" yaml:"reviews"`
	ExcludedAll     int `json:"excluded_all" yaml:"excluded_all"`
	ExcludedReviews int `json:"excluded_reviews" yaml:"excluded_reviews"`
	ExcludedUseful  int `json:"excluded_useful" yaml:"excluded_useful"`
}

// Total returns the number of records removed across all stages.
func (c Counts) Total() int {
	return c.Duplicates + c.Reviews + c.ExcludedAll + c.ExcludedReviews + c.ExcludedUseful
}

// Removed holds every record removed at each stage, in removal order.
// These are complete per-stage sets kept for audit and export, not
// subsamples.
type Removed struct {
	Duplicates      []types.ArticleRecord `json:"duplicates" yaml:"duplicates"`
	Reviews         []types.ArticleRecord `json:"reviews" yaml:"reviews"`
	ExcludedAll     []types.ArticleRecord `json:"excluded_all" yaml:"excluded_all"`
	ExcludedReviews []types.ArticleRecord `json:"excluded_reviews" yaml:"excluded_reviews"`
	ExcludedUseful  []types.ArticleRecord `json:"excluded_useful" yaml:"excluded_useful"`
}

// Result is the immutable outcome of one pipeline invocation.
// TotalProcessed always equals len(Kept) + Counts.Total().
type Result struct {
	// Kept lists the surviving records in their original relative order.
	Kept []types.ArticleRecord `json:"kept" yaml:"kept"`

	// Removed holds the per-stage removed records.
	Removed Removed `json:"removed" yaml:"removed"`

	// Counts holds the per-stage removal counters.
	Counts Counts `json:"counts" yaml:"counts"`

	// TotalProcessed is the input size before any filtering.
	TotalProcessed int `json:"total_processed" yaml:"total_processed"`
}

// Filter applies the pipeline stages in fixed order, each consuming the
// survivors of the previous one: duplicates, auto review-detection, then
// the three exclusion lists. The order matters: counts and removed sets
// reflect this sequential narrowing, not independent passes over the
// input. Filter never fails; an all-stages-disabled configuration passes
// every record through.
func Filter(records []types.ArticleRecord, opts Options, cfg types.MatcherConfig) Result {
	res := Result{TotalProcessed: len(records)}

	// Normalize each record once up front; every stage after this works
	// on precomputed profiles.
	working := make([]exclusion.Profile, len(records))
	for i, rec := range records {
		working[i] = exclusion.NewProfile(rec)
	}

	var removed []exclusion.Profile

	if opts.RemoveDuplicates {
		working, removed = dedupe(working)
		res.Removed.Duplicates = toRecords(removed)
		res.Counts.Duplicates = len(removed)
	}

	if opts.RemoveReviews {
		working, removed = splitReviews(working)
		res.Removed.Reviews = toRecords(removed)
		res.Counts.Reviews = len(removed)
	}

	working, removed = applyList(working, opts.ExcludeAll, cfg)
	res.Removed.ExcludedAll = toRecords(removed)
	res.Counts.ExcludedAll = len(removed)

	working, removed = applyList(working, opts.ExcludeReviews, cfg)
	res.Removed.ExcludedReviews = toRecords(removed)
	res.Counts.ExcludedReviews = len(removed)

	working, removed = applyList(working, opts.ExcludeUseful, cfg)
	res.Removed.ExcludedUseful = toRecords(removed)
	res.Counts.ExcludedUseful = len(removed)

	res.Kept = toRecords(working)
	return res
}

// applyList partitions profiles by exclusion-set membership. An empty
// set keeps everything and reports nothing removed.
func applyList(profiles []exclusion.Profile, set map[string]struct{}, cfg types.MatcherConfig) (kept, removed []exclusion.Profile) {
	if len(set) == 0 {
		return profiles, nil
	}

	m := exclusion.NewMatcher(set, cfg)
	for _, p := range profiles {
		if m.Excludes(p) {
			removed = append(removed, p)
		} else {
			kept = append(kept, p)
		}
	}
	return kept, removed
}

func toRecords(profiles []exclusion.Profile) []types.ArticleRecord {
	if len(profiles) == 0 {
		return nil
	}
	records := make([]types.ArticleRecord, len(profiles))
	for i, p := range profiles {
		records[i] = p.Record
	}
	return records
}
