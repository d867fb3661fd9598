// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// ResultFile is the on-disk snapshot of a filtering run. The reviewer
// can save a run to a file and audit or re-export it later without
// re-running the pipeline.
type ResultFile struct {
	Source     string                `yaml:"source,omitempty"`
	Options    OptionsSummary        `yaml:"options"`
	Thresholds types.MatcherConfig   `yaml:"thresholds"`
	Summary    RunSummary            `yaml:"summary"`
	Kept       []types.ArticleRecord `yaml:"kept"`
	Removed    Removed               `yaml:"removed"`
}

// OptionsSummary stores the stage toggles and list sizes that produced
// the result.
type OptionsSummary struct {
	RemoveDuplicates   bool `yaml:"remove_duplicates"`
	RemoveReviews      bool `yaml:"remove_reviews"`
	ExcludeAllSize     int  `yaml:"exclude_all_size"`
	ExcludeReviewsSize int  `yaml:"exclude_reviews_size"`
	ExcludeUsefulSize  int  `yaml:"exclude_useful_size"`
}

// RunSummary stores the counters and a timestamp.
type RunSummary struct {
	TotalProcessed int       `yaml:"total_processed"`
	Kept           int       `yaml:"kept"`
	Counts         Counts    `yaml:"counts"`
	Timestamp      time.Time `yaml:"timestamp"`
}

// summarizeOptions converts pipeline options to their serializable form.
func summarizeOptions(opts Options) OptionsSummary {
	return OptionsSummary{
		RemoveDuplicates:   opts.RemoveDuplicates,
		RemoveReviews:      opts.RemoveReviews,
		ExcludeAllSize:     len(opts.ExcludeAll),
		ExcludeReviewsSize: len(opts.ExcludeReviews),
		ExcludeUsefulSize:  len(opts.ExcludeUseful),
	}
}

// WriteResultFile saves a filtering run to a YAML file.
func WriteResultFile(path, source string, opts Options, cfg types.MatcherConfig, res Result) error {
	rf := ResultFile{
		Source:     source,
		Options:    summarizeOptions(opts),
		Thresholds: cfg,
		Summary: RunSummary{
			TotalProcessed: res.TotalProcessed,
			Kept:           len(res.Kept),
			Counts:         res.Counts,
			Timestamp:      time.Now(),
		},
		Kept:    res.Kept,
		Removed: res.Removed,
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved filtering run from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
