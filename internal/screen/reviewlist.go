// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// ListFormat selects how review exclusion-list entries are written.
type ListFormat string

const (
	// FormatPMID writes one bare PMID per line.
	FormatPMID ListFormat = "pmid"

	// FormatPMIDWithTitle writes "PMID-<id> # <truncated title>" per line.
	FormatPMIDWithTitle ListFormat = "pmid-with-title"

	// FormatTitle writes one title per line.
	FormatTitle ListFormat = "title"
)

const titleCommentWidth = 80

// WriteReviewList writes an exclusion list of the review-type records to
// w, in a format readable back by exclusion.ParseList. It returns the
// number of review articles written.
func WriteReviewList(w io.Writer, records []types.ArticleRecord, format ListFormat) (int, error) {
	var reviews []types.ArticleRecord
	for _, rec := range records {
		if IsReview(rec) {
			reviews = append(reviews, rec)
		}
	}

	header := fmt.Sprintf(
		"# Review articles exclusion list\n"+
			"# Generated from MEDLINE publication types on %s\n"+
			"# Total reviews found: %d\n\n",
		time.Now().Format("2006-01-02"), len(reviews))
	if _, err := io.WriteString(w, header); err != nil {
		return 0, err
	}

	for _, rec := range reviews {
		var line string
		switch format {
		case FormatPMIDWithTitle:
			line = fmt.Sprintf("PMID-%s # %s\n", rec.PMID, truncateTitle(rec.Title))
		case FormatTitle:
			line = rec.Title + "\n"
		default:
			line = rec.PMID + "\n"
		}
		if _, err := io.WriteString(w, line); err != nil {
			return 0, err
		}
	}
	return len(reviews), nil
}

func truncateTitle(title string) string {
	if len(title) <= titleCommentWidth {
		return title
	}
	return title[:titleCommentWidth] + "..."
}
