// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"strings"

	"github.com/pdiddy/screening-engine/internal/exclusion"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// reviewKeywords mark review-type publications. Matched as substrings of
// each lower-cased PT tag, so "Systematic Review" and "Review of
// Reported Cases" both count.
var reviewKeywords = []string{"review", "systematic review", "meta-analysis"}

// IsReview reports whether any publication type marks the record as a
// review-type publication.
func IsReview(rec types.ArticleRecord) bool {
	for _, pt := range rec.PublicationTypes {
		lower := strings.ToLower(pt)
		for _, kw := range reviewKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// splitReviews partitions profiles into non-reviews and reviews,
// preserving relative order.
func splitReviews(profiles []exclusion.Profile) (kept, removed []exclusion.Profile) {
	for _, p := range profiles {
		if IsReview(p.Record) {
			removed = append(removed, p)
		} else {
			kept = append(kept, p)
		}
	}
	return kept, removed
}
