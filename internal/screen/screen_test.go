// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"testing"

	"github.com/pdiddy/screening-engine/internal/exclusion"
	"github.com/pdiddy/screening-engine/pkg/types"
)

func article(pmid, title string, pts ...string) types.ArticleRecord {
	return types.ArticleRecord{
		PMID:             pmid,
		Title:            title,
		Abstract:         types.MissingField,
		PublicationTypes: pts,
	}
}

// checkAccounting verifies the pipeline invariant: total processed equals
// kept plus every removal counter.
func checkAccounting(t *testing.T, res Result) {
	t.Helper()
	if res.TotalProcessed != len(res.Kept)+res.Counts.Total() {
		t.Errorf("accounting broken: total %d != kept %d + removed %d",
			res.TotalProcessed, len(res.Kept), res.Counts.Total())
	}
}

func TestFilterPassThrough(t *testing.T) {
	records := []types.ArticleRecord{
		article("1", "First", "Review"),
		article("1", "First"),
		article("2", "Second"),
	}

	res := Filter(records, Options{}, types.DefaultMatcherConfig())

	if len(res.Kept) != 3 {
		t.Errorf("kept = %d, want 3 (all stages disabled)", len(res.Kept))
	}
	if res.Counts.Total() != 0 {
		t.Errorf("counts = %+v, want all zero", res.Counts)
	}
	checkAccounting(t, res)
}

func TestFilterDuplicateRemoval(t *testing.T) {
	records := []types.ArticleRecord{
		article("1", "Original title"),
		article("1", "A different title, same PMID"),
		article("2", "Second article"),
	}

	res := Filter(records, Options{RemoveDuplicates: true}, types.DefaultMatcherConfig())

	if len(res.Kept) != 2 {
		t.Fatalf("kept = %d, want 2", len(res.Kept))
	}
	if res.Counts.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1", res.Counts.Duplicates)
	}
	// The first occurrence of the identifier wins.
	if res.Kept[0].Title != "Original title" {
		t.Errorf("kept[0].Title = %q, want the first occurrence", res.Kept[0].Title)
	}
	if len(res.Removed.Duplicates) != 1 || res.Removed.Duplicates[0].Title != "A different title, same PMID" {
		t.Errorf("Removed.Duplicates = %+v", res.Removed.Duplicates)
	}
	checkAccounting(t, res)
}

func TestFilterDuplicateCaseInsensitivePMID(t *testing.T) {
	records := []types.ArticleRecord{
		article("AB12", "One"),
		article("ab12", "Two"),
	}

	res := Filter(records, Options{RemoveDuplicates: true}, types.DefaultMatcherConfig())
	if res.Counts.Duplicates != 1 {
		t.Errorf("duplicates = %d, want 1 (identifier compared case-insensitively)", res.Counts.Duplicates)
	}
}

func TestFilterReviewRemoval(t *testing.T) {
	records := []types.ArticleRecord{
		article("1", "A trial", "Journal Article"),
		article("2", "A review", "Systematic Review"),
		article("3", "A meta-analysis", "Meta-Analysis"),
	}

	res := Filter(records, Options{RemoveReviews: true}, types.DefaultMatcherConfig())

	if len(res.Kept) != 1 || res.Kept[0].PMID != "1" {
		t.Errorf("kept = %+v, want only PMID 1", res.Kept)
	}
	if res.Counts.Reviews != 2 {
		t.Errorf("reviews = %d, want 2", res.Counts.Reviews)
	}
	checkAccounting(t, res)

	// Disabled: the same input passes through.
	res = Filter(records, Options{}, types.DefaultMatcherConfig())
	if len(res.Kept) != 3 {
		t.Errorf("kept = %d, want 3 with auto-removal off", len(res.Kept))
	}
}

func TestFilterStageOrder(t *testing.T) {
	// A duplicate review article listed in ExcludeAll: the duplicate stage
	// claims the second copy, the review stage claims the survivor, and the
	// list stages see neither.
	records := []types.ArticleRecord{
		article("1", "Some review", "Review"),
		article("1", "Some review", "Review"),
	}
	opts := Options{
		RemoveDuplicates: true,
		RemoveReviews:    true,
		ExcludeAll:       exclusion.ParseList("1\n"),
	}

	res := Filter(records, opts, types.DefaultMatcherConfig())

	if res.Counts.Duplicates != 1 || res.Counts.Reviews != 1 || res.Counts.ExcludedAll != 0 {
		t.Errorf("counts = %+v, want duplicates=1 reviews=1 excluded_all=0", res.Counts)
	}
	if len(res.Kept) != 0 {
		t.Errorf("kept = %+v, want empty", res.Kept)
	}
	checkAccounting(t, res)
}

func TestFilterThreeListsApplyIndependently(t *testing.T) {
	records := []types.ArticleRecord{
		article("1", "Alpha study"),
		article("2", "Beta study"),
		article("3", "Gamma study"),
		article("4", "Delta study"),
	}
	opts := Options{
		ExcludeAll:     exclusion.ParseList("1\n"),
		ExcludeReviews: exclusion.ParseList("2\n"),
		ExcludeUseful:  exclusion.ParseList("3\n"),
	}

	res := Filter(records, opts, types.DefaultMatcherConfig())

	if res.Counts.ExcludedAll != 1 || res.Counts.ExcludedReviews != 1 || res.Counts.ExcludedUseful != 1 {
		t.Errorf("counts = %+v", res.Counts)
	}
	if len(res.Kept) != 1 || res.Kept[0].PMID != "4" {
		t.Errorf("kept = %+v, want only PMID 4", res.Kept)
	}
	checkAccounting(t, res)
}

func TestFilterEarlierListWins(t *testing.T) {
	// A record in two lists is charged to the first list that sees it.
	records := []types.ArticleRecord{article("1", "Shared entry")}
	opts := Options{
		ExcludeAll:     exclusion.ParseList("1\n"),
		ExcludeReviews: exclusion.ParseList("1\n"),
	}

	res := Filter(records, opts, types.DefaultMatcherConfig())
	if res.Counts.ExcludedAll != 1 || res.Counts.ExcludedReviews != 0 {
		t.Errorf("counts = %+v, want the first list to claim the record", res.Counts)
	}
}

func TestFilterOrderPreserved(t *testing.T) {
	records := []types.ArticleRecord{
		article("5", "E"), article("3", "C"), article("4", "D"),
		article("3", "C"), article("1", "A"),
	}

	res := Filter(records, Options{RemoveDuplicates: true}, types.DefaultMatcherConfig())

	want := []string{"5", "3", "4", "1"}
	if len(res.Kept) != len(want) {
		t.Fatalf("kept = %d records, want %d", len(res.Kept), len(want))
	}
	for i, pmid := range want {
		if res.Kept[i].PMID != pmid {
			t.Errorf("kept[%d].PMID = %q, want %q", i, res.Kept[i].PMID, pmid)
		}
	}
}

func TestFilterEmptyInput(t *testing.T) {
	res := Filter(nil, Options{RemoveDuplicates: true, RemoveReviews: true}, types.DefaultMatcherConfig())
	if res.TotalProcessed != 0 || len(res.Kept) != 0 || res.Counts.Total() != 0 {
		t.Errorf("empty input should yield an empty result, got %+v", res)
	}
}

func TestIsReview(t *testing.T) {
	tests := []struct {
		name string
		pts  []string
		want bool
	}{
		{"plain review", []string{"Review"}, true},
		{"systematic review", []string{"Systematic Review"}, true},
		{"meta-analysis", []string{"Meta-Analysis"}, true},
		{"lowercase tag", []string{"review"}, true},
		{"substring match", []string{"Review of Reported Cases"}, true},
		{"journal article", []string{"Journal Article"}, false},
		{"mixed tags", []string{"Journal Article", "Review"}, true},
		{"no tags", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := article("1", "T", tt.pts...)
			if got := IsReview(rec); got != tt.want {
				t.Errorf("IsReview(%v) = %v, want %v", tt.pts, got, tt.want)
			}
		})
	}
}

func TestDedupeCompositeKeyAcrossRecords(t *testing.T) {
	// Different PMIDs with identical titles are not duplicates: the
	// composite key includes the identifier.
	records := []types.ArticleRecord{
		article("1", "Same title"),
		article("2", "Same title"),
	}

	res := Filter(records, Options{RemoveDuplicates: true}, types.DefaultMatcherConfig())
	if len(res.Kept) != 2 {
		t.Errorf("kept = %d, want 2 (title alone is not a duplicate key)", len(res.Kept))
	}
}
