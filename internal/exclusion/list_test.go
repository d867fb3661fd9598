// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exclusion

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	raw := `# Review articles exclusion list
// generated 2026-01-15

12345678
PMID-87654321
A Systematic Review of Something

  spaced entry
`
	got := ParseList(raw)
	want := map[string]struct{}{
		"12345678":                         {},
		"87654321":                         {},
		"a systematic review of something": {},
		"spaced entry":                     {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseList() = %v, want %v", got, want)
	}
}

func TestParseListEmptyAndCommentsOnly(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "# only a comment\n// and another\n"} {
		if got := ParseList(raw); len(got) != 0 {
			t.Errorf("ParseList(%q) = %v, want empty", raw, got)
		}
	}
}

func TestParseListDeduplicates(t *testing.T) {
	got := ParseList("12345\nPMID-12345\n12345\n")
	if len(got) != 1 {
		t.Errorf("len = %d, want 1 (entries normalize to the same key)", len(got))
	}
}
