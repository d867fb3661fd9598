// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package exclusion parses exclusion lists and matches article records
// against them with a tiered fuzzy-matching algorithm.
// See docs/ARCHITECTURE § Exclusion Matching.
package exclusion

import "strings"

// pmidEntryPrefix allows list entries exported as "PMID-12345" alongside
// bare accession numbers and titles.
const pmidEntryPrefix = "PMID-"

// ParseList converts raw exclusion-list text into a set of lower-cased
// entries. One entry per line; blank lines and lines starting with "#"
// or "//" are comments. An optional PMID- prefix on an entry is
// stripped. Entries are otherwise kept verbatim: the set does not record
// whether an entry is an identifier or a title.
func ParseList(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" || strings.HasPrefix(entry, "#") || strings.HasPrefix(entry, "//") {
			continue
		}
		entry = strings.TrimSpace(strings.TrimPrefix(entry, pmidEntryPrefix))
		if entry == "" {
			continue
		}
		set[strings.ToLower(entry)] = struct{}{}
	}
	return set
}
