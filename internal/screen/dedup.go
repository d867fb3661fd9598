// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import "github.com/pdiddy/screening-engine/internal/exclusion"

// dedupe partitions profiles into first occurrences and duplicates,
// preserving relative order. A record is a duplicate when its
// lower-cased PMID, or its PMID:normalized-title composite, was already
// seen. Matching on the bare PMID means the first occurrence of an
// identifier wins even when a later record carries a different title.
func dedupe(profiles []exclusion.Profile) (kept, removed []exclusion.Profile) {
	seen := make(map[string]struct{}, 2*len(profiles))

	for _, p := range profiles {
		idKey := p.ID()
		compositeKey := idKey + ":" + p.NormalizedTitle()

		if _, dup := seen[idKey]; dup {
			removed = append(removed, p)
			continue
		}
		if _, dup := seen[compositeKey]; dup {
			removed = append(removed, p)
			continue
		}

		seen[idKey] = struct{}{}
		seen[compositeKey] = struct{}{}
		kept = append(kept, p)
	}
	return kept, removed
}
