// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package exclusion

import (
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// Profile carries a record together with its precomputed comparison
// forms. Building a Profile once per record keeps the fuzzy scan at one
// normalization pass per record instead of one per list entry.
type Profile struct {
	Record types.ArticleRecord

	id        string
	normTitle string
	tokens    map[string]struct{}
}

// NewProfile precomputes the comparison forms for a record.
func NewProfile(rec types.ArticleRecord) Profile {
	norm := NormalizeTitle(rec.Title)
	return Profile{
		Record:    rec,
		id:        strings.ToLower(rec.PMID),
		normTitle: norm,
		tokens:    TokenSet(norm),
	}
}

// ID returns the lower-cased record identifier.
func (p Profile) ID() string { return p.id }

// NormalizedTitle returns the precomputed normalized title.
func (p Profile) NormalizedTitle() string { return p.normTitle }

// entry is a classified exclusion-list entry. Classification happens
// once at matcher construction.
type entry struct {
	text      string
	titleLike bool
	tokens    map[string]struct{}
}

// Matcher matches records against one exclusion set. Tiers, cheapest
// first: exact identifier lookup, exact normalized-title lookup, then a
// fuzzy scan over every entry. The zero-value Matcher matches nothing.
type Matcher struct {
	cfg   types.MatcherConfig
	exact map[string]struct{}
	fuzzy []entry
}

// NewMatcher builds a matcher over the given exclusion set. Entries
// shorter than cfg.MinEntryLength take part only in the exact tiers: as
// fuzzy patterns they would match far too many titles.
func NewMatcher(set map[string]struct{}, cfg types.MatcherConfig) *Matcher {
	m := &Matcher{cfg: cfg, exact: set}
	for text := range set {
		if len(text) < cfg.MinEntryLength {
			continue
		}
		e := entry{text: text}
		if len(strings.Fields(text)) >= cfg.TitleLikeMinTokens && len(text) > cfg.TitleLikeMinLength {
			e.titleLike = true
			e.tokens = TokenSet(text)
		}
		m.fuzzy = append(m.fuzzy, e)
	}
	return m
}

// Empty reports whether the matcher has no entries at all.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.exact) == 0
}

// Excludes reports whether the record matches the exclusion set.
func (m *Matcher) Excludes(p Profile) bool {
	if m.Empty() {
		return false
	}

	if _, ok := m.exact[p.id]; ok && p.id != "" {
		return true
	}
	if _, ok := m.exact[p.normTitle]; ok && p.normTitle != "" {
		return true
	}

	for _, e := range m.fuzzy {
		if e.titleLike {
			if m.matchTitleLike(p, e) {
				return true
			}
		} else if m.matchShort(p, e) {
			return true
		}
	}
	return false
}

// matchTitleLike applies the dual-signal criteria for entries that look
// like titles: containment with a length-overlap ratio, and token-set
// Jaccard similarity.
func (m *Matcher) matchTitleLike(p Profile, e entry) bool {
	if p.normTitle == "" {
		return false
	}

	if strings.Contains(p.normTitle, e.text) || strings.Contains(e.text, p.normTitle) {
		shorter, longer := len(p.normTitle), len(e.text)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		if float64(shorter)/float64(longer) >= m.cfg.OverlapThreshold {
			return true
		}
	}

	idx, shared := jaccard(p.tokens, e.tokens)
	return idx >= m.cfg.JaccardThreshold && shared >= m.cfg.MinSharedTokens
}

// matchShort applies the containment-with-floor criteria for short,
// identifier-like entries. The relative-length floor keeps a ten-character
// entry from excluding every long title that happens to contain it.
func (m *Matcher) matchShort(p Profile, e entry) bool {
	if p.normTitle == "" {
		return false
	}

	if strings.Contains(p.normTitle, e.text) &&
		float64(len(e.text)) >= m.cfg.ContainmentFloor*float64(len(p.normTitle)) {
		return true
	}
	if strings.Contains(e.text, p.normTitle) &&
		float64(len(p.normTitle)) >= m.cfg.ContainmentFloor*float64(len(e.text)) {
		return true
	}
	return false
}
