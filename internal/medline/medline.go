// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package medline parses PubMed MEDLINE exports into article records.
// See docs/ARCHITECTURE § Record Parsing.
package medline

import (
	"strings"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// Field tag prefixes in the MEDLINE text format. Tags are case-sensitive
// and anchored at the start of a line.
const (
	pmidPrefix     = "PMID-"
	titlePrefix    = "TI  -"
	abstractPrefix = "AB  -"
	pubTypePrefix  = "PT  -"
)

// continuationIndent is the minimum leading-space count that marks a
// wrapped continuation of the preceding TI or AB field.
const continuationIndent = 6

// accumMode tracks which multi-line field the parser is currently extending.
type accumMode int

const (
	accumNone accumMode = iota
	accumTitle
	accumAbstract
)

// ParseRecords converts a raw MEDLINE export into article records, in
// source order. A new record starts at each PMID- line; segments that
// never produce a PMID are dropped silently. Missing titles and abstracts
// default to types.MissingField.
func ParseRecords(raw string) []types.ArticleRecord {
	var (
		records []types.ArticleRecord
		cur     *types.ArticleRecord
		mode    = accumNone
	)

	flush := func() {
		if cur == nil {
			return
		}
		if cur.Title == "" {
			cur.Title = types.MissingField
		}
		if cur.Abstract == "" {
			cur.Abstract = types.MissingField
		}
		if cur.PMID != "" {
			records = append(records, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, pmidPrefix):
			flush()
			mode = accumNone
			id := strings.TrimSpace(line[len(pmidPrefix):])
			if id != "" {
				cur = &types.ArticleRecord{PMID: id}
			}

		case cur == nil:
			// Preamble before the first PMID line. Skip.

		case strings.HasPrefix(line, titlePrefix):
			cur.Title = strings.TrimSpace(line[len(titlePrefix):])
			mode = accumTitle

		case strings.HasPrefix(line, abstractPrefix):
			cur.Abstract = strings.TrimSpace(line[len(abstractPrefix):])
			mode = accumAbstract

		case strings.HasPrefix(line, pubTypePrefix):
			// PT lines do not interrupt a wrapped TI/AB field.
			if pt := strings.TrimSpace(line[len(pubTypePrefix):]); pt != "" {
				cur.PublicationTypes = append(cur.PublicationTypes, pt)
			}

		case isContinuation(line):
			switch mode {
			case accumTitle:
				cur.Title = joinContinuation(cur.Title, line)
			case accumAbstract:
				cur.Abstract = joinContinuation(cur.Abstract, line)
			}

		case strings.TrimSpace(line) == "":
			// Blank separator lines leave the accumulation mode alone.

		default:
			// Any other tag ends the field being accumulated.
			mode = accumNone
		}
	}
	flush()

	return records
}

// isContinuation reports whether the line is an indented wrap of the
// previous field value.
func isContinuation(line string) bool {
	if len(line) < continuationIndent {
		return false
	}
	for _, r := range line[:continuationIndent] {
		if r != ' ' {
			return false
		}
	}
	return strings.TrimSpace(line) != ""
}

// joinContinuation appends the trimmed continuation content to the
// accumulated field value.
func joinContinuation(acc, line string) string {
	part := strings.TrimSpace(line)
	if acc == "" {
		return part
	}
	return acc + " " + part
}
