// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the screening-engine pipeline.
// See docs/ARCHITECTURE § Data Structures.
package types

// MissingField is the sentinel stored when a MEDLINE record carries no
// title or abstract.
const MissingField = "N/A"

// ArticleRecord is a bibliographic record parsed from a MEDLINE export.
// A record is only materialized when the parser found a non-empty PMID;
// segments without one are dropped.
type ArticleRecord struct {
	// PMID is the PubMed accession number. Compared case-insensitively
	// throughout the pipeline.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title, or MissingField when the export had none.
	Title string `json:"title" yaml:"title"`

	// Abstract is the article abstract, or MissingField when absent.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PublicationTypes lists the PT tags in source order. Repeats are kept.
	PublicationTypes []string `json:"publication_types" yaml:"publication_types"`
}

// HasTitle reports whether the record carries a real title rather than
// the missing-field sentinel.
func (a ArticleRecord) HasTitle() bool {
	return a.Title != "" && a.Title != MissingField
}
