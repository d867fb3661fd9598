// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runstore persists screening runs in a SQLite database for
// later audit, export, and title search.
// See docs/ARCHITECTURE § Run Store.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/screening-engine/internal/screen"
	"github.com/pdiddy/screening-engine/pkg/types"
)

const dbFile = "runs.db"

// Stage labels articles by the pipeline stage that produced them.
const (
	StageKept            = "kept"
	StageDuplicate       = "duplicate"
	StageReview          = "review"
	StageExcludedAll     = "excluded_all"
	StageExcludedReviews = "excluded_reviews"
	StageExcludedUseful  = "excluded_useful"
)

// Store manages the screening run SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the run database at dataDir/runs.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT,
			total_processed INTEGER NOT NULL,
			kept INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			reviews INTEGER NOT NULL,
			excluded_all INTEGER NOT NULL,
			excluded_reviews INTEGER NOT NULL,
			excluded_useful INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			stage TEXT NOT NULL,
			position INTEGER NOT NULL,
			pmid TEXT NOT NULL,
			title TEXT,
			abstract TEXT,
			publication_types TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_run ON articles(run_id, stage, position)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over titles, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='articles_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE articles_fts USING fts5(title, content=articles, content_rowid=rowid)`,
			`CREATE TRIGGER articles_ai AFTER INSERT ON articles BEGIN
				INSERT INTO articles_fts(rowid, title) VALUES (new.rowid, new.title);
			END`,
			`CREATE TRIGGER articles_ad AFTER DELETE ON articles BEGIN
				INSERT INTO articles_fts(articles_fts, rowid, title) VALUES('delete', old.rowid, old.title);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// RunSummary describes one stored run.
type RunSummary struct {
	ID             string        `json:"id" yaml:"id"`
	CreatedAt      time.Time     `json:"created_at" yaml:"created_at"`
	Source         string        `json:"source,omitempty" yaml:"source,omitempty"`
	TotalProcessed int           `json:"total_processed" yaml:"total_processed"`
	Kept           int           `json:"kept" yaml:"kept"`
	Counts         screen.Counts `json:"counts" yaml:"counts"`
}

// Run is a fully rehydrated screening run.
type Run struct {
	RunSummary `yaml:",inline"`
	KeptItems  []types.ArticleRecord `json:"kept_items" yaml:"kept_items"`
	Removed    screen.Removed        `json:"removed" yaml:"removed"`
}

// SaveRun stores a filtering result and returns the new run ID.
func (s *Store) SaveRun(ctx context.Context, source string, res screen.Result) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, total_processed, kept,
			duplicates, reviews, excluded_all, excluded_reviews, excluded_useful)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, now, source, res.TotalProcessed, len(res.Kept),
		res.Counts.Duplicates, res.Counts.Reviews,
		res.Counts.ExcludedAll, res.Counts.ExcludedReviews, res.Counts.ExcludedUseful,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (run_id, stage, position, pmid, title, abstract, publication_types)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	insert := func(stage string, records []types.ArticleRecord) error {
		for i, rec := range records {
			ptsJSON, _ := json.Marshal(rec.PublicationTypes)
			if _, err := stmt.ExecContext(ctx,
				id, stage, i, rec.PMID, rec.Title, rec.Abstract, string(ptsJSON),
			); err != nil {
				return fmt.Errorf("inserting %s article %s: %w", stage, rec.PMID, err)
			}
		}
		return nil
	}

	stages := []struct {
		stage   string
		records []types.ArticleRecord
	}{
		{StageKept, res.Kept},
		{StageDuplicate, res.Removed.Duplicates},
		{StageReview, res.Removed.Reviews},
		{StageExcludedAll, res.Removed.ExcludedAll},
		{StageExcludedReviews, res.Removed.ExcludedReviews},
		{StageExcludedUseful, res.Removed.ExcludedUseful},
	}
	for _, st := range stages {
		if err := insert(st.stage, st.records); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, total_processed, kept,
			duplicates, reviews, excluded_all, excluded_reviews, excluded_useful
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		summary, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, summary)
	}
	return runs, rows.Err()
}

// GetRun rehydrates a run and its articles by ID. A unique ID prefix is
// accepted.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, total_processed, kept,
			duplicates, reviews, excluded_all, excluded_reviews, excluded_useful
		 FROM runs WHERE id = ? OR id LIKE ?`, id, id+"%")
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		summary, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(summaries) {
	case 0:
		return nil, fmt.Errorf("run %s not found", id)
	case 1:
	default:
		return nil, fmt.Errorf("run ID prefix %s is ambiguous (%d matches)", id, len(summaries))
	}

	run := &Run{RunSummary: summaries[0]}
	if err := s.loadArticles(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) loadArticles(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, pmid, title, abstract, publication_types
		 FROM articles WHERE run_id = ? ORDER BY stage, position`, run.ID)
	if err != nil {
		return fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stage, ptsJSON string
		var rec types.ArticleRecord
		if err := rows.Scan(&stage, &rec.PMID, &rec.Title, &rec.Abstract, &ptsJSON); err != nil {
			return fmt.Errorf("scanning article: %w", err)
		}
		if ptsJSON != "" && ptsJSON != "null" {
			json.Unmarshal([]byte(ptsJSON), &rec.PublicationTypes)
		}

		switch stage {
		case StageKept:
			run.KeptItems = append(run.KeptItems, rec)
		case StageDuplicate:
			run.Removed.Duplicates = append(run.Removed.Duplicates, rec)
		case StageReview:
			run.Removed.Reviews = append(run.Removed.Reviews, rec)
		case StageExcludedAll:
			run.Removed.ExcludedAll = append(run.Removed.ExcludedAll, rec)
		case StageExcludedReviews:
			run.Removed.ExcludedReviews = append(run.Removed.ExcludedReviews, rec)
		case StageExcludedUseful:
			run.Removed.ExcludedUseful = append(run.Removed.ExcludedUseful, rec)
		}
	}
	return rows.Err()
}

// DeleteRun removes a run and its articles.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// TitleHit is one full-text search result over stored article titles.
type TitleHit struct {
	RunID  string              `json:"run_id" yaml:"run_id"`
	Stage  string              `json:"stage" yaml:"stage"`
	Record types.ArticleRecord `json:"record" yaml:"record"`
}

// SearchTitles runs an FTS5 query over every stored article title,
// ranked by relevance. maxResults of zero uses the store default.
func (s *Store) SearchTitles(ctx context.Context, query string, maxResults int) ([]TitleHit, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT a.run_id, a.stage, a.pmid, a.title, a.abstract, a.publication_types
		 FROM articles_fts
		 JOIN articles a ON a.rowid = articles_fts.rowid
		 WHERE articles_fts MATCH ?
		 ORDER BY articles_fts.rank
		 LIMIT ?`, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching titles: %w", err)
	}
	defer rows.Close()

	var hits []TitleHit
	for rows.Next() {
		var hit TitleHit
		var ptsJSON string
		if err := rows.Scan(&hit.RunID, &hit.Stage, &hit.Record.PMID,
			&hit.Record.Title, &hit.Record.Abstract, &ptsJSON); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		if ptsJSON != "" && ptsJSON != "null" {
			json.Unmarshal([]byte(ptsJSON), &hit.Record.PublicationTypes)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// scanner abstracts sql.Rows for run summary scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanRunSummary(row scanner) (RunSummary, error) {
	var summary RunSummary
	var createdAt string
	if err := row.Scan(&summary.ID, &createdAt, &summary.Source,
		&summary.TotalProcessed, &summary.Kept,
		&summary.Counts.Duplicates, &summary.Counts.Reviews,
		&summary.Counts.ExcludedAll, &summary.Counts.ExcludedReviews,
		&summary.Counts.ExcludedUseful); err != nil {
		return RunSummary{}, fmt.Errorf("scanning run: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		summary.CreatedAt = t
	}
	return summary, nil
}
