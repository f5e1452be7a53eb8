// Package store persists the generation run ledger in SQLite: one row
// per run with its terminal status and failure cause, plus the source
// decks that fed each run.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run represents a row in the runs table.
type Run struct {
	ID               string `json:"id"`
	PresentationID   string `json:"presentation_id,omitempty"`
	DeckTitle        string `json:"deck_title"`
	Template         string `json:"template"`
	Status           string `json:"status"`
	SlideCount       int    `json:"slide_count"`
	OperationCount   int    `json:"operation_count"`
	BatchCount       int    `json:"batch_count"`
	BatchesSubmitted int    `json:"batches_submitted"`
	FailedBatchIndex int    `json:"failed_batch_index"`
	UploadedAssets   int    `json:"uploaded_assets"`
	Cause            string `json:"cause,omitempty"`
	ElapsedMS        int64  `json:"elapsed_ms"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// DeckRecord represents a row in the decks table.
type DeckRecord struct {
	ID          int64  `json:"id"`
	RunID       string `json:"run_id"`
	Title       string `json:"title"`
	SourcePath  string `json:"source_path,omitempty"`
	Format      string `json:"format,omitempty"`
	SlideCount  int    `json:"slide_count"`
	ContentHash string `json:"content_hash"`
	Content     string `json:"content,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// Store wraps the SQLite database for all run-ledger persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Create schema
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	// Run pending migrations.
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Run operations ---

// CreateRun inserts a new run row. The caller assigns the run ID.
func (s *Store) CreateRun(ctx context.Context, r Run) error {
	if r.Status == "" {
		r.Status = "PENDING"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, presentation_id, deck_title, template, status, failed_batch_index)
		VALUES (?, ?, ?, ?, ?, -1)
	`, r.ID, r.PresentationID, r.DeckTitle, r.Template, r.Status)
	return err
}

// UpdateRunStatus updates just the status field.
func (s *Store) UpdateRunStatus(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE runs SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	return err
}

// FinishRun records the terminal outcome of a run.
func (s *Store) FinishRun(ctx context.Context, r Run) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET
			presentation_id = ?,
			status = ?,
			slide_count = ?,
			operation_count = ?,
			batch_count = ?,
			batches_submitted = ?,
			failed_batch_index = ?,
			uploaded_assets = ?,
			cause = ?,
			elapsed_ms = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, r.PresentationID, r.Status, r.SlideCount, r.OperationCount,
		r.BatchCount, r.BatchesSubmitted, r.FailedBatchIndex,
		r.UploadedAssets, r.Cause, r.ElapsedMS, r.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	r := &Run{}
	var presentationID, cause sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, presentation_id, deck_title, template, status,
			slide_count, operation_count, batch_count, batches_submitted,
			failed_batch_index, uploaded_assets, cause, elapsed_ms,
			created_at, updated_at
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &presentationID, &r.DeckTitle, &r.Template, &r.Status,
		&r.SlideCount, &r.OperationCount, &r.BatchCount, &r.BatchesSubmitted,
		&r.FailedBatchIndex, &r.UploadedAssets, &cause, &r.ElapsedMS,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.PresentationID = presentationID.String
	r.Cause = cause.String
	return r, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, presentation_id, deck_title, template, status,
			slide_count, operation_count, batch_count, batches_submitted,
			failed_batch_index, uploaded_assets, cause, elapsed_ms,
			created_at, updated_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var presentationID, cause sql.NullString
		if err := rows.Scan(&r.ID, &presentationID, &r.DeckTitle, &r.Template, &r.Status,
			&r.SlideCount, &r.OperationCount, &r.BatchCount, &r.BatchesSubmitted,
			&r.FailedBatchIndex, &r.UploadedAssets, &cause, &r.ElapsedMS,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.PresentationID = presentationID.String
		r.Cause = cause.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// --- Deck operations ---

// SaveDeck stores the source deck snapshot for a run. content is
// serialised to JSON; its hash enables change detection across runs.
func (s *Store) SaveDeck(ctx context.Context, runID string, rec DeckRecord, content any) (int64, error) {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return 0, fmt.Errorf("serialising deck: %w", err)
	}
	hash := sha256.Sum256(contentJSON)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (run_id, title, source_path, format, slide_count, content_hash, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, rec.Title, rec.SourcePath, rec.Format, rec.SlideCount,
		hex.EncodeToString(hash[:]), string(contentJSON))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetDeckForRun retrieves the deck snapshot stored with a run.
func (s *Store) GetDeckForRun(ctx context.Context, runID string) (*DeckRecord, error) {
	rec := &DeckRecord{}
	var sourcePath, format, content sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, run_id, title, source_path, format, slide_count, content_hash, content, created_at
		FROM decks WHERE run_id = ? ORDER BY id DESC LIMIT 1
	`, runID).Scan(&rec.ID, &rec.RunID, &rec.Title, &sourcePath, &format,
		&rec.SlideCount, &rec.ContentHash, &content, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.SourcePath = sourcePath.String
	rec.Format = format.String
	rec.Content = content.String
	return rec, nil
}

// --- Diagnostics ---

// DBStats holds counts of key database objects.
type DBStats struct {
	Runs      int `json:"runs"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Decks     int `json:"decks"`
}

// Stats returns counts of runs by outcome plus stored decks.
func (s *Store) Stats(ctx context.Context) (*DBStats, error) {
	stats := &DBStats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM runs", &stats.Runs},
		{"SELECT COUNT(*) FROM runs WHERE status = 'COMPLETED'", &stats.Completed},
		{"SELECT COUNT(*) FROM runs WHERE status = 'FAILED'", &stats.Failed},
		{"SELECT COUNT(*) FROM decks", &stats.Decks},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}
	return stats, nil
}

// PruneRuns deletes terminal runs older than the cutoff, cascading to
// their deck snapshots. Returns the number of runs removed.
func (s *Store) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE status IN ('COMPLETED', 'FAILED') AND created_at < ?
	`, before.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
