package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// the corpus catalog and ask history through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.askdocs/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdocs", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CorpusStore returns a CorpusStore interface backed by this store.
func (s *Store) CorpusStore() driven.CorpusStore {
	return &corpusStore{store: s}
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Corpus Store ====================

// corpusStore implements driven.CorpusStore.
type corpusStore struct {
	store *Store
}

var _ driven.CorpusStore = (*corpusStore)(nil)

// SaveDocument stores or replaces a document with its pages.
func (s *corpusStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("%w: document without id", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	indexedAt := doc.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, path, title, page_count, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			page_count = excluded.page_count,
			indexed_at = excluded.indexed_at
	`, doc.ID, doc.Path, doc.Title, len(doc.Pages), indexedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	// Replace the page set wholesale so stale pages never linger.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM pages WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing pages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (document_id, number, text)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, page := range doc.Pages {
		if _, err := stmt.ExecContext(ctx, doc.ID, page.Number, page.Text); err != nil {
			return fmt.Errorf("saving page %d: %w", page.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID, including pages.
func (s *corpusStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, path, title, page_count, indexed_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT number, text FROM pages
		WHERE document_id = ?
		ORDER BY number
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var page domain.Page
		if err := rows.Scan(&page.Number, &page.Text); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		doc.Pages = append(doc.Pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}

	return doc, nil
}

// ListDocuments returns all documents ordered by ID, without page text.
func (s *corpusStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, path, title, page_count, indexed_at
		FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var indexedAt sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.Path, &doc.Title, &doc.PageCount, &indexedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if indexedAt.Valid {
			doc.IndexedAt = indexedAt.Time
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// DeleteDocument removes a document and its passages.
func (s *corpusStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	return nil
}

// SavePassages stores the passages for a document, replacing any
// previously stored set.
func (s *corpusStore) SavePassages(ctx context.Context, documentID string, passages []domain.Passage) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM passages WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing passages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO passages (id, document_id, page, ordinal, text)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range passages {
		if _, err := stmt.ExecContext(ctx, p.ID, p.DocumentID, p.Page, p.Ordinal, p.Text); err != nil {
			return fmt.Errorf("saving passage %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetPassages returns the passages of one document in chunk order.
func (s *corpusStore) GetPassages(ctx context.Context, documentID string) ([]domain.Passage, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, page, ordinal, text
		FROM passages WHERE document_id = ?
		ORDER BY page, ordinal
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var passages []domain.Passage //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Passage
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Page, &p.Ordinal, &p.Text); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		passages = append(passages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passages: %w", err)
	}

	return passages, nil
}

// CountPassages returns the total number of stored passages.
func (s *corpusStore) CountPassages(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM passages").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting passages: %w", err)
	}
	return count, nil
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// SaveRecord appends one history row.
func (s *historyStore) SaveRecord(ctx context.Context, record domain.AskRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: record without id", domain.ErrInvalidInput)
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ask_history (id, question, answer, web_search_used, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.Question, record.Answer, record.WebSearchUsed,
		record.Duration.Milliseconds(), createdAt)
	if err != nil {
		return fmt.Errorf("saving ask record: %w", err)
	}
	return nil
}

// ListRecords returns up to limit rows, newest first.
func (s *historyStore) ListRecords(ctx context.Context, limit int) ([]domain.AskRecord, error) {
	query := `
		SELECT id, question, answer, web_search_used, duration_ms, created_at
		FROM ask_history ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ask history: %w", err)
	}
	defer rows.Close()

	var records []domain.AskRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.AskRecord
		var durationMS int64
		var createdAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Question, &r.Answer, &r.WebSearchUsed,
			&durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning ask record: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if createdAt.Valid {
			r.CreatedAt = createdAt.Time
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ask history: %w", err)
	}

	return records, nil
}

// ==================== Helper Functions ====================

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var indexedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Path, &doc.Title, &doc.PageCount, &indexedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if indexedAt.Valid {
		doc.IndexedAt = indexedAt.Time
	}

	return &doc, nil
}
