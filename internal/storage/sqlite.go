package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// StoredEmbedding is one row of the persistent embedding cache.
type StoredEmbedding struct {
	ContentHash string
	Provider    string
	Model       string
	Dimension   int
	Vector      []float32
	CreatedAt   time.Time
}

// StoredDocumentType is one row of the document classification memo.
type StoredDocumentType struct {
	DocID      string
	Category   types.DocumentCategory
	Confidence float64
	SubType    string
	Language   string
	Complexity float64
	AnalyzedAt time.Time
}

// Store persists embeddings and document classifications across runs.
type Store interface {
	PutEmbedding(ctx context.Context, e *StoredEmbedding) error
	GetEmbedding(ctx context.Context, contentHash, provider, model string) (*StoredEmbedding, error)
	DeleteEmbeddings(ctx context.Context, provider, model string) (int64, error)
	CountEmbeddings(ctx context.Context) (int64, error)

	PutDocumentType(ctx context.Context, d *StoredDocumentType) error
	GetDocumentType(ctx context.Context, docID string) (*StoredDocumentType, error)

	Close() error
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (creating if needed) the store at dbPath and applies
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PutEmbedding inserts or replaces one cached embedding.
func (s *SQLiteStore) PutEmbedding(ctx context.Context, e *StoredEmbedding) error {
	query := `
		INSERT INTO embeddings (content_hash, provider, model, dimension, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_hash, provider, model) DO UPDATE SET
			dimension = excluded.dimension,
			vector = excluded.vector
	`
	now := time.Now()
	_, err := s.db.ExecContext(ctx, query,
		e.ContentHash, e.Provider, e.Model, e.Dimension, SerializeVector(e.Vector), now)
	if err != nil {
		return fmt.Errorf("failed to store embedding %s/%s: %w", e.Provider, e.ContentHash, err)
	}
	e.CreatedAt = now
	return nil
}

// GetEmbedding fetches one cached embedding, or ErrNotFound.
func (s *SQLiteStore) GetEmbedding(ctx context.Context, contentHash, provider, model string) (*StoredEmbedding, error) {
	query := `
		SELECT content_hash, provider, model, dimension, vector, created_at
		FROM embeddings
		WHERE content_hash = ? AND provider = ? AND model = ?
	`
	var (
		e    StoredEmbedding
		blob []byte
	)
	err := s.db.QueryRowContext(ctx, query, contentHash, provider, model).Scan(
		&e.ContentHash, &e.Provider, &e.Model, &e.Dimension, &blob, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding %s/%s: %w", provider, contentHash, err)
	}
	e.Vector = DeserializeVector(blob)
	return &e, nil
}

// DeleteEmbeddings drops all cached embeddings for one provider/model,
// returning the number removed.
func (s *SQLiteStore) DeleteEmbeddings(ctx context.Context, provider, model string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM embeddings WHERE provider = ? AND model = ?", provider, model)
	if err != nil {
		return 0, fmt.Errorf("failed to delete embeddings for %s/%s: %w", provider, model, err)
	}
	return res.RowsAffected()
}

// CountEmbeddings returns the cache row count.
func (s *SQLiteStore) CountEmbeddings(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return n, nil
}

// PutDocumentType inserts or replaces one document classification memo.
func (s *SQLiteStore) PutDocumentType(ctx context.Context, d *StoredDocumentType) error {
	query := `
		INSERT INTO documents (id, category, confidence, sub_type, language, complexity, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			confidence = excluded.confidence,
			sub_type = excluded.sub_type,
			language = excluded.language,
			complexity = excluded.complexity,
			analyzed_at = excluded.analyzed_at
	`
	now := time.Now()
	_, err := s.db.ExecContext(ctx, query,
		d.DocID, string(d.Category), d.Confidence, d.SubType, d.Language, d.Complexity, now)
	if err != nil {
		return fmt.Errorf("failed to store document type for %s: %w", d.DocID, err)
	}
	d.AnalyzedAt = now
	return nil
}

// GetDocumentType fetches one classification memo, or ErrNotFound.
func (s *SQLiteStore) GetDocumentType(ctx context.Context, docID string) (*StoredDocumentType, error) {
	query := `
		SELECT id, category, confidence, sub_type, language, complexity, analyzed_at
		FROM documents
		WHERE id = ?
	`
	var (
		d        StoredDocumentType
		category string
	)
	err := s.db.QueryRowContext(ctx, query, docID).Scan(
		&d.DocID, &category, &d.Confidence, &d.SubType, &d.Language, &d.Complexity, &d.AnalyzedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document type for %s: %w", docID, err)
	}
	d.Category = types.DocumentCategory(category)
	return &d, nil
}
