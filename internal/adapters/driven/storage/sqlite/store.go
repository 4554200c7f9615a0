package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/leasewise/leasewise-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/leasewise/leasewise-cli/internal/core/domain"
	"github.com/leasewise/leasewise-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store is a SQLite-backed index store keyed by document signature.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.leasewise/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".leasewise", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

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

// Read loads the index stored for the signature.
func (s *Store) Read(ctx context.Context, signature string) (*domain.Index, error) {
	var man domain.Manifest
	row := s.db.QueryRowContext(ctx, `
		SELECT signature, embedding_model, dimensions, chunk_size, chunk_overlap, created_at
		FROM indexes WHERE signature = ?`, signature)
	if err := row.Scan(&man.Signature, &man.EmbeddingModel, &man.Dimensions,
		&man.ChunkSize, &man.ChunkOverlap, &man.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no index for signature %s", domain.ErrNotFound, signature)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, signature, text, page, topic, position, embedding
		FROM chunks WHERE signature = ? ORDER BY position`, signature)
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Signature, &chunk.Text,
			&chunk.Page, &chunk.Topic, &chunk.Position, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(blob)
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return &domain.Index{Manifest: man, Chunks: chunks}, nil
}

// Write persists the index in a single transaction, replacing any
// existing index for the same signature.
func (s *Store) Write(ctx context.Context, index *domain.Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM indexes WHERE signature = ?`, index.Manifest.Signature); err != nil {
		return fmt.Errorf("replacing index: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO indexes (signature, embedding_model, dimensions, chunk_size, chunk_overlap, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		index.Manifest.Signature, index.Manifest.EmbeddingModel, index.Manifest.Dimensions,
		index.Manifest.ChunkSize, index.Manifest.ChunkOverlap, index.Manifest.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting manifest: %w", err)
	}

	for i := range index.Chunks {
		chunk := &index.Chunks[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, signature, text, page, topic, position, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			chunk.ID, chunk.Signature, chunk.Text, chunk.Page, chunk.Topic,
			chunk.Position, float32SliceToBytes(chunk.Embedding),
		); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Delete removes all stored artifacts for the signature. Chunk rows go
// with the manifest via ON DELETE CASCADE.
func (s *Store) Delete(ctx context.Context, signature string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM indexes WHERE signature = ?`, signature); err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}
	return nil
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
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
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

// float32SliceToBytes converts a []float32 to a little-endian byte
// slice for BLOB storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a BLOB back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
