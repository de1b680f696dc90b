// Package store holds the persistence adapters: the bolt-backed freshness
// manifest and the SQLite memory store that documentation is ingested into
// for later retrieval.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"docpress/internal/domain"
)

// MemoryStore persists documentation files and their sections in SQLite.
type MemoryStore struct {
	db *sql.DB
}

func NewMemoryStore(path string) (*MemoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("memstore: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("memstore: pragma %q: %w", p, err)
		}
	}

	s := &MemoryStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("memstore: migration: %w", err)
	}
	return s, nil
}

func (s *MemoryStore) Close() error {
	return s.db.Close()
}

func (s *MemoryStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			path         TEXT    NOT NULL UNIQUE,
			title        TEXT    NOT NULL,
			content_hash TEXT    NOT NULL,
			word_count   INTEGER NOT NULL,
			ingested_at  TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS sections (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL,
			heading     TEXT,
			content     TEXT    NOT NULL,
			word_count  INTEGER NOT NULL,
			position    INTEGER NOT NULL,
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_sections_doc ON sections(document_id);
		CREATE INDEX IF NOT EXISTS idx_docs_hash    ON documents(content_hash);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Ingest stores a document and its sections, replacing any previous row for
// the same path. Returns the document id.
func (s *MemoryStore) Ingest(doc domain.StoredDocument, sections []domain.Section) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("memstore: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM documents WHERE path = ?`, doc.Path); err != nil {
		return 0, fmt.Errorf("memstore: delete previous document: %w", err)
	}

	res, err := tx.Exec(
		`INSERT INTO documents (path, title, content_hash, word_count) VALUES (?, ?, ?, ?)`,
		doc.Path, doc.Title, doc.ContentHash, doc.WordCount,
	)
	if err != nil {
		return 0, fmt.Errorf("memstore: insert document: %w", err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("memstore: document id: %w", err)
	}

	for _, sec := range sections {
		_, err := tx.Exec(
			`INSERT INTO sections (document_id, heading, content, word_count, position) VALUES (?, ?, ?, ?, ?)`,
			docID, sec.Heading, sec.Content, sec.WordCount, sec.Position,
		)
		if err != nil {
			return 0, fmt.Errorf("memstore: insert section %d: %w", sec.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("memstore: commit: %w", err)
	}
	return docID, nil
}

// HasContent reports whether a path is already stored with the given hash,
// letting callers skip unchanged files.
func (s *MemoryStore) HasContent(path, contentHash string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM documents WHERE path = ? AND content_hash = ?`,
		path, contentHash,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("memstore: hash lookup: %w", err)
	}
	return n > 0, nil
}

// ListDocuments returns all stored documents ordered by path.
func (s *MemoryStore) ListDocuments() ([]domain.StoredDocument, error) {
	rows, err := s.db.Query(
		`SELECT id, path, title, content_hash, word_count, ingested_at FROM documents ORDER BY path`,
	)
	if err != nil {
		return nil, fmt.Errorf("memstore: list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.StoredDocument
	for rows.Next() {
		var d domain.StoredDocument
		if err := rows.Scan(&d.ID, &d.Path, &d.Title, &d.ContentHash, &d.WordCount, &d.IngestedAt); err != nil {
			return nil, fmt.Errorf("memstore: scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// SectionsByDocument returns a document's sections in original order.
func (s *MemoryStore) SectionsByDocument(docID int64) ([]domain.Section, error) {
	rows, err := s.db.Query(
		`SELECT id, document_id, heading, content, word_count, position
		 FROM sections WHERE document_id = ? ORDER BY position`,
		docID,
	)
	if err != nil {
		return nil, fmt.Errorf("memstore: list sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var sec domain.Section
		var heading sql.NullString
		if err := rows.Scan(&sec.ID, &sec.DocumentID, &heading, &sec.Content, &sec.WordCount, &sec.Position); err != nil {
			return nil, fmt.Errorf("memstore: scan section: %w", err)
		}
		sec.Heading = heading.String
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// SearchSections returns sections whose content contains the term.
func (s *MemoryStore) SearchSections(term string, limit int) ([]domain.Section, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, document_id, heading, content, word_count, position
		 FROM sections WHERE content LIKE '%' || ? || '%'
		 ORDER BY document_id, position LIMIT ?`,
		term, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("memstore: search sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var sec domain.Section
		var heading sql.NullString
		if err := rows.Scan(&sec.ID, &sec.DocumentID, &heading, &sec.Content, &sec.WordCount, &sec.Position); err != nil {
			return nil, fmt.Errorf("memstore: scan section: %w", err)
		}
		sec.Heading = heading.String
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}
