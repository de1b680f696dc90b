package domain

import "time"

type Document struct {
	Path    string
	Content string
	ModTime time.Time
}

// CompressionReport summarizes one document's compression run.
type CompressionReport struct {
	Path            string  `json:"path"`
	OriginalWords   int     `json:"original_words"`
	CompressedWords int     `json:"compressed_words"`
	ReductionPct    float64 `json:"reduction_pct"`
	ChunksTotal     int     `json:"chunks_total"`
	ChunksFailed    int     `json:"chunks_failed"`
}

// ManifestRecord is the stored fingerprint of one governance document.
type ManifestRecord struct {
	Hash       string    `json:"hash"`
	Size       int64     `json:"size"`
	RecordedAt time.Time `json:"recorded_at"`
}

type FreshnessState string

const (
	StateFresh   FreshnessState = "fresh"
	StateDrifted FreshnessState = "drifted"
	StateNew     FreshnessState = "new"
	StateMissing FreshnessState = "missing"
)

// FreshnessEntry is the check result for one tracked document.
type FreshnessEntry struct {
	Path         string         `json:"path"`
	State        FreshnessState `json:"state"`
	RecordedHash string         `json:"recorded_hash,omitempty"`
	CurrentHash  string         `json:"current_hash,omitempty"`
	RecordedAt   time.Time      `json:"recorded_at,omitempty"`
}

// Section is a heading-delimited region of a document, as stored by ingestion.
type Section struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Heading    string `json:"heading,omitempty"`
	Content    string `json:"content"`
	WordCount  int    `json:"word_count"`
	Position   int    `json:"position"`
}

// StoredDocument is a document row in the memory store.
type StoredDocument struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	ContentHash string `json:"content_hash"`
	WordCount   int    `json:"word_count"`
	IngestedAt  string `json:"ingested_at"`
}

// Heading is one entry in a markdown outline.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// Outline captures the structural skeleton of a markdown document.
type Outline struct {
	Headings   []Heading `json:"headings"`
	Links      []string  `json:"links"`
	CodeFences int       `json:"code_fences"`
}

// OutlineDiff reports structure present in the original but absent from the
// compressed output.
type OutlineDiff struct {
	MissingHeadings []Heading `json:"missing_headings,omitempty"`
	MissingLinks    []string  `json:"missing_links,omitempty"`
	CodeFenceDelta  int       `json:"code_fence_delta"`
}

// Clean reports whether compression preserved all tracked structure.
func (d OutlineDiff) Clean() bool {
	return len(d.MissingHeadings) == 0 && len(d.MissingLinks) == 0 && d.CodeFenceDelta == 0
}
