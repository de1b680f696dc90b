package store

import (
	"path/filepath"
	"testing"

	"docpress/internal/domain"
)

func newTestMemory(t *testing.T) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(filepath.Join(t.TempDir(), "memory.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMemoryIngestAndList(t *testing.T) {
	s := newTestMemory(t)

	docID, err := s.Ingest(
		domain.StoredDocument{
			Path:        "docs/guide.md",
			Title:       "guide",
			ContentHash: "hash1",
			WordCount:   12,
		},
		[]domain.Section{
			{Heading: "Intro", Content: "## Intro\nwelcome\n", WordCount: 3, Position: 0},
			{Heading: "Usage", Content: "## Usage\nrun it\n", WordCount: 4, Position: 1},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	docs, err := s.ListDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Path != "docs/guide.md" || docs[0].ContentHash != "hash1" {
		t.Errorf("unexpected document row: %+v", docs[0])
	}

	sections, err := s.SectionsByDocument(docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Heading != "Intro" || sections[1].Heading != "Usage" {
		t.Errorf("sections out of order: %+v", sections)
	}
}

func TestMemoryReingestReplaces(t *testing.T) {
	s := newTestMemory(t)

	doc := domain.StoredDocument{Path: "a.md", Title: "a", ContentHash: "v1", WordCount: 1}
	if _, err := s.Ingest(doc, []domain.Section{{Content: "old", WordCount: 1, Position: 0}}); err != nil {
		t.Fatal(err)
	}

	doc.ContentHash = "v2"
	docID, err := s.Ingest(doc, []domain.Section{
		{Content: "new one", WordCount: 2, Position: 0},
		{Content: "new two", WordCount: 2, Position: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := s.ListDocuments()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document after re-ingest, got %d", len(docs))
	}
	if docs[0].ContentHash != "v2" {
		t.Errorf("expected hash v2, got %s", docs[0].ContentHash)
	}

	sections, err := s.SectionsByDocument(docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections after re-ingest, got %d", len(sections))
	}
}

func TestMemoryHasContent(t *testing.T) {
	s := newTestMemory(t)

	doc := domain.StoredDocument{Path: "a.md", Title: "a", ContentHash: "h", WordCount: 1}
	if _, err := s.Ingest(doc, nil); err != nil {
		t.Fatal(err)
	}

	ok, err := s.HasContent("a.md", "h")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected HasContent true for stored hash")
	}

	ok, err = s.HasContent("a.md", "other")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected HasContent false for changed hash")
	}
}

func TestMemorySearchSections(t *testing.T) {
	s := newTestMemory(t)

	_, err := s.Ingest(
		domain.StoredDocument{Path: "a.md", Title: "a", ContentHash: "h", WordCount: 10},
		[]domain.Section{
			{Heading: "Setup", Content: "install the binary", WordCount: 3, Position: 0},
			{Heading: "Config", Content: "edit the yaml file", WordCount: 4, Position: 1},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	hits, err := s.SearchSections("yaml", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Heading != "Config" {
		t.Errorf("expected Config section, got %+v", hits[0])
	}
}
