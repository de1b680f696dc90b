package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"docpress/internal/adapter/chunker"
	"docpress/internal/adapter/fs"
	"docpress/internal/adapter/store"
	"docpress/internal/domain"
	"docpress/internal/port"
)

// IngestUseCase loads documentation files into the memory store, one row per
// document plus its heading-delimited sections.
type IngestUseCase struct {
	store  *store.MemoryStore
	walker port.FileWalker
}

func NewIngestUseCase(st *store.MemoryStore, walker port.FileWalker) *IngestUseCase {
	return &IngestUseCase{store: st, walker: walker}
}

// IngestResult holds the counts of an ingestion run.
type IngestResult struct {
	DocumentsIngested int
	DocumentsSkipped  int
	SectionsCreated   int
	Errors            []string
}

// Ingest walks root and stores every matching file. Files whose content hash
// is already stored are skipped; changed files replace their previous rows.
func (u *IngestUseCase) Ingest(root string, onDone func(processed, total int)) (*IngestResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk documents: %w", err)
	}

	result := &IngestResult{}
	for i, f := range files {
		if err := u.ingestFile(f, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", f.RelPath, err))
		}
		if onDone != nil {
			onDone(i+1, len(files))
		}
	}
	return result, nil
}

func (u *IngestUseCase) ingestFile(f port.FileInfo, result *IngestResult) error {
	content, err := fs.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	sum := sha256.Sum256([]byte(content))
	hash := hex.EncodeToString(sum[:])

	stored, err := u.store.HasContent(f.RelPath, hash)
	if err != nil {
		return err
	}
	if stored {
		result.DocumentsSkipped++
		return nil
	}

	sections := buildSections(content)
	_, err = u.store.Ingest(domain.StoredDocument{
		Path:        f.RelPath,
		Title:       documentTitle(f.RelPath, content),
		ContentHash: hash,
		WordCount:   chunker.WordCount(content),
	}, sections)
	if err != nil {
		return err
	}

	result.DocumentsIngested++
	result.SectionsCreated += len(sections)
	return nil
}

// buildSections maps the chunker's section split onto storable rows.
func buildSections(content string) []domain.Section {
	var sections []domain.Section
	for i, text := range chunker.Sections(content) {
		sections = append(sections, domain.Section{
			Heading:   sectionHeading(text),
			Content:   text,
			WordCount: chunker.WordCount(text),
			Position:  i,
		})
	}
	return sections
}

// sectionHeading extracts the heading title from a section's first line,
// empty for a headingless preamble.
func sectionHeading(section string) string {
	line, _, _ := strings.Cut(section, "\n")
	trimmed := strings.TrimLeft(line, "#")
	if trimmed == line {
		return ""
	}
	return strings.TrimSpace(trimmed)
}

// documentTitle prefers the first top-level heading, falling back to the
// file name.
func documentTitle(relPath, content string) string {
	for _, line := range strings.Split(content, "\n") {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	base := filepath.Base(relPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
