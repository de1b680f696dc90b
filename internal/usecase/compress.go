package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"docpress/internal/adapter/chunker"
	"docpress/internal/domain"
	"docpress/internal/port"
)

// CompressUseCase drives the compression of documents: chunk, compress each
// chunk through the external model, and reassemble in order.
type CompressUseCase struct {
	chunker    port.Chunker
	compressor port.Compressor
	maxWords   int
	log        *slog.Logger
}

func NewCompressUseCase(chk port.Chunker, comp port.Compressor, maxWords int, log *slog.Logger) *CompressUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &CompressUseCase{
		chunker:    chk,
		compressor: comp,
		maxWords:   maxWords,
		log:        log,
	}
}

// CompressResult is the output for one document.
type CompressResult struct {
	Output string
	Report domain.CompressionReport
}

// Compress processes a single document. A failed chunk keeps its original
// text and is counted in the report; it never aborts the run.
func (u *CompressUseCase) Compress(ctx context.Context, doc domain.Document) (*CompressResult, error) {
	chunks, err := u.chunker.Chunk(doc.Content, u.maxWords)
	if err != nil {
		return nil, err
	}

	var out strings.Builder
	failed := 0
	for i, chunk := range chunks {
		compressed, err := u.compressor.Compress(ctx, chunk)
		if err != nil {
			u.log.Warn("chunk compression failed, keeping original text",
				"path", doc.Path, "chunk", i, "error", err)
			out.WriteString(chunk)
			failed++
			continue
		}
		// The model returns body text only. Reattach the chunk's own
		// trailing separator so the document structure survives.
		out.WriteString(strings.TrimRight(compressed, " \t\r\n"))
		out.WriteString(trailingWhitespace(chunk))
	}

	output := out.String()
	origWords := chunker.WordCount(doc.Content)
	compWords := chunker.WordCount(output)

	return &CompressResult{
		Output: output,
		Report: domain.CompressionReport{
			Path:            doc.Path,
			OriginalWords:   origWords,
			CompressedWords: compWords,
			ReductionPct:    reductionPct(origWords, compWords),
			ChunksTotal:     len(chunks),
			ChunksFailed:    failed,
		},
	}, nil
}

// FileResult pairs a document with its compression outcome.
type FileResult struct {
	Path   string
	Output string
	Report domain.CompressionReport
	Err    error
}

// CompressAll processes documents concurrently with a bounded worker pool.
// Documents are independent, so only result ordering needs coordination:
// results come back in input order.
func (u *CompressUseCase) CompressAll(ctx context.Context, docs []domain.Document, workers int, onDone func(completed int)) []FileResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	results := make([]FileResult, len(docs))
	jobs := make(chan int)
	var mu sync.Mutex
	completed := 0

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := u.Compress(ctx, docs[i])
				if err != nil {
					results[i] = FileResult{Path: docs[i].Path, Err: err}
				} else {
					results[i] = FileResult{Path: docs[i].Path, Output: res.Output, Report: res.Report}
				}
				if onDone != nil {
					mu.Lock()
					completed++
					onDone(completed)
					mu.Unlock()
				}
			}
		}()
	}

	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// reductionPct is the relative word-count decrease, 0 for an empty original.
func reductionPct(original, compressed int) float64 {
	if original == 0 {
		return 0
	}
	return float64(original-compressed) / float64(original) * 100
}

func trailingWhitespace(s string) string {
	trimmed := strings.TrimRight(s, " \t\r\n")
	return s[len(trimmed):]
}
