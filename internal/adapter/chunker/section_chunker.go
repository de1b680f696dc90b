package chunker

import (
	"errors"
	"strings"
)

// ErrInvalidMaxWords is returned when the word budget is zero or negative.
var ErrInvalidMaxWords = errors.New("chunker: max words must be positive")

// SectionChunker splits markdown into chunks bounded by a word budget,
// cutting at second-level headings first and falling back to paragraph
// packing when a section alone exceeds the budget.
//
// Every chunk is a verbatim slice of the input: each section and paragraph
// keeps its own trailing newlines and blank lines, so joining the chunks
// with the empty string reproduces the document byte for byte.
type SectionChunker struct{}

func NewSectionChunker() *SectionChunker {
	return &SectionChunker{}
}

func (c *SectionChunker) Chunk(document string, maxWords int) ([]string, error) {
	if maxWords <= 0 {
		return nil, ErrInvalidMaxWords
	}
	if document == "" {
		return nil, nil
	}

	var chunks []string
	for _, section := range Sections(document) {
		if WordCount(section) <= maxWords {
			chunks = append(chunks, section)
			continue
		}
		chunks = append(chunks, packParagraphs(splitParagraphs(section), maxWords)...)
	}
	return chunks, nil
}

// Sections cuts the document before every second-level heading line. The
// heading line starts its section; any preamble before the first heading is
// its own section. Concatenating the slices reproduces the document.
func Sections(document string) []string {
	if document == "" {
		return nil
	}

	var sections []string
	start := 0
	lineStart := 0
	for lineStart < len(document) {
		next := lineEnd(document, lineStart)
		if lineStart > start && isSectionHeading(document[lineStart:next]) {
			sections = append(sections, document[start:lineStart])
			start = lineStart
		}
		lineStart = next
	}
	return append(sections, document[start:])
}

// isSectionHeading matches exactly two heading symbols followed by
// whitespace. Deeper headings ("###") stay inside their section.
func isSectionHeading(line string) bool {
	rest, ok := strings.CutPrefix(line, "##")
	if !ok || rest == "" {
		return false
	}
	switch rest[0] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// splitParagraphs cuts a section before every non-blank line that follows a
// blank line. Each paragraph carries its trailing blank-line run, keeping
// the slices verbatim.
func splitParagraphs(section string) []string {
	var paragraphs []string
	start := 0
	lineStart := 0
	prevBlank := false
	for lineStart < len(section) {
		next := lineEnd(section, lineStart)
		blank := strings.TrimSpace(section[lineStart:next]) == ""
		if !blank && prevBlank && lineStart > start {
			paragraphs = append(paragraphs, section[start:lineStart])
			start = lineStart
		}
		prevBlank = blank
		lineStart = next
	}
	return append(paragraphs, section[start:])
}

// packParagraphs greedily fills a buffer with consecutive paragraphs while
// the running word count stays within the budget. A single paragraph over
// the budget becomes its own oversized chunk; it is never split further.
func packParagraphs(paragraphs []string, maxWords int) []string {
	var chunks []string
	var buf strings.Builder
	bufWords := 0

	for _, para := range paragraphs {
		words := WordCount(para)
		if bufWords > 0 && bufWords+words > maxWords {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufWords = 0
		}
		buf.WriteString(para)
		bufWords += words
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func lineEnd(text string, lineStart int) int {
	if i := strings.IndexByte(text[lineStart:], '\n'); i >= 0 {
		return lineStart + i + 1
	}
	return len(text)
}
