package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestChunkInvalidMaxWords(t *testing.T) {
	c := NewSectionChunker()

	for _, max := range []int{0, -1, -100} {
		if _, err := c.Chunk("some text", max); err != ErrInvalidMaxWords {
			t.Errorf("maxWords=%d: expected ErrInvalidMaxWords, got %v", max, err)
		}
	}
}

func TestChunkEmptyDocument(t *testing.T) {
	c := NewSectionChunker()

	chunks, err := c.Chunk("", 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected empty sequence for empty document, got %d chunks", len(chunks))
	}
}

func TestChunkRoundTrip(t *testing.T) {
	c := NewSectionChunker()

	documents := []string{
		"single line without newline",
		"## Heading\nbody text\n",
		"preamble before any heading\n\n## One\ntext\n\n## Two\nmore text\n",
		"## A\n" + strings.Repeat("word ", 80) + "\n\n" + strings.Repeat("word ", 80) + "\n",
		"trailing blanks\n\n\n\n",
		"\n\nleading blanks then text\n",
		"## Only heading\n",
		"###\tdeeper heading stays put\n## Real\ntext\n",
	}

	for _, doc := range documents {
		for _, max := range []int{1, 5, 50, 1000} {
			chunks, err := c.Chunk(doc, max)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Join(chunks, ""); got != doc {
				t.Errorf("maxWords=%d: round trip mismatch\n doc: %q\n got: %q", max, doc, got)
			}
			for i, chunk := range chunks {
				if chunk == "" {
					t.Errorf("maxWords=%d: chunk %d is empty", max, i)
				}
			}
		}
	}
}

func TestChunkBudget(t *testing.T) {
	c := NewSectionChunker()

	// Three paragraphs of 20 words each inside one oversized section.
	para := strings.TrimSpace(strings.Repeat("word ", 20))
	doc := "## Big\n" + para + "\n\n" + para + "\n\n" + para + "\n"

	chunks, err := c.Chunk(doc, 45)
	if err != nil {
		t.Fatal(err)
	}

	// Heading adds 2 words to the first paragraph: 22 + 20 = 42 fits, the
	// third paragraph starts a new chunk.
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if wc := WordCount(chunk); wc > 45 {
			t.Errorf("chunk %d has %d words, budget is 45", i, wc)
		}
	}
}

func TestChunkKeepsWholeSections(t *testing.T) {
	c := NewSectionChunker()

	doc := "## One\nten words here padding out the first section nicely\n\n## Two\na second short section\n"
	chunks, err := c.Chunk(doc, 50)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected one chunk per section, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "## One") {
		t.Errorf("first chunk should start at first heading, got %q", chunks[0])
	}
	if !strings.HasPrefix(chunks[1], "## Two") {
		t.Errorf("second chunk should start at second heading, got %q", chunks[1])
	}
}

func TestChunkHeadinglessPreamble(t *testing.T) {
	c := NewSectionChunker()

	doc := "intro text before any heading\n\n## First\nsection body\n"
	chunks, err := c.Chunk(doc, 100)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected preamble plus one section, got %d chunks", len(chunks))
	}
	if strings.Contains(chunks[0], "##") {
		t.Errorf("preamble chunk should not contain a heading: %q", chunks[0])
	}
}

func TestChunkOversizedParagraphPassedThrough(t *testing.T) {
	c := NewSectionChunker()

	// A 300-word paragraph with no internal blank lines cannot be packed
	// under a 50-word budget; it is emitted whole rather than split.
	small := "## A\n" + strings.Repeat("word ", 10)
	big := "## B\n" + strings.Repeat("word ", 300)
	doc := small + "\n\n" + big

	chunks, err := c.Chunk(doc, 50)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if wc := WordCount(chunks[0]); wc > 50 {
		t.Errorf("section A should fit the budget, has %d words", wc)
	}
	if wc := WordCount(chunks[1]); wc <= 50 {
		t.Errorf("section B should be one oversized chunk, has %d words", wc)
	}
	if strings.Join(chunks, "") != doc {
		t.Error("round trip mismatch with oversized paragraph")
	}
}

func TestChunkDeterministic(t *testing.T) {
	c := NewSectionChunker()

	doc := "## S\n" + strings.Repeat("alpha beta gamma\n\n", 30)

	first, err := c.Chunk(doc, 25)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := c.Chunk(doc, 25)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different chunks", i)
		}
	}
}

func TestSections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"empty", "", 0},
		{"no headings", "just text\nmore text\n", 1},
		{"heading first", "## A\ntext\n", 1},
		{"preamble and two", "pre\n## A\nx\n## B\ny\n", 3},
		{"deeper heading ignored", "## A\n### sub\ntext\n", 1},
		{"hash run not heading", "##nospace\ntext\n", 1},
		{"tab after hashes", "intro\n##\tTabbed\ntext\n", 2},
	}

	for _, tt := range tests {
		got := Sections(tt.doc)
		if len(got) != tt.want {
			t.Errorf("%s: expected %d sections, got %d (%q)", tt.name, tt.want, len(got), got)
		}
		if strings.Join(got, "") != tt.doc {
			t.Errorf("%s: sections do not reassemble the document", tt.name)
		}
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"one two\tthree\nfour", 4},
		{"## Heading line\nbody", 4},
	}

	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
