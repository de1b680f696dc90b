// Package markdown extracts the structural skeleton of a markdown document
// so compression runs can be checked for lost headings, links, and code
// fences.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"docpress/internal/domain"
)

// Outline parses src and collects headings, link destinations, and the
// fenced-code-block count, in document order.
func Outline(src []byte) domain.Outline {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var outline domain.Outline
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			outline.Headings = append(outline.Headings, domain.Heading{
				Level: node.Level,
				Title: string(node.Text(src)),
			})
		case *ast.Link:
			outline.Links = append(outline.Links, string(node.Destination))
		case *ast.AutoLink:
			outline.Links = append(outline.Links, string(node.URL(src)))
		case *ast.FencedCodeBlock:
			outline.CodeFences++
		}
		return ast.WalkContinue, nil
	})
	return outline
}

// Diff reports structure present in original but missing from compressed.
// Headings and links are compared as multisets, so a repeated link must
// survive as many times as it appeared.
func Diff(original, compressed domain.Outline) domain.OutlineDiff {
	var diff domain.OutlineDiff

	remaining := make(map[domain.Heading]int)
	for _, h := range compressed.Headings {
		remaining[h]++
	}
	for _, h := range original.Headings {
		if remaining[h] > 0 {
			remaining[h]--
			continue
		}
		diff.MissingHeadings = append(diff.MissingHeadings, h)
	}

	links := make(map[string]int)
	for _, l := range compressed.Links {
		links[l]++
	}
	for _, l := range original.Links {
		if links[l] > 0 {
			links[l]--
			continue
		}
		diff.MissingLinks = append(diff.MissingLinks, l)
	}

	if original.CodeFences > compressed.CodeFences {
		diff.CodeFenceDelta = original.CodeFences - compressed.CodeFences
	}
	return diff
}
