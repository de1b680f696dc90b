package usecase

import (
	"docpress/internal/adapter/markdown"
	"docpress/internal/domain"
)

// VerifyUseCase checks that a compressed document kept the headings, links,
// and code fences of its original.
type VerifyUseCase struct{}

func NewVerifyUseCase() *VerifyUseCase {
	return &VerifyUseCase{}
}

func (u *VerifyUseCase) Verify(original, compressed []byte) domain.OutlineDiff {
	return markdown.Diff(markdown.Outline(original), markdown.Outline(compressed))
}
