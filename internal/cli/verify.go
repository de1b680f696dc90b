package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docpress/internal/usecase"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <original> <compressed>",
	Short: "Check that a compressed file kept the original's structure",
	Long: `Compare the markdown structure of an original document and its
compressed rendition. Reports headings, links, and code fences that were
lost; exits non-zero when anything is missing.

Example:
  docpress verify docs/guide.md docs/guide.min.md`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	original, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read original: %w", err)
	}
	compressed, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read compressed file: %w", err)
	}

	diff := usecase.NewVerifyUseCase().Verify(original, compressed)
	if diff.Clean() {
		fmt.Println("Structure preserved: all headings, links, and code fences intact.")
		return nil
	}

	for _, h := range diff.MissingHeadings {
		fmt.Printf("  missing heading (h%d): %s\n", h.Level, h.Title)
	}
	for _, l := range diff.MissingLinks {
		fmt.Printf("  missing link: %s\n", l)
	}
	if diff.CodeFenceDelta > 0 {
		fmt.Printf("  missing code fences: %d\n", diff.CodeFenceDelta)
	}
	return fmt.Errorf("compressed file lost structure from the original")
}
