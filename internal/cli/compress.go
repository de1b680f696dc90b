package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docpress/internal/adapter/chunker"
	"docpress/internal/adapter/compressor"
	"docpress/internal/adapter/fs"
	"docpress/internal/domain"
	"docpress/internal/port"
	"docpress/internal/usecase"
)

var (
	compressMaxWords int
	compressRate     float64
	compressWorkers  int
	compressSuffix   string
	compressOutDir   string
	compressVerify   bool
	compressDryRun   bool
)

var compressCmd = &cobra.Command{
	Use:   "compress [path]",
	Short: "Compress markdown files with the external compression model",
	Long: `Compress markdown files under the given path. Each document is split
into section-aware chunks bounded by a word budget, every chunk is sent to
the compression model, and the results are reassembled in order. A chunk the
model cannot compress keeps its original text.

Examples:
  docpress compress docs/              # Compress docs/ in place (suffixed copies)
  docpress compress -w 250 --rate 0.4  # Tighter budget, more aggressive model
  docpress compress --dry-run docs/    # Chunk and report without the model`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompress,
}

func init() {
	rootCmd.AddCommand(compressCmd)
	compressCmd.Flags().IntVarP(&compressMaxWords, "max-words", "w", 0, "chunk word budget (default from config)")
	compressCmd.Flags().Float64Var(&compressRate, "rate", 0, "compression rate passed to the model (default from config)")
	compressCmd.Flags().IntVar(&compressWorkers, "workers", 0, "concurrent documents (default from config)")
	compressCmd.Flags().StringVar(&compressSuffix, "suffix", "", "output file suffix (default from config)")
	compressCmd.Flags().StringVarP(&compressOutDir, "output-dir", "o", "", "write outputs under this directory instead of next to sources")
	compressCmd.Flags().BoolVar(&compressVerify, "verify", false, "check headings/links/code fences after compression")
	compressCmd.Flags().BoolVar(&compressDryRun, "dry-run", false, "skip the model, report chunking only")
}

func runCompress(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	maxWords := cfg.Compress.MaxWords
	if compressMaxWords > 0 {
		maxWords = compressMaxWords
	}
	workers := cfg.Compress.Workers
	if compressWorkers > 0 {
		workers = compressWorkers
	}
	suffix := cfg.Compress.Suffix
	if compressSuffix != "" {
		suffix = compressSuffix
	}
	rate := cfg.Compressor.Rate
	if compressRate > 0 {
		rate = compressRate
	}

	comp, err := buildCompressor(rate)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	defer comp.Close()

	walker := fs.NewWalker(cfg.Compress.Includes, cfg.Compress.Excludes)
	files, err := walker.Walk(path)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}
	if len(files) == 0 {
		fmt.Println("No matching markdown files found.")
		return nil
	}

	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		content, err := fs.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.RelPath, err)
		}
		docs = append(docs, domain.Document{Path: f.RelPath, Content: content})
	}

	fmt.Printf("Compressing %d files with model %s (budget %d words)...\n", len(docs), comp.ModelName(), maxWords)

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Compressing[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	uc := usecase.NewCompressUseCase(chunker.NewSectionChunker(), comp, maxWords, newLogger())
	results := uc.CompressAll(context.Background(), docs, workers, func(completed int) {
		bar.Set(completed)
	})

	verifyUC := usecase.NewVerifyUseCase()
	doVerify := compressVerify || cfg.Compress.Verify

	var totalOriginal, totalCompressed, failedChunks, failedFiles int
	fmt.Println()
	for i, res := range results {
		if res.Err != nil {
			failedFiles++
			fmt.Printf("  %-40s ERROR: %v\n", res.Path, res.Err)
			continue
		}

		outPath, err := outputPath(path, res.Path, suffix)
		if err != nil {
			return err
		}
		if !compressDryRun {
			if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outPath, []byte(res.Output), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
		}

		r := res.Report
		totalOriginal += r.OriginalWords
		totalCompressed += r.CompressedWords
		failedChunks += r.ChunksFailed

		fmt.Printf("  %-40s %5d -> %5d words (%.1f%%), %d chunks", res.Path, r.OriginalWords, r.CompressedWords, r.ReductionPct, r.ChunksTotal)
		if r.ChunksFailed > 0 {
			fmt.Printf(", %d kept original", r.ChunksFailed)
		}
		if doVerify {
			diff := verifyUC.Verify([]byte(docs[i].Content), []byte(res.Output))
			if !diff.Clean() {
				fmt.Printf(" [structure loss: %d headings, %d links, %d fences]",
					len(diff.MissingHeadings), len(diff.MissingLinks), diff.CodeFenceDelta)
			}
		}
		fmt.Println()
	}

	fmt.Printf("\nCompression complete:\n")
	fmt.Printf("  Files:          %d\n", len(results)-failedFiles)
	fmt.Printf("  Original words: %d\n", totalOriginal)
	fmt.Printf("  Output words:   %d\n", totalCompressed)
	fmt.Printf("  Reduction:      %.1f%%\n", overallReduction(totalOriginal, totalCompressed))
	if failedChunks > 0 {
		fmt.Printf("  Chunks kept original after failures: %d\n", failedChunks)
	}
	if failedFiles > 0 {
		return fmt.Errorf("%d files failed to compress", failedFiles)
	}
	return nil
}

// buildCompressor constructs the configured compression capability once; it
// is reused for every chunk and closed when the command finishes.
func buildCompressor(rate float64) (port.Compressor, error) {
	cfg := GetConfig()

	if compressDryRun {
		return compressor.NewPassthroughCompressor(), nil
	}
	switch cfg.Compressor.Provider {
	case "remote":
		return compressor.NewRemoteCompressor(
			cfg.Compressor.BaseURL,
			cfg.Compressor.APIKeyEnv,
			cfg.Compressor.Model,
			rate,
			time.Duration(cfg.Compressor.TimeoutSeconds)*time.Second,
		)
	case "passthrough":
		return compressor.NewPassthroughCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compressor provider: %s", cfg.Compressor.Provider)
	}
}

// outputPath maps a source's relative path to its output location, either
// under the output dir or next to the source with the suffix applied.
func outputPath(root, relPath, suffix string) (string, error) {
	if compressOutDir != "" {
		return filepath.Join(compressOutDir, relPath), nil
	}
	if suffix == "" {
		return "", fmt.Errorf("refusing to overwrite %s: set a suffix or an output directory", relPath)
	}
	out := strings.TrimSuffix(relPath, filepath.Ext(relPath)) + suffix
	return filepath.Join(root, out), nil
}

func overallReduction(original, compressed int) float64 {
	if original == 0 {
		return 0
	}
	return float64(original-compressed) / float64(original) * 100
}
