package cli

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docpress/config"
	"docpress/internal/adapter/fs"
	"docpress/internal/adapter/store"
	"docpress/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Load documentation files into the memory store",
	Long: `Walk the documentation tree and store every matching file, split into
heading-delimited sections, in the local SQLite memory store for later
retrieval. Unchanged files are skipped; changed files replace their previous
rows.

Examples:
  docpress ingest .            # Ingest the current directory
  docpress ingest docs/        # Ingest a specific tree`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	cfg := GetConfig()

	if err := config.EnsureDataDir(path); err != nil {
		return fmt.Errorf("failed to create .docpress directory: %w", err)
	}

	dbPath := config.MemoryDBPath(path)
	st, err := store.NewMemoryStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open memory store: %w", err)
	}
	defer st.Close()

	walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
	uc := usecase.NewIngestUseCase(st, walker)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	result, err := uc.Ingest(path, func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Documents ingested: %d\n", result.DocumentsIngested)
	fmt.Printf("  Documents skipped:  %d (unchanged)\n", result.DocumentsSkipped)
	fmt.Printf("  Sections created:   %d\n", result.SectionsCreated)

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("\nMemory store: %s\n", dbPath)
	return nil
}
