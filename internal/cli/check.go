package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docpress/config"
	"docpress/internal/adapter/fs"
	"docpress/internal/adapter/store"
	"docpress/internal/domain"
	"docpress/internal/usecase"
)

var checkUpdate bool

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check tracked documents for drift against the recorded manifest",
	Long: `Hash every tracked governance document and compare it to the recorded
manifest. Exits non-zero when any document drifted from its recorded state.

Examples:
  docpress check            # Report drift
  docpress check --update   # Record the current state as fresh`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVarP(&checkUpdate, "update", "u", false, "rewrite the manifest from the current document state")
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	st, err := store.NewManifestStore(config.ManifestDBPath(path))
	if err != nil {
		return fmt.Errorf("failed to open manifest: %w", err)
	}
	defer st.Close()

	walker := fs.NewWalker(cfg.Freshness.Includes, cfg.Freshness.Excludes)
	uc := usecase.NewFreshnessUseCase(st, walker)

	if checkUpdate {
		n, err := uc.Update(path)
		if err != nil {
			return fmt.Errorf("manifest update failed: %w", err)
		}
		fmt.Printf("Manifest updated: %d documents recorded.\n", n)
		return nil
	}

	res, err := uc.Check(path)
	if err != nil {
		return fmt.Errorf("freshness check failed: %w", err)
	}

	for _, e := range res.Entries {
		switch e.State {
		case domain.StateDrifted:
			fmt.Printf("  DRIFTED  %s (recorded %s)\n", e.Path, e.RecordedAt.Format("2006-01-02"))
		case domain.StateNew:
			fmt.Printf("  NEW      %s\n", e.Path)
		case domain.StateMissing:
			fmt.Printf("  MISSING  %s\n", e.Path)
		}
	}

	fmt.Printf("\nFreshness check: %d fresh, %d drifted, %d new, %d missing\n",
		res.Fresh, res.Drifted, res.New, res.Missing)

	if res.Drifted > 0 || res.Missing > 0 {
		fmt.Fprintln(os.Stderr, "Run 'docpress check --update' after reviewing the changes.")
		return fmt.Errorf("documentation drift detected")
	}
	return nil
}
