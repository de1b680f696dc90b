package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"time"

	"docpress/internal/adapter/store"
	"docpress/internal/domain"
	"docpress/internal/port"
)

// FreshnessUseCase compares tracked governance documents against the
// recorded manifest to detect drift.
type FreshnessUseCase struct {
	store  *store.ManifestStore
	walker port.FileWalker
}

func NewFreshnessUseCase(st *store.ManifestStore, walker port.FileWalker) *FreshnessUseCase {
	return &FreshnessUseCase{store: st, walker: walker}
}

// CheckResult aggregates the per-document freshness entries.
type CheckResult struct {
	Entries []domain.FreshnessEntry
	Fresh   int
	Drifted int
	New     int
	Missing int
}

// Check hashes every tracked document under root and compares against the
// manifest. Tracked files without a record are reported as new, recorded
// paths without a file as missing.
func (u *FreshnessUseCase) Check(root string) (*CheckResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk documents: %w", err)
	}

	recorded, err := u.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	result := &CheckResult{}
	seen := make(map[string]bool, len(files))

	for _, f := range files {
		seen[f.RelPath] = true

		hash, err := hashFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", f.RelPath, err)
		}

		rec, ok := recorded[f.RelPath]
		entry := domain.FreshnessEntry{Path: f.RelPath, CurrentHash: hash}
		switch {
		case !ok:
			entry.State = domain.StateNew
			result.New++
		case rec.Hash == hash:
			entry.State = domain.StateFresh
			entry.RecordedHash = rec.Hash
			entry.RecordedAt = rec.RecordedAt
			result.Fresh++
		default:
			entry.State = domain.StateDrifted
			entry.RecordedHash = rec.Hash
			entry.RecordedAt = rec.RecordedAt
			result.Drifted++
		}
		result.Entries = append(result.Entries, entry)
	}

	for path, rec := range recorded {
		if seen[path] {
			continue
		}
		result.Entries = append(result.Entries, domain.FreshnessEntry{
			Path:         path,
			State:        domain.StateMissing,
			RecordedHash: rec.Hash,
			RecordedAt:   rec.RecordedAt,
		})
		result.Missing++
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].Path < result.Entries[j].Path
	})
	return result, nil
}

// Update rewrites the manifest from the current state of the tracked
// documents and returns the number of recorded files.
func (u *FreshnessUseCase) Update(root string) (int, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return 0, fmt.Errorf("failed to walk documents: %w", err)
	}

	now := time.Now().UTC()
	records := make(map[string]domain.ManifestRecord, len(files))
	for _, f := range files {
		hash, err := hashFile(f.Path)
		if err != nil {
			return 0, fmt.Errorf("failed to hash %s: %w", f.RelPath, err)
		}
		records[f.RelPath] = domain.ManifestRecord{
			Hash:       hash,
			Size:       f.Size,
			RecordedAt: now,
		}
	}

	if err := u.store.Replace(records); err != nil {
		return 0, fmt.Errorf("failed to write manifest: %w", err)
	}
	return len(records), nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
