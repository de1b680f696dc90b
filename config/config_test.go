package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Compress.MaxWords != 400 {
		t.Errorf("expected MaxWords=400, got %d", cfg.Compress.MaxWords)
	}
	if cfg.Compress.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Compress.Workers)
	}
	if cfg.Compressor.Rate != 0.5 {
		t.Errorf("expected Rate=0.5, got %f", cfg.Compressor.Rate)
	}
	if cfg.Compressor.Provider != "remote" {
		t.Errorf("expected Provider=remote, got %s", cfg.Compressor.Provider)
	}
	if cfg.Compress.Suffix != ".min.md" {
		t.Errorf("expected Suffix=.min.md, got %s", cfg.Compress.Suffix)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docpress.yaml")

	content := `
compress:
  max_words: 250
  workers: 2
compressor:
  provider: passthrough
  rate: 0.3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Compress.MaxWords != 250 {
		t.Errorf("expected MaxWords=250, got %d", cfg.Compress.MaxWords)
	}
	if cfg.Compress.Workers != 2 {
		t.Errorf("expected Workers=2, got %d", cfg.Compress.Workers)
	}
	if cfg.Compressor.Provider != "passthrough" {
		t.Errorf("expected passthrough provider, got %s", cfg.Compressor.Provider)
	}
	if cfg.Compressor.Rate != 0.3 {
		t.Errorf("expected Rate=0.3, got %f", cfg.Compressor.Rate)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docpress.yaml")

	content := `
compress:
  suffix: ".small.md"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Compress.Suffix != ".small.md" {
		t.Errorf("expected Suffix=.small.md, got %s", cfg.Compress.Suffix)
	}
}

func TestDataPaths(t *testing.T) {
	if got := ManifestDBPath("/home/user/project"); got != filepath.Join("/home/user/project", ".docpress", "manifest.db") {
		t.Errorf("unexpected manifest path: %s", got)
	}
	if got := MemoryDBPath("/home/user/project"); got != filepath.Join("/home/user/project", ".docpress", "memory.db") {
		t.Errorf("unexpected memory path: %s", got)
	}
}
