package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the docpress tool.
type Config struct {
	Compress   CompressConfig   `yaml:"compress"`
	Compressor CompressorConfig `yaml:"compressor"`
	Freshness  FreshnessConfig  `yaml:"freshness"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CompressConfig holds chunking and output configuration.
type CompressConfig struct {
	Includes  []string `yaml:"includes"`
	Excludes  []string `yaml:"excludes"`
	MaxWords  int      `yaml:"max_words"` // chunk word budget
	Suffix    string   `yaml:"suffix"`    // output file suffix
	OutputDir string   `yaml:"output_dir"`
	Workers   int      `yaml:"workers"`
	Verify    bool     `yaml:"verify"` // check structure after compressing
}

// CompressorConfig holds the external compression model configuration.
type CompressorConfig struct {
	Provider       string  `yaml:"provider"` // "remote", "passthrough"
	BaseURL        string  `yaml:"base_url"`
	APIKeyEnv      string  `yaml:"api_key_env"` // environment variable for API key
	Model          string  `yaml:"model"`
	Rate           float64 `yaml:"rate"` // compression aggressiveness, passed through
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// FreshnessConfig holds the governance-document tracking configuration.
type FreshnessConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// IngestConfig holds documentation ingestion configuration.
type IngestConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Compress: CompressConfig{
			Includes: []string{"**/*.md"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**", "**/*.min.md"},
			MaxWords: 400,
			Suffix:   ".min.md",
			Workers:  4,
			Verify:   false,
		},
		Compressor: CompressorConfig{
			Provider:       "remote",
			BaseURL:        "http://localhost:8765",
			APIKeyEnv:      "",
			Model:          "llmlingua-2",
			Rate:           0.5,
			TimeoutSeconds: 120,
		},
		Freshness: FreshnessConfig{
			Includes: []string{"docs/**/*.md", "skills/**/*.md", "*.md"},
			Excludes: []string{"**/node_modules/**", "**/.git/**"},
		},
		Ingest: IngestConfig{
			Includes: []string{"**/*.md"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docpress.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docpress.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docpress", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ManifestDBPath returns the path to the freshness manifest database.
func ManifestDBPath(dir string) string {
	return filepath.Join(dir, ".docpress", "manifest.db")
}

// MemoryDBPath returns the path to the ingestion database.
func MemoryDBPath(dir string) string {
	return filepath.Join(dir, ".docpress", "memory.db")
}

// EnsureDataDir ensures the .docpress directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".docpress"), 0755)
}
