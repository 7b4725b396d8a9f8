package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all dex configuration.
type Config struct {
	// API configures the remote catalog endpoints.
	API APIConfig `yaml:"api"`

	// Scan configures the aggregate ability scan.
	Scan ScanConfig `yaml:"scan"`

	// Store configures scan history persistence.
	Store StoreConfig `yaml:"store"`

	// Generations are the id ranges offered by the generation selector.
	Generations []Generation `yaml:"generations"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the catalog API client.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	IndexLimit int    `yaml:"index_limit"`
	Timeout    string `yaml:"timeout"` // "0s" disables the per-request timeout
	UserAgent  string `yaml:"user_agent"`
}

// ScanConfig configures the most-frequent-ability scan.
type ScanConfig struct {
	// Concurrency bounds in-flight detail fetches. 1 keeps the scan strictly serial.
	Concurrency int `yaml:"concurrency"`
}

// StoreConfig configures the SQLite scan history.
type StoreConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// Generation is one release group: an inclusive id range.
type Generation struct {
	Number int `yaml:"number"`
	Start  int `yaml:"start"`
	End    int `yaml:"end"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "https://pokeapi.co/api/v2",
			IndexLimit: 1017,
			Timeout:    "0s",
			UserAgent:  "dex/1.0",
		},
		Scan: ScanConfig{
			Concurrency: 1,
		},
		Store: StoreConfig{
			Enabled:      false,
			DatabasePath: filepath.Join(".dex", "history.db"),
		},
		Generations: DefaultGenerations(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultGenerations returns the nine known generation ranges.
func DefaultGenerations() []Generation {
	return []Generation{
		{Number: 1, Start: 1, End: 151},
		{Number: 2, Start: 152, End: 251},
		{Number: 3, Start: 252, End: 386},
		{Number: 4, Start: 387, End: 493},
		{Number: 5, Start: 494, End: 649},
		{Number: 6, Start: 650, End: 721},
		{Number: 7, Start: 722, End: 809},
		{Number: 8, Start: 810, End: 905},
		{Number: 9, Start: 906, End: 1017},
	}
}

// DefaultPath returns the config path inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".dex", "dex.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("DEX_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if v := os.Getenv("DEX_INDEX_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.IndexLimit = n
		}
	}
	if v := os.Getenv("DEX_SCAN_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scan.Concurrency = n
		}
	}
	if path := os.Getenv("DEX_DB"); path != "" {
		c.Store.DatabasePath = path
		c.Store.Enabled = true
	}
}

// GetAPITimeout returns the per-request timeout. Zero means no timeout.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Generation looks up a generation by number.
func (c *Config) Generation(number int) (Generation, bool) {
	for _, g := range c.Generations {
		if g.Number == number {
			return g, true
		}
	}
	return Generation{}, false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.IndexLimit <= 0 {
		return fmt.Errorf("api.index_limit must be positive, got %d", c.API.IndexLimit)
	}
	if c.Scan.Concurrency <= 0 {
		return fmt.Errorf("scan.concurrency must be positive, got %d", c.Scan.Concurrency)
	}
	if _, err := time.ParseDuration(c.API.Timeout); c.API.Timeout != "" && err != nil {
		return fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
	}
	seen := make(map[int]bool, len(c.Generations))
	for _, g := range c.Generations {
		if g.Start < 1 || g.Start > g.End {
			return fmt.Errorf("invalid generation %d range %d-%d", g.Number, g.Start, g.End)
		}
		if seen[g.Number] {
			return fmt.Errorf("duplicate generation %d", g.Number)
		}
		seen[g.Number] = true
	}
	return nil
}
