package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Annotator   AnnotatorConfig   `yaml:"annotator"`
	Output      OutputConfig      `yaml:"output"`
}

// CorpusConfig controls cross-interview aggregation
type CorpusConfig struct {
	// MinPrevalence is the fraction of interviews a theme must appear in to
	// count as a corpus pattern
	MinPrevalence float64 `yaml:"min_prevalence"`
}

// ConcurrencyConfig controls the interview worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// CacheConfig controls annotation response caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// AnnotatorConfig configures the upstream turn annotator
type AnnotatorConfig struct {
	// Provider name: "openai", "keyword", "" (disabled; inputs must arrive
	// pre-annotated)
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"-"` // from env, never persisted
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  int    `yaml:"timeout"` // seconds per request

	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			MinPrevalence: 0.3,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.voces/cache at startup
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Annotator: AnnotatorConfig{
			Provider:          "", // disabled by default
			Model:             "",
			Timeout:           30,
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
