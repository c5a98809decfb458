package model

import "time"

// Config is the complete sower configuration, assembled from defaults,
// the config file, SOWER_* environment variables and CLI flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit"`
	Expansion   ExpansionConfig   `yaml:"expansion" json:"expansion"`
	Augment     AugmentConfig     `yaml:"augment" json:"augment"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig configures outbound HTTP for seed harvesting
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
	IgnoreRobots bool          `yaml:"ignore_robots" json:"ignore_robots"`
}

// CacheConfig configures the rewrite-result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// LLMConfig configures the rewrite provider used by augmentation
type LLMConfig struct {
	Provider       string `yaml:"provider" json:"provider"` // openai, anthropic, ollama, "" = disabled
	Model          string `yaml:"model" json:"model"`
	APIKey         string `yaml:"-" json:"-"` // Never persisted; env vars only
	BaseURL        string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout        int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens" json:"max_tokens"`
	StrictEntities bool   `yaml:"strict_entities" json:"strict_entities"`
}

// ConcurrencyConfig controls augmentation fan-out
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimitConfig throttles rewrite calls per provider endpoint
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// ExpansionConfig holds defaults for the expand command
type ExpansionConfig struct {
	DomainsFile       string `yaml:"domains_file" json:"domains_file"`
	VariantsPerDomain int    `yaml:"variants_per_domain" json:"variants_per_domain"`
}

// AugmentConfig holds defaults for the augment command
type AugmentConfig struct {
	Variants       int      `yaml:"variants" json:"variants"`               // Augmented variants per sampled example
	SampleFraction float64  `yaml:"sample_fraction" json:"sample_fraction"` // Share of the corpus to augment
	MinSample      int      `yaml:"min_sample" json:"min_sample"`
	Styles         []string `yaml:"styles" json:"styles"`
}

// OutputConfig controls console reporting
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the built-in defaults. Augmentation sampling follows
// the production pipeline: roughly a fifth of the corpus, at least 20
// examples, two variants each.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Sower/0.1 (+https://github.com/sower-ml/sower)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".sower-cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:       "", // Disabled unless requested
			Model:          "",
			Timeout:        60,
			MaxTokens:      400,
			StrictEntities: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Expansion: ExpansionConfig{
			DomainsFile:       "domains.yaml",
			VariantsPerDomain: 1,
		},
		Augment: AugmentConfig{
			Variants:       2,
			SampleFraction: 0.2,
			MinSample:      20,
			Styles:         []string{"paraphrase", "noise"},
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
