// Package config holds the settings of a mirroring run and loads them from
// YAML files.
package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for XDG directory paths.
const AppName = "sitemirror"

// Default configuration values.
const (
	DefaultMaxDepth          = 2
	DefaultConcurrency       = 10
	DefaultDestinationDir    = "."
	DefaultTimeout           = 30 * time.Second
	DefaultUserAgent         = "sitemirror/1.0"
	DefaultMaxBodySize       = 32 << 20
	DefaultBloomCapacity     = 1_000_000
	DefaultBloomFPRate       = 0.001
	DedupExact               = "exact"
	DedupBloom               = "bloom"
	DefaultConfigFile        = "sitemirror.yaml"
	DefaultXDGConfigFileName = "config.yaml"
)

// Config holds all options of a mirroring run.
type Config struct {
	RootURL        string        `yaml:"url"`
	DestinationDir string        `yaml:"dest"`
	MaxDepth       int           `yaml:"depth"`
	Concurrency    int           `yaml:"concurrency"`
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	MaxBodySize    int64         `yaml:"max_body_size"`

	// ReportPath is an optional SQLite file receiving one row per outcome.
	ReportPath string `yaml:"report"`

	// Dedup selects the visited set: "exact" or "bloom".
	Dedup          string  `yaml:"dedup"`
	BloomCapacity  uint    `yaml:"bloom_capacity"`
	BloomFPRate    float64 `yaml:"bloom_fp_rate"`
	DedupResources bool    `yaml:"dedup_resources"`

	Verbose bool `yaml:"verbose"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		DestinationDir: DefaultDestinationDir,
		MaxDepth:       DefaultMaxDepth,
		Concurrency:    DefaultConcurrency,
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		Dedup:          DedupExact,
		BloomCapacity:  DefaultBloomCapacity,
		BloomFPRate:    DefaultBloomFPRate,
	}
}

// XDGConfigPath returns the per-user configuration file path.
func XDGConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, DefaultXDGConfigFileName)
}

// Validate returns the first problem found in c.
func (c *Config) Validate() error {
	if c.RootURL == "" {
		return ErrNoRootURL
	}
	u, err := url.Parse(c.RootURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidRootURL
	}
	if c.DestinationDir == "" {
		return ErrNoDestination
	}
	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	switch c.Dedup {
	case DedupExact:
	case DedupBloom:
		if c.BloomCapacity == 0 || c.BloomFPRate <= 0 || c.BloomFPRate >= 1 {
			return ErrInvalidBloom
		}
	default:
		return ErrInvalidDedup
	}
	return nil
}
