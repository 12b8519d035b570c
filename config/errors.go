package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrNoRootURL          = errors.New("no root URL specified")
	ErrInvalidRootURL     = errors.New("invalid root URL: must be an absolute http or https URL")
	ErrNoDestination      = errors.New("no destination directory specified")
	ErrInvalidDepth       = errors.New("invalid depth: must be non-negative")
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")
	ErrInvalidTimeout     = errors.New("invalid timeout: must be positive")
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")
	ErrInvalidDedup       = errors.New(`invalid dedup mode: must be "exact" or "bloom"`)
	ErrInvalidBloom       = errors.New("invalid bloom settings: capacity must be positive and false positive rate in (0, 1)")
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
