// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults, Load to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of enrichment workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the candidate store.
	ShardCount int `koanf:"shard_count"`

	// AIFilterThreshold and HumanFilterThreshold feed the derived
	// PassedAIFilter / PassedHumanFilter flags during enrichment.
	AIFilterThreshold    float64 `koanf:"ai_filter_threshold"`
	HumanFilterThreshold float64 `koanf:"human_filter_threshold"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9090",
		QueueSize:            100_000,
		WorkerCount:          runtime.NumCPU() * 2,
		DedupeSize:           500_000,
		ShardCount:           8,
		AIFilterThreshold:    5.0,
		HumanFilterThreshold: 5.0,
	}
}
