// Package config provides configuration management for the search engine.
package config

import (
	"fmt"
	"time"
)

// Config is the global configuration.
type Config struct {
	// App is the application configuration.
	App AppConfig `mapstructure:"app" validate:"required"`

	// Log is the logging configuration.
	Log LogConfig `mapstructure:"log" validate:"required"`

	// Engine is the search engine configuration.
	Engine EngineConfig `mapstructure:"engine" validate:"required"`

	// Archive is the raw-document archive configuration.
	Archive ArchiveConfig `mapstructure:"archive"`

	// Metrics is the observability configuration.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Tracing is the distributed tracing configuration.
	Tracing TracingConfig `mapstructure:"tracing"`
}

// AppConfig holds application metadata and settings.
type AppConfig struct {
	// Name is the application name.
	Name string `mapstructure:"name" validate:"required"`

	// Environment is the runtime environment (development, staging, production).
	Environment string `mapstructure:"environment" validate:"oneof=development staging production"`

	// Debug records debug mode. The CLI's --debug flag sets it together with
	// log.level=debug; log verbosity itself follows Log.Level.
	Debug bool `mapstructure:"debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is the log format (json or text).
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// Output is "stdout", "stderr", or a file path.
	Output string `mapstructure:"output"`
}

// EngineConfig holds the search engine settings.
type EngineConfig struct {
	// IndexPath is the path of the persisted index artifact. Must end
	// in ".json".
	IndexPath string `mapstructure:"index_path" validate:"required,json_path"`

	// Scorer selects the ranking model.
	Scorer string `mapstructure:"scorer" validate:"oneof=ql bm25"`

	// StopwordsFile is an optional stop-word file, one word per line.
	StopwordsFile string `mapstructure:"stopwords_file"`

	// BM25 holds the BM25 tuning parameters.
	BM25 BM25Config `mapstructure:"bm25"`

	// QL holds the query-likelihood tuning parameters.
	QL QLConfig `mapstructure:"ql"`
}

// BM25Config holds BM25 tuning parameters.
type BM25Config struct {
	K1 float64 `mapstructure:"k1" validate:"min=0"`
	K2 float64 `mapstructure:"k2" validate:"min=0"`
	B  float64 `mapstructure:"b" validate:"min=0,max=1"`
}

// QLConfig holds query-likelihood tuning parameters.
type QLConfig struct {
	Mu float64 `mapstructure:"mu" validate:"min=0"`
}

// ArchiveConfig holds the raw-document archive settings.
type ArchiveConfig struct {
	// Enabled turns on raw-document archival.
	Enabled bool `mapstructure:"enabled"`

	// Type selects the backend.
	Type string `mapstructure:"type" validate:"omitempty,oneof=memory badger sqlite"`

	// Path is the backend data location (directory for badger, database
	// file for sqlite).
	Path string `mapstructure:"path"`
}

// MetricsConfig holds the Prometheus settings.
type MetricsConfig struct {
	// Enabled turns on metrics collection.
	Enabled bool `mapstructure:"enabled"`

	// Port is the scrape server port.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	// Path is the scrape endpoint path.
	Path string `mapstructure:"path"`
}

// TracingConfig holds the OpenTelemetry settings.
type TracingConfig struct {
	// Enabled turns on trace export.
	Enabled bool `mapstructure:"enabled"`

	// Exporter names the exporter kind; only "otlp" is supported.
	Exporter string `mapstructure:"exporter"`

	// Endpoint is the OTLP collector endpoint.
	Endpoint string `mapstructure:"endpoint"`

	// Timeout bounds a single export.
	Timeout time.Duration `mapstructure:"timeout"`

	// Sampler selects the sampling strategy (always_on, always_off, ratio).
	Sampler string `mapstructure:"sampler"`

	// SampleRate is the trace sample rate for the ratio sampler.
	SampleRate float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`

	// Headers are extra headers sent to the collector.
	Headers map[string]string `mapstructure:"headers"`
}

// String returns a short human-readable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("app=%s env=%s index=%s scorer=%s archive=%s metrics=%v",
		c.App.Name, c.App.Environment, c.Engine.IndexPath, c.Engine.Scorer,
		c.Archive.Type, c.Metrics.Enabled)
}
