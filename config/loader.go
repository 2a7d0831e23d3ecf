package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "SIMPLESEARCH_"
	// Delimiter is the key delimiter for nested config.
	Delimiter = "."
)

// Loader handles configuration loading from various sources.
type Loader struct {
	k *koanf.Koanf
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		k: koanf.New(Delimiter),
	}
}

// Load loads configuration with the following priority:
// 1. Explicit overrides (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func (l *Loader) Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := l.loadFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		l.loadDefaultFiles()
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := l.k.Load(confmap.Provider(overrides, Delimiter), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	var cfg Config
	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "mapstructure",
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateWithDetails(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDefaults loads the default configuration.
func (l *Loader) loadDefaults() error {
	defaults := DefaultConfig()
	return l.k.Load(confmap.Provider(map[string]interface{}{
		"app.name":               defaults.App.Name,
		"app.environment":        defaults.App.Environment,
		"app.debug":              defaults.App.Debug,
		"log.level":              defaults.Log.Level,
		"log.format":             defaults.Log.Format,
		"log.output":             defaults.Log.Output,
		"engine.index_path":      defaults.Engine.IndexPath,
		"engine.scorer":          defaults.Engine.Scorer,
		"engine.stopwords_file":  defaults.Engine.StopwordsFile,
		"engine.bm25.k1":         defaults.Engine.BM25.K1,
		"engine.bm25.k2":         defaults.Engine.BM25.K2,
		"engine.bm25.b":          defaults.Engine.BM25.B,
		"engine.ql.mu":           defaults.Engine.QL.Mu,
		"archive.enabled":        defaults.Archive.Enabled,
		"archive.type":           defaults.Archive.Type,
		"archive.path":           defaults.Archive.Path,
		"metrics.enabled":        defaults.Metrics.Enabled,
		"metrics.port":           defaults.Metrics.Port,
		"metrics.path":           defaults.Metrics.Path,
		"tracing.enabled":        defaults.Tracing.Enabled,
		"tracing.exporter":       defaults.Tracing.Exporter,
		"tracing.endpoint":       defaults.Tracing.Endpoint,
		"tracing.timeout":        defaults.Tracing.Timeout,
		"tracing.sampler":        defaults.Tracing.Sampler,
		"tracing.sample_rate":    defaults.Tracing.SampleRate,
	}, Delimiter), nil)
}

// loadFile loads configuration from a file, picking the parser from the
// extension.
func (l *Loader) loadFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser

	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", path)
	}

	return l.k.Load(file.Provider(path), parser)
}

// loadDefaultFiles loads config from the first standard location that
// exists. Later candidates are not tried, even if that file fails to load.
func (l *Loader) loadDefaultFiles() {
	candidates := []string{
		"simplesearch.yaml",
		"simplesearch.yml",
		"simplesearch.json",
		"/etc/simplesearch/config.yaml",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = l.loadFile(path) // Ignore error; stop at the first existing file
			return
		}
	}
}

// loadEnv loads configuration from environment variables. Double
// underscores separate nesting levels so keys containing underscores stay
// addressable: SIMPLESEARCH_ENGINE__INDEX_PATH -> engine.index_path.
func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(EnvPrefix, Delimiter, func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", Delimiter)
	}), nil)
}

// Get returns a configuration value by key.
func (l *Loader) Get(key string) interface{} {
	return l.k.Get(key)
}

// Set sets a configuration value.
func (l *Loader) Set(key string, value interface{}) error {
	return l.k.Set(key, value)
}

// Load is a convenience function to load configuration.
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	loader := NewLoader()
	return loader.Load(configPath, overrides)
}
