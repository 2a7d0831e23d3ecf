package config

import "time"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "simplesearch",
			Environment: "development",
			Debug:       false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Engine: EngineConfig{
			IndexPath: "index.json",
			Scorer:    "ql",
			BM25: BM25Config{
				K1: 1.2,
				K2: 100,
				B:  0.75,
			},
			QL: QLConfig{
				Mu: 1500,
			},
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Type:    "memory",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9091,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "otlp",
			Endpoint:   "localhost:4317",
			Timeout:    10 * time.Second,
			Sampler:    "ratio",
			SampleRate: 0.1,
		},
	}
}
