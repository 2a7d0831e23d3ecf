package tracing

import (
	"context"
	"testing"
	"time"

	"github.com/simplesearch/simplesearch/config"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Enabled: false}, "test", "dev")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestInit_RejectsBadConfig(t *testing.T) {
	cases := map[string]config.TracingConfig{
		"empty exporter": {Enabled: true, Endpoint: "localhost:4317", Timeout: time.Second},
		"empty endpoint": {Enabled: true, Exporter: "otlp", Timeout: time.Second},
		"zero timeout":   {Enabled: true, Exporter: "otlp", Endpoint: "localhost:4317"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Init(context.Background(), cfg, "test", "dev"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStartSpan_NoopWhenDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Enabled: false}, "test", "dev")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "search")
	defer span.End()
	if ctx == nil {
		t.Fatal("expected a context")
	}
	if span.SpanContext().IsValid() {
		t.Error("noop provider should not produce valid span contexts")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"localhost:4317":          "localhost:4317",
		"http://localhost:4317":   "localhost:4317",
		"https://collector:4317/": "collector:4317",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in); got != want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectSampler(t *testing.T) {
	for _, sampler := range []string{"always_on", "always_off", "ratio", ""} {
		if selectSampler(config.TracingConfig{Sampler: sampler, SampleRate: 0.5}) == nil {
			t.Errorf("nil sampler for %q", sampler)
		}
	}
}
