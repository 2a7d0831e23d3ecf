package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, scorer string) {
	t.Helper()
	content := "engine:\n  index_path: index.json\n  scorer: " + scorer + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "ql")

	w, err := NewWatcher(path, NewLoader(), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	reloaded := make(chan *Config, 1)
	w.OnChange(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		_ = w.Watch(ctx)
	}()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "bm25")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "bm25", cfg.Engine.Scorer)
	case <-ctx.Done():
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcher_RequiresPath(t *testing.T) {
	_, err := NewWatcher("", NewLoader())
	assert.Error(t, err)
}

func TestHotReloadable_Changed(t *testing.T) {
	a := HotReloadable{LogLevel: "info", LogFormat: "text"}
	b := HotReloadable{LogLevel: "debug", LogFormat: "text"}
	assert.True(t, a.Changed(b))
	assert.False(t, a.Changed(a))
}

func TestExtractHotReloadable(t *testing.T) {
	cfg := DefaultConfig()
	h := ExtractHotReloadable(cfg)
	assert.Equal(t, cfg.Log.Level, h.LogLevel)
	assert.Equal(t, cfg.Log.Format, h.LogFormat)
}
