package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeConfigFile(t *testing.T, path, version string) {
	t.Helper()
	content := "version: \"" + version + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestWatcherInitialLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partforge.yaml")
	writeConfigFile(t, path, "2")

	w, err := NewWatcher(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	if got := w.Current().Version; got != "2" {
		t.Errorf("version = %q, want 2", got)
	}
	// Defaults survive underneath the overlay.
	if w.Current().WorkCenters.DeburrRate != 3600 {
		t.Errorf("deburr rate = %g", w.Current().WorkCenters.DeburrRate)
	}
}

func TestWatcherRejectsBrokenInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partforge.yaml")
	if err := os.WriteFile(path, []byte("work_centers:\n  deburr_rate: -5\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewWatcher(path, zerolog.Nop()); err == nil {
		t.Fatal("invalid initial config accepted")
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partforge.yaml")
	writeConfigFile(t, path, "2")

	w, err := NewWatcher(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	changed := make(chan *EngineConfig, 1)
	w.OnChange(func(cfg *EngineConfig) {
		select {
		case changed <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	writeConfigFile(t, path, "3")

	select {
	case cfg := <-changed:
		if cfg.Version != "3" {
			t.Errorf("reloaded version = %q, want 3", cfg.Version)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback never fired")
	}

	if got := w.Current().Version; got != "3" {
		t.Errorf("current version = %q, want 3", got)
	}

	cancel()
	<-done
}

func TestWatcherKeepsConfigOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partforge.yaml")
	writeConfigFile(t, path, "2")

	w, err := NewWatcher(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	// Reload directly; the broken file must not replace the good config.
	if err := os.WriteFile(path, []byte("processing:\n  nest_efficiency: 7\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	w.reload()

	if got := w.Current().Version; got != "2" {
		t.Errorf("version = %q, want 2 after failed reload", got)
	}
}
