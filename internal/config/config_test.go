package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err := l.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg := l.Get()
	if cfg.Theme != "default" {
		t.Errorf("Theme = %q, want default", cfg.Theme)
	}
	if cfg.List.Overscan != 3 {
		t.Errorf("Overscan = %d, want 3", cfg.List.Overscan)
	}
}

func TestLoadMergesUserOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "theme: solarized\nlist:\n  overscan: 5\nscroll:\n  smoothDurationMs: 500\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := NewLoader(path)
	if err := l.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg := l.Get()
	if cfg.Theme != "solarized" {
		t.Errorf("Theme = %q, want solarized", cfg.Theme)
	}
	if cfg.List.Overscan != 5 {
		t.Errorf("Overscan = %d, want 5", cfg.List.Overscan)
	}
	if cfg.List.PoolCapacity != 150 {
		t.Errorf("PoolCapacity = %d, want default 150 (unset in user file)", cfg.List.PoolCapacity)
	}
	if cfg.Scroll.SmoothDuration() != 500*time.Millisecond {
		t.Errorf("SmoothDuration() = %v, want 500ms", cfg.Scroll.SmoothDuration())
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("bogusField: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	l := NewLoader(path)
	if err := l.Load(); err == nil {
		t.Fatalf("expected an error for an unknown field")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("theme: one\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	l := NewLoader(path)
	if err := l.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	changed := make(chan Config, 1)
	l.OnChange(func(cfg Config) { changed <- cfg })

	if err := l.Watch(); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	defer l.Close()

	if err := os.WriteFile(path, []byte("theme: two\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case cfg := <-changed:
		if cfg.Theme != "two" {
			t.Errorf("reloaded Theme = %q, want two", cfg.Theme)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for reload callback")
	}
}
