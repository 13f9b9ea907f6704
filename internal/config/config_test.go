package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.DefaultArgs() != nil {
		t.Fatalf("expected no default args")
	}
	langs, err := cfg.Languages()
	if err != nil || !reflect.DeepEqual(langs, DefaultLanguages) {
		t.Fatalf("expected default languages, got %v (%v)", langs, err)
	}
}

func TestEnsureDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typers", "config.toml")
	created, err := EnsureDefault(path)
	if err != nil || !created {
		t.Fatalf("expected config to be created, got %v (%v)", created, err)
	}
	created, err = EnsureDefault(path)
	if err != nil || created {
		t.Fatalf("expected existing config to be kept, got %v (%v)", created, err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if got := cfg.DefaultArgs(); !reflect.DeepEqual(got, []string{"--wikipedia", "--number", "1"}) {
		t.Fatalf("unexpected default args %q", got)
	}
	langs, err := cfg.Languages()
	if err != nil || !reflect.DeepEqual(langs, []string{"en"}) {
		t.Fatalf("unexpected languages %v (%v)", langs, err)
	}
	d, ok, err := cfg.Timeout()
	if err != nil || !ok || d != DefaultTimeout {
		t.Fatalf("unexpected timeout %v %v (%v)", d, ok, err)
	}
	if cfg.Cache.Enabled == nil || !*cfg.Cache.Enabled {
		t.Fatalf("expected cache enabled by default")
	}
	if cfg.Cache.MaxEntries == nil || *cfg.Cache.MaxEntries != DefaultMaxEntries {
		t.Fatalf("unexpected max entries")
	}
	if cfg.Input.Separator == nil || *cfg.Input.Separator != DefaultSeparator {
		t.Fatalf("unexpected separator")
	}
}

func TestLoadConfigDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[wikipedia\nlanguages = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFilterLanguages(t *testing.T) {
	got := FilterLanguages([]string{"en", "EN", " de ", "xx", "english", "1", "f-r", ""})
	want := []string{"en", "de", "fr"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterLanguages = %v, want %v", got, want)
	}
}

func TestLanguagesAllInvalid(t *testing.T) {
	cfg := FileConfig{Wikipedia: WikipediaConfig{Languages: []string{"xx", "123"}}}
	if _, err := cfg.Languages(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	cfg = FileConfig{Wikipedia: WikipediaConfig{Languages: []string{}}}
	if _, err := cfg.Languages(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for an empty list, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	bad := "soon"
	cfg := FileConfig{Wikipedia: WikipediaConfig{Timeout: &bad}}
	if _, _, err := cfg.Timeout(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	good := "2500ms"
	cfg = FileConfig{Wikipedia: WikipediaConfig{Timeout: &good}}
	d, ok, err := cfg.Timeout()
	if err != nil || !ok || d != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout %v %v (%v)", d, ok, err)
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "typers", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultCachePath(); got != filepath.Join("/tmp/data", "typers", "cache.db") {
		t.Fatalf("unexpected cache path %q", got)
	}
}

func TestDefaultPathsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	if got := XDGDataHome(); got != filepath.Join(home, ".local", "share") {
		t.Fatalf("unexpected data home %q", got)
	}
	if got := DefaultCachePath(); got != filepath.Join(home, ".local", "share", "typers", "cache.db") {
		t.Fatalf("unexpected cache path %q", got)
	}
	if got := DefaultConfigPath(); got != filepath.Join(home, ".config", "typers", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
}
