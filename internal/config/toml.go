// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// ErrInvalid marks a configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Application ApplicationConfig `toml:"application"`
	Wikipedia   WikipediaConfig   `toml:"wikipedia"`
	Cache       CacheConfig       `toml:"cache"`
	Input       InputConfig       `toml:"input"`
}

// ApplicationConfig maps application-level settings.
type ApplicationConfig struct {
	DefaultArgs *string `toml:"default-args"`
}

// WikipediaConfig maps settings of the remote article source.
type WikipediaConfig struct {
	Languages []string `toml:"languages"`
	Timeout   *string  `toml:"timeout"`
}

// CacheConfig maps settings of the article cache.
type CacheConfig struct {
	Enabled    *bool `toml:"enabled"`
	MaxEntries *int  `toml:"max-entries"`
}

// InputConfig maps settings of the piped-text source.
type InputConfig struct {
	Separator *string `toml:"separator"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// EnsureDefault writes the default config to path unless a file already exists.
// It reports whether a file was created.
func EnsureDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultTemplate()), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}

// DefaultArgs returns the configured default arguments split on whitespace.
func (c FileConfig) DefaultArgs() []string {
	if c.Application.DefaultArgs == nil {
		return nil
	}
	return strings.Fields(*c.Application.DefaultArgs)
}

// Languages returns the valid ISO 639-1 codes from the wikipedia section,
// or DefaultLanguages when the section lists none.
func (c FileConfig) Languages() ([]string, error) {
	if c.Wikipedia.Languages == nil {
		return append([]string(nil), DefaultLanguages...), nil
	}
	langs := FilterLanguages(c.Wikipedia.Languages)
	if len(langs) == 0 {
		return nil, fmt.Errorf("%w: no languages parsed successfully from %q; check the [wikipedia] section", ErrInvalid, c.Wikipedia.Languages)
	}
	return langs, nil
}

// Timeout returns the configured fetch timeout, or ok=false when unset.
func (c FileConfig) Timeout() (d time.Duration, ok bool, err error) {
	if c.Wikipedia.Timeout == nil {
		return 0, false, nil
	}
	d, err = time.ParseDuration(*c.Wikipedia.Timeout)
	if err != nil {
		return 0, false, fmt.Errorf("%w: wikipedia timeout: %v", ErrInvalid, err)
	}
	if d <= 0 {
		return 0, false, fmt.Errorf("%w: wikipedia timeout must be > 0", ErrInvalid)
	}
	return d, true, nil
}

// FilterLanguages normalizes codes, keeping only letters, and drops anything
// that is not a known two-letter ISO 639-1 code. Order is kept, duplicates removed.
func FilterLanguages(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, code)
		if !isISO6391(code) {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func isISO6391(code string) bool {
	if len(code) != 2 || code[0] < 'a' || code[0] > 'z' || code[1] < 'a' || code[1] > 'z' {
		return false
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return false
	}
	return base.String() == code
}
