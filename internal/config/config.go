// Package config loads staticroute settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the build-time commands.
type Config struct {
	OutputDir        string     `env:"STATICROUTE_OUTPUT_DIR" envDefault:"dist"`
	EntryDocument    string     `env:"STATICROUTE_ENTRY_DOCUMENT" envDefault:"index.html"`
	RoutesFile       string     `env:"STATICROUTE_ROUTES_FILE" envDefault:"routes.cue"`
	Ledger           string     `env:"STATICROUTE_LEDGER" envDefault:".staticroute.db"`
	FallbackDocument string     `env:"STATICROUTE_FALLBACK_DOCUMENT" envDefault:"404.html"`
	LogLevel         slog.Level `env:"STATICROUTE_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the emitter cannot act on.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("STATICROUTE_OUTPUT_DIR must not be empty")
	}
	if err := plainName("STATICROUTE_ENTRY_DOCUMENT", c.EntryDocument); err != nil {
		return err
	}
	if err := plainName("STATICROUTE_FALLBACK_DOCUMENT", c.FallbackDocument); err != nil {
		return err
	}
	if c.EntryDocument == c.FallbackDocument {
		return fmt.Errorf("entry and fallback documents must differ, both are %q", c.EntryDocument)
	}
	if c.RoutesFile == "" {
		return fmt.Errorf("STATICROUTE_ROUTES_FILE must not be empty")
	}
	if c.Ledger == "" {
		return fmt.Errorf("STATICROUTE_LEDGER must not be empty")
	}
	return nil
}

// EntryPath is the compiled entry document inside the output tree.
func (c Config) EntryPath() string {
	return filepath.Join(c.OutputDir, c.EntryDocument)
}

// plainName requires a bare file name, not a path.
func plainName(key, name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("%s must be a file name, got %q", key, name)
	}
	return nil
}
