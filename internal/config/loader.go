package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, the YAML file, and env vars,
// then validates the result.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) at path, if path is non-empty
//  3. env (prefix WAGESCOUT_)
//
// Nested keys map through env as WAGESCOUT_ADVANCED__COMPARISON_OPERATOR
// (double underscore separates levels, since key names contain underscores).
func Load(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: WAGESCOUT_HOURLY_WAGE, WAGESCOUT_WAGE_LEVEL,
	// WAGESCOUT_PATHS__DATA_DIR, ...
	envProvider := env.Provider("WAGESCOUT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "wagescout_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy of the defaults.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath resolves the configuration file path: the flag value when
// set, otherwise WAGESCOUT_CONFIG, otherwise "config.yaml".
func DefaultPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("WAGESCOUT_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}
