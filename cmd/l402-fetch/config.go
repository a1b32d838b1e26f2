package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/selesy/l402-buyer/pkg/api"
)

const envPrefix = "L402_"

var errMissingURL = errors.New("no URL to fetch")

type config struct {
	URL         string    `koanf:"url"`
	Method      string    `koanf:"method"`
	ProofHeader string    `koanf:"proofheader"`
	MaxRetries  int       `koanf:"maxretries"`
	Scheme      string    `koanf:"scheme"`
	Log         logConfig `koanf:"log"`
}

type logConfig struct {
	Level string `koanf:"level"`
}

// loadConfig merges, from lowest to highest priority, the defaults, the
// YAML file at path (if path isn't empty) and L402_ environment
// variables.  L402_LOG_LEVEL sets log.level.
func loadConfig(path string) (*config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"method":      "GET",
		"proofheader": api.HeaderProof,
		"maxretries":  1,
		"scheme":      string(api.SchemeL402),
		"log.level":   "info",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c *config) validate() error {
	if c.URL == "" {
		return errMissingURL
	}

	switch api.Scheme(strings.ToUpper(c.Scheme)) {
	case api.SchemeL402, api.SchemeLSAT:
	default:
		return fmt.Errorf("unknown scheme: %s", c.Scheme)
	}

	return nil
}

func (c *config) level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}
