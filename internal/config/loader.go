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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CLIENTSCORE_CONFIG is set
//  3. env (prefix CLIENTSCORE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("CLIENTSCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CLIENTSCORE_ADDR, CLIENTSCORE_STORE_HOST, ...
	// Map env keys like CLIENTSCORE_STORE_HOST -> store_host (flat keys);
	// underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("CLIENTSCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "clientscore_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreBackend != "redis" && c.StoreBackend != "memory":
		return fmt.Errorf("%w: store_backend %q is not redis or memory", ErrInvalidConfig, c.StoreBackend)
	case c.StoreHost == "":
		return fmt.Errorf("%w: store_host must not be empty", ErrInvalidConfig)
	case c.StorePort <= 0 || c.StorePort > 65535:
		return fmt.Errorf("%w: store_port %d out of range", ErrInvalidConfig, c.StorePort)
	case c.StoreRetryAttempts < 1:
		return fmt.Errorf("%w: store_retry_attempts must be at least 1", ErrInvalidConfig)
	case c.ScoreCacheTTLMin < 1:
		return fmt.Errorf("%w: score_cache_ttl_min must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// StoreAddr renders the host:port address of the cache backend.
func (c *Config) StoreAddr() string {
	return fmt.Sprintf("%s:%d", c.StoreHost, c.StorePort)
}
