// Package config loads weave settings from defaults, a YAML file and the
// environment, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys are separated by
// a double underscore: WEAVE_ENGINE__FIX_CAP sets engine.fix_cap.
const EnvPrefix = "WEAVE_"

type Config struct {
	Log    LogConfig    `koanf:"log"`
	Engine EngineConfig `koanf:"engine"`
	Redis  RedisConfig  `koanf:"redis"`
	Store  StoreConfig  `koanf:"store"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type EngineConfig struct {
	FixCap        int  `koanf:"fix_cap"`
	ConcurrentPar bool `koanf:"concurrent_par"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"` // empty keeps sessions in memory
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Prefix   string        `koanf:"prefix"`
	TTL      time.Duration `koanf:"ttl"`
}

type StoreConfig struct {
	Dir           string   `koanf:"dir"`            // file store directory, used when redis.addr is empty
	EncryptionKey string   `koanf:"encryption_key"` // base64, 32 bytes; empty stores positions in the clear
	FallbackKeys  []string `koanf:"fallback_keys"`
}

func defaults(k *koanf.Koanf) {
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("engine.fix_cap", 64)
	k.Set("engine.concurrent_par", false)
	k.Set("redis.addr", "")
	k.Set("redis.db", 0)
	k.Set("redis.prefix", "weave:session:")
	k.Set("redis.ttl", "0s")
	k.Set("store.dir", "")
}

// Load reads the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	defaults(k)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Engine.FixCap <= 0 {
		return nil, fmt.Errorf("engine.fix_cap must be positive, got %d", cfg.Engine.FixCap)
	}
	return &cfg, nil
}
