// Package config loads journey's settings: built-in defaults, then an
// optional YAML file, then JOURNEY_* environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/journey/internal/logging"
	"github.com/aretw0/journey/pkg/persistence/middleware"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "JOURNEY_"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	Log         LogConfig         `mapstructure:"log" envPrefix:"LOG_"`
	Store       StoreConfig       `mapstructure:"store" envPrefix:"STORE_"`
	HTTP        HTTPConfig        `mapstructure:"http" envPrefix:"HTTP_"`
	Exploration ExplorationConfig `mapstructure:"exploration" envPrefix:"EXPLORATION_"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL"`
	Format string `mapstructure:"format" env:"FORMAT"`
}

type StoreConfig struct {
	Kind  string      `mapstructure:"kind" env:"KIND"`
	Path  string      `mapstructure:"path" env:"PATH"`
	Redis RedisConfig `mapstructure:"redis" envPrefix:"REDIS_"`
	// EncryptionKey is a base64 AES-256 key; sessions are sealed at rest
	// when set.
	EncryptionKey string `mapstructure:"encryption_key" env:"ENCRYPTION_KEY"`
	// FallbackKeys are older base64 keys still accepted for reading.
	FallbackKeys []string `mapstructure:"fallback_keys" env:"FALLBACK_KEYS"`
}

// Encryption decodes the configured keys. ok is false when no key is set.
func (s StoreConfig) Encryption() (cfg middleware.EncryptionConfig, ok bool, err error) {
	if s.EncryptionKey == "" {
		if len(s.FallbackKeys) > 0 {
			return cfg, false, fmt.Errorf("fallback keys need an encryption key")
		}
		return cfg, false, nil
	}
	if cfg.ActiveKey, err = base64.StdEncoding.DecodeString(s.EncryptionKey); err != nil {
		return cfg, false, fmt.Errorf("encryption key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return cfg, false, fmt.Errorf("fallback key %d: %w", i, err)
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return cfg, true, cfg.Validate()
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" env:"ADDR"`
	Password string        `mapstructure:"password" env:"PASSWORD"`
	DB       int           `mapstructure:"db" env:"DB"`
	Prefix   string        `mapstructure:"prefix" env:"PREFIX"`
	TTL      time.Duration `mapstructure:"ttl" env:"TTL"`
	// LockTTL enables distributed session locks when positive.
	LockTTL time.Duration `mapstructure:"lock_ttl" env:"LOCK_TTL"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" env:"ADDR"`
}

type ExplorationConfig struct {
	// StepLimit caps the commands one block may execute; 0 means no limit.
	StepLimit int `mapstructure:"step_limit" env:"STEP_LIMIT"`
	// MaxScriptBytes caps the size of one script; 0 means no limit.
	MaxScriptBytes int `mapstructure:"max_script_bytes" env:"MAX_SCRIPT_BYTES"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:   LogConfig{Level: "info", Format: string(logging.FormatText)},
		Store: StoreConfig{
			Kind: StoreMemory,
			Path: ".journey/sessions",
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  "journey:session:",
				LockTTL: 30 * time.Second,
			},
		},
		HTTP:        HTTPConfig{Addr: ":8080"},
		Exploration: ExplorationConfig{StepLimit: 100000, MaxScriptBytes: 64 << 10},
	}
}

// Load reads path (skipped when empty) and the process environment over the
// defaults.
func Load(path string) (Config, error) {
	return load(path, nil)
}

// load takes the environment as a map so tests need not touch the process
// environment; nil means os.Environ.
func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// decodeYAML overlays only the keys present in the document.
func decodeYAML(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if _, _, err := c.Store.Encryption(); err != nil {
		return err
	}
	if c.Exploration.StepLimit < 0 {
		return fmt.Errorf("exploration step limit must not be negative")
	}
	if c.Exploration.MaxScriptBytes < 0 {
		return fmt.Errorf("exploration max script bytes must not be negative")
	}
	return nil
}

// Logger builds the logger the settings describe.
func (c Config) Logger() *slog.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return logging.New(level, format)
}
