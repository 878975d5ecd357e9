// Package config loads the bazi runtime configuration.
//
// Precedence, lowest first: built-in defaults, the optional YAML file,
// BAZI_* environment variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/bazi/internal/sanitize"
	"github.com/aretw0/bazi/pkg/persistence/middleware"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// History backends.
const (
	HistoryNone   = "none"
	HistoryMemory = "memory"
	HistoryRedis  = "redis"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BAZI_"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	MCP     MCPConfig     `mapstructure:"mcp" yaml:"mcp"`
	Input   InputConfig   `mapstructure:"input" yaml:"input"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// HistoryConfig selects the reading recorder. Limit caps the memory backend.
// Redact masks birth data before it is stored; EncryptionKey (base64 or hex,
// 32 bytes) seals it instead. FallbackKeys still open records sealed with
// retired keys.
type HistoryConfig struct {
	Backend       string   `mapstructure:"backend" yaml:"backend"`
	Limit         int      `mapstructure:"limit" yaml:"limit"`
	Redact        bool     `mapstructure:"redact" yaml:"redact"`
	EncryptionKey string   `mapstructure:"encryption_key" yaml:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys" yaml:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport" yaml:"transport"`
	Port      int    `mapstructure:"port" yaml:"port"`
}

type InputConfig struct {
	MaxSize int `mapstructure:"max_size" yaml:"max_size"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		History: HistoryConfig{Backend: HistoryNone, Limit: 1000},
		Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "bazi:reading:"},
		MCP:     MCPConfig{Transport: TransportStdio, Port: 8081},
		Input:   InputConfig{MaxSize: sanitize.DefaultMaxInputSize},
	}
}

// Load builds the configuration. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := Decode(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode merges YAML data over cfg. Keys absent from data keep their values.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	num("PORT", &cfg.Server.Port)
	dur("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("HISTORY_BACKEND", &cfg.History.Backend)
	num("HISTORY_LIMIT", &cfg.History.Limit)
	flag("HISTORY_REDACT", &cfg.History.Redact)
	str("HISTORY_ENCRYPTION_KEY", &cfg.History.EncryptionKey)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	num("REDIS_DB", &cfg.Redis.DB)
	str("REDIS_PREFIX", &cfg.Redis.Prefix)
	dur("REDIS_TTL", &cfg.Redis.TTL)
	str("MCP_TRANSPORT", &cfg.MCP.Transport)
	num("MCP_PORT", &cfg.MCP.Port)
	num("MAX_INPUT_SIZE", &cfg.Input.MaxSize)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch strings.ToLower(c.History.Backend) {
	case HistoryNone, HistoryMemory, HistoryRedis:
	default:
		errs = append(errs, fmt.Errorf("history.backend must be none, memory or redis, got %q", c.History.Backend))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history.limit must not be negative"))
	}
	if c.History.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.History.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("history.encryption_key: %w", err))
		}
	}
	for i, k := range c.History.FallbackKeys {
		if _, err := middleware.ParseKey(k); err != nil {
			errs = append(errs, fmt.Errorf("history.fallback_keys[%d]: %w", i, err))
		}
	}
	if strings.EqualFold(c.History.Backend, HistoryRedis) && c.Redis.Addr == "" {
		errs = append(errs, fmt.Errorf("redis.addr is required for the redis backend"))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must not be negative"))
	}
	switch strings.ToLower(c.MCP.Transport) {
	case TransportStdio, TransportSSE:
	default:
		errs = append(errs, fmt.Errorf("mcp.transport must be stdio or sse, got %q", c.MCP.Transport))
	}
	if c.Input.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("input.max_size must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
