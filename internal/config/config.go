// Package config loads the runtime settings of the concierge binary.
//
// Values are layered with koanf: defaults, then an optional YAML file, then CONCIERGE_*
// environment variables, then command line overrides.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is read when no file is given explicitly. A missing default file is not an error.
const DefaultPath = "concierge.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONCIERGE_"

// Config is the complete runtime configuration, one section per concern.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	LLM     LLMConfig     `koanf:"llm"`
	Lookup  LookupConfig  `koanf:"lookup"`
	Store   StoreConfig   `koanf:"store"`
	Log     LogConfig     `koanf:"log"`
	Engine  EngineConfig  `koanf:"engine"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// MCP mounts the Model Context Protocol endpoint next to the JSON API.
	MCP bool `koanf:"mcp"`
}

// LLMConfig selects the language model provider. Timeout bounds every single call.
type LLMConfig struct {
	Provider    string        `koanf:"provider"`
	Model       string        `koanf:"model"`
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Temperature float64       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`
}

// LookupConfig selects where cities and events come from.
// Source "fixtures" serves embedded or file-based YAML data; "live" calls Open-Meteo and Ticketmaster.
type LookupConfig struct {
	Source          string        `koanf:"source"`
	FixturePath     string        `koanf:"fixture_path"`
	TicketmasterKey string        `koanf:"ticketmaster_key"`
	RatePerSecond   float64       `koanf:"rate_per_second"`
	Timeout         time.Duration `koanf:"timeout"`
}

// StoreConfig selects the session backend: "memory", "redis" or "file".
type StoreConfig struct {
	Backend       string        `koanf:"backend"`
	TTL           time.Duration `koanf:"ttl"`
	Capacity      int           `koanf:"capacity"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	FilePath      string        `koanf:"file_path"`
	EncryptionKey string        `koanf:"encryption_key"`
	RedactPII     bool          `koanf:"redact_pii"`
}

// LogConfig sets the level and the handler format ("text" or "json").
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// EngineConfig bounds a single turn.
type EngineConfig struct {
	MaxSteps      int `koanf:"max_steps"`
	HistoryWindow int `koanf:"history_window"`
	MaxEvents     int `koanf:"max_events"`
}

// MetricsConfig toggles the Prometheus registry and /metrics.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns a complete configuration that needs no file and no network credentials.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "llama3.2",
			Temperature: 0.2,
			Timeout:     20 * time.Second,
		},
		Lookup: LookupConfig{
			Source:        "fixtures",
			RatePerSecond: 5,
			Timeout:       10 * time.Second,
		},
		Store: StoreConfig{
			Backend:   "memory",
			TTL:       30 * time.Minute,
			Capacity:  10000,
			RedisAddr: "localhost:6379",
			FilePath:  ".concierge/sessions",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Engine: EngineConfig{
			MaxSteps:      10,
			HistoryWindow: 6,
			MaxEvents:     5,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load builds the configuration from Default, then the YAML file, then CONCIERGE_*
// variables, then overrides. Override keys use the file layout, e.g. "log.level".
// An empty path means DefaultPath, which may be absent.
func Load(path string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil || explicit {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return Config{}, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps CONCIERGE_STORE_REDIS_ADDR to store.redis_addr. Sections are single words.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate rejects unknown backends and impossible limits.
func (c Config) Validate() error {
	var errs []error
	switch c.LLM.Provider {
	case "openai", "anthropic", "ollama":
	default:
		errs = append(errs, fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider))
	}
	switch c.Lookup.Source {
	case "fixtures":
	case "live":
		if c.Lookup.TicketmasterKey == "" {
			errs = append(errs, errors.New("lookup.ticketmaster_key is required for the live source"))
		}
	default:
		errs = append(errs, fmt.Errorf("lookup.source: unknown source %q", c.Lookup.Source))
	}
	switch c.Store.Backend {
	case "memory", "redis", "file":
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	if c.Store.EncryptionKey != "" {
		if _, err := c.Store.EncryptionKeyBytes(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Engine.MaxSteps <= 0 {
		errs = append(errs, errors.New("engine.max_steps must be positive"))
	}
	if c.LLM.Timeout <= 0 || c.Lookup.Timeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	return errors.Join(errs...)
}

// EncryptionKeyBytes returns the AES-256 key, given either as 32 raw bytes or base64 encoded.
func (s StoreConfig) EncryptionKeyBytes() ([]byte, error) {
	if len(s.EncryptionKey) == 32 {
		return []byte(s.EncryptionKey), nil
	}
	raw, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil || len(raw) != 32 {
		return nil, errors.New("store.encryption_key must be 32 bytes, raw or base64 encoded")
	}
	return raw, nil
}
