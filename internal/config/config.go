// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "15s", "30s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all agent configuration.
type Config struct {
	Ingest     IngestConfig     `yaml:"ingest"`
	Agent      AgentConfig      `yaml:"agent"`
	Collection CollectionConfig `yaml:"collection"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// IngestConfig holds ingest endpoint connection settings.
type IngestConfig struct {
	URL     string   `yaml:"url"`
	Secret  string   `yaml:"secret"`
	Timeout Duration `yaml:"timeout"`
}

// AgentConfig holds the agent's reported identity.
// An empty ID falls back to the host name at startup.
type AgentConfig struct {
	ID string `yaml:"id"`
}

// CollectionConfig holds snapshot collection settings.
type CollectionConfig struct {
	Interval     Duration `yaml:"interval"`
	SleepFloor   Duration `yaml:"sleep_floor"`
	Timeout      Duration `yaml:"timeout"`
	MaxProcesses int      `yaml:"max_processes"`
	MaxEvents    int      `yaml:"max_events"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			URL:     "http://localhost:3000/api/ingest",
			Secret:  "dev-secret",
			Timeout: Duration{15 * time.Second},
		},
		Agent: AgentConfig{
			ID: "",
		},
		Collection: CollectionConfig{
			Interval:     Duration{30 * time.Second},
			SleepFloor:   Duration{5 * time.Second},
			Timeout:      Duration{10 * time.Second},
			MaxProcesses: 15,
			MaxEvents:    20,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — use defaults + env overrides
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// The names match the fleet's existing deployment surface, so a unit file or
// container spec written for the previous agent keeps working unchanged.
func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv("INGEST_URL"); url != "" {
		cfg.Ingest.URL = url
	}
	if secret := os.Getenv("INGEST_SECRET"); secret != "" {
		cfg.Ingest.Secret = secret
	}
	if id := os.Getenv("AGENT_ID"); id != "" {
		cfg.Agent.ID = id
	}
	if interval := os.Getenv("INGEST_INTERVAL"); interval != "" {
		cfg.Collection.Interval = parseIntervalEnv(interval, cfg.Collection.Interval)
	}
	if maxProcs := os.Getenv("MAX_PROCESSES"); maxProcs != "" {
		if n, err := strconv.Atoi(maxProcs); err == nil && n > 0 {
			cfg.Collection.MaxProcesses = n
		}
	}
	if maxEvents := os.Getenv("MAX_EVENTS"); maxEvents != "" {
		if n, err := strconv.Atoi(maxEvents); err == nil && n >= 0 {
			cfg.Collection.MaxEvents = n
		}
	}
	if level := os.Getenv("HB_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// parseIntervalEnv accepts either a bare number of seconds ("30") or a Go
// duration string ("30s", "1m"). Invalid values keep the current setting.
func parseIntervalEnv(raw string, current Duration) Duration {
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
		return Duration{time.Duration(secs * float64(time.Second))}
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return Duration{d}
	}
	return current
}

// ResolveAgentID returns the configured agent identity, falling back to the
// host name when no identity was configured.
func (c *Config) ResolveAgentID() string {
	if c.Agent.ID != "" {
		return c.Agent.ID
	}
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown-agent"
	}
	return hostname
}

// Validate checks that the configuration is usable.
// Non-localhost endpoints must use HTTPS and must not run with the
// development secret.
func (c *Config) Validate() error {
	if c.Ingest.URL == "" {
		return fmt.Errorf("ingest URL is required")
	}
	if c.Ingest.Secret == "" {
		return fmt.Errorf("ingest secret is required")
	}
	if c.Collection.Interval.Duration <= 0 {
		return fmt.Errorf("collection interval must be positive")
	}

	local := strings.Contains(c.Ingest.URL, "localhost") || strings.Contains(c.Ingest.URL, "127.0.0.1")
	if !local {
		if !strings.HasPrefix(c.Ingest.URL, "https://") {
			return fmt.Errorf("ingest URL must use HTTPS (got: %s)", c.Ingest.URL)
		}
		if c.Ingest.Secret == "dev-secret" {
			return fmt.Errorf("default ingest secret is not allowed for non-local endpoints")
		}
	}
	return nil
}
