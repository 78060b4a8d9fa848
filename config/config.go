// Package config loads the file-based runtime configuration used by the
// command line front end. Programs embedding the library directly configure
// everything in code and do not need this package.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level runtime configuration.
type Config struct {
	// Provider selects the model backend: "openai" or "anthropic".
	Provider string `yaml:"provider"`

	// Models maps assistant ids to provider model names. Unlisted
	// assistants fall back to DefaultModel.
	Models map[string]string `yaml:"models"`

	// DefaultModel is used for any assistant without an explicit entry.
	DefaultModel string `yaml:"default_model"`

	Checkpoint CheckpointConfig `yaml:"checkpoint"`
	Logging    LoggingConfig    `yaml:"logging"`

	// MaxEmptyRetries bounds empty-output model retries per turn.
	MaxEmptyRetries int `yaml:"max_empty_retries"`
}

// CheckpointConfig selects the session persistence backend.
type CheckpointConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`
	// Path is the database file for the sqlite driver.
	Path string `yaml:"path"`
}

// LoggingConfig mirrors logging.Config in file form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Provider:        "openai",
		DefaultModel:    "gpt-4o",
		Models:          map[string]string{},
		Checkpoint:      CheckpointConfig{Driver: "memory"},
		Logging:         LoggingConfig{Level: "info", Format: "text"},
		MaxEmptyRetries: 3,
	}
}

// Load reads a YAML configuration file and applies environment overrides.
// An empty path yields the defaults (still subject to overrides).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if cfg.Models == nil {
		cfg.Models = map[string]string{}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers process environment values over the file contents.
func (c *Config) applyEnv() {
	if v := os.Getenv("AGENTGRAPH_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("AGENTGRAPH_MODEL"); v != "" {
		c.DefaultModel = v
	}
	if v := os.Getenv("AGENTGRAPH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AGENTGRAPH_CHECKPOINT_PATH"); v != "" {
		c.Checkpoint.Driver = "sqlite"
		c.Checkpoint.Path = v
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}

	switch c.Checkpoint.Driver {
	case "memory":
	case "sqlite":
		if c.Checkpoint.Path == "" {
			return fmt.Errorf("config: sqlite checkpoint driver requires a path")
		}
	default:
		return fmt.Errorf("config: unknown checkpoint driver %q", c.Checkpoint.Driver)
	}

	if c.MaxEmptyRetries < 0 {
		return fmt.Errorf("config: max_empty_retries must not be negative")
	}
	return nil
}

// ModelFor resolves the model name for an assistant id.
func (c *Config) ModelFor(agent string) string {
	if m, ok := c.Models[agent]; ok && m != "" {
		return m
	}
	return c.DefaultModel
}
