// Package config holds xproblog's YAML-backed configuration: KB
// location, engine invocation, and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"xproblog/internal/logging"
)

// Config holds all xproblog configuration.
type Config struct {
	// KBDir is the directory containing KB source files to rewrite.
	KBDir string `yaml:"kb_dir"`

	// Engine configures the external inference engine invocation (§6).
	Engine EngineConfig `yaml:"engine"`

	// Logging configures the category logger (internal/logging).
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig names the external inference engine binary, its extra
// arguments, and the timeout applied to one invocation.
type EngineConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Timeout string   `yaml:"timeout"`
}

// LoggingConfig configures internal/logging.Configure.
type LoggingConfig struct {
	Debug      bool     `yaml:"debug"`
	Level      string   `yaml:"level"`
	JSONFormat bool     `yaml:"json_format"`
	Categories []string `yaml:"categories"`
}

// DefaultConfig returns xproblog's default configuration.
func DefaultConfig() *Config {
	return &Config{
		KBDir: "kb",
		Engine: EngineConfig{
			Command: "problog",
			Args:    nil,
			Timeout: "120s",
		},
		Logging: LoggingConfig{
			Debug:      false,
			Level:      "info",
			JSONFormat: false,
			Categories: []string{"boot", "rewrite", "trace", "tree", "engine", "cli"},
		},
	}
}

// Load reads a YAML config file, falling back to defaults when path does
// not exist, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("loading config from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("config loaded: kb_dir=%s engine=%s", cfg.KBDir, cfg.Engine.Command)
	return cfg, nil
}

// Save writes the configuration to path as YAML, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies the three env overrides SPEC_FULL.md names.
func (c *Config) applyEnvOverrides() {
	if cmd := os.Getenv("XPROBLOG_ENGINE_CMD"); cmd != "" {
		c.Engine.Command = cmd
	}
	if dir := os.Getenv("XPROBLOG_KB_DIR"); dir != "" {
		c.KBDir = dir
	}
	if timeout := os.Getenv("XPROBLOG_TIMEOUT"); timeout != "" {
		if _, err := time.ParseDuration(timeout); err == nil {
			c.Engine.Timeout = timeout
		} else if secs, err := strconv.Atoi(timeout); err == nil {
			c.Engine.Timeout = fmt.Sprintf("%ds", secs)
		}
	}
}

// GetEngineTimeout returns the engine invocation timeout as a duration,
// falling back to 120s on an unparsable value.
func (c *Config) GetEngineTimeout() time.Duration {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// CategorySet returns Logging.Categories as a lookup set, the shape
// internal/logging.Configure expects.
func (c *Config) CategorySet() map[string]bool {
	set := make(map[string]bool, len(c.Logging.Categories))
	for _, cat := range c.Logging.Categories {
		set[cat] = true
	}
	return set
}
