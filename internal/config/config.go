// Package config loads yq settings from a TOML file and the environment.
// All fields have defaults so yq runs without any configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings that can be changed without command line flags.
//
// Example file:
//
//	jq = "/usr/local/bin/jq"
//	timeout = "30s"
//	indent = 2
//	color = "auto"
//	explicit_start = true
type Config struct {
	JQ            string   `toml:"jq"`             // YQ_JQ, default "jq"
	Timeout       Duration `toml:"timeout"`        // YQ_TIMEOUT, default no timeout
	Indent        int      `toml:"indent"`         // default 2
	Color         string   `toml:"color"`          // auto, always or never
	ExplicitStart bool     `toml:"explicit_start"` // start YAML output with "---"
}

const (
	envKeyConfig  = "YQ_CONFIG"
	envKeyJQ      = "YQ_JQ"
	envKeyTimeout = "YQ_TIMEOUT"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		JQ:     "jq",
		Indent: 2,
		Color:  "auto",
	}
}

// Duration is a time.Duration written as a string such as "1m30s" in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultPath returns the path of the configuration file: $YQ_CONFIG if set,
// else yq/config.toml in the user configuration directory.
func DefaultPath() string {
	if p := os.Getenv(envKeyConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "yq", "config.toml")
}

// Load reads the configuration file at path, if it exists, then applies
// environment overrides.  An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envKeyJQ); v != "" {
		c.JQ = v
	}
	if v := os.Getenv(envKeyTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envKeyTimeout, err)
		}
		c.Timeout = Duration(d)
	}
	return nil
}

// Validate checks that the values are usable.
func (c Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q (use auto, always or never)", c.Color)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", time.Duration(c.Timeout))
	}
	if c.Indent < 0 {
		return fmt.Errorf("invalid indent %d", c.Indent)
	}
	if c.JQ == "" {
		return errors.New("jq program cannot be empty")
	}
	return nil
}

// Marshal returns the configuration as TOML.
func Marshal(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Save writes the configuration to path as TOML.
func Save(path string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
