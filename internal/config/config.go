// Package config resolves runtime settings for the formhost CLI. Values come
// from defaults, then an optional YAML file, then FORMHOST_* environment
// variables, with later sources winning.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognised by FromEnv.
const (
	EnvURL           = "FORMHOST_URL"
	EnvAdminEmail    = "FORMHOST_ADMIN_EMAIL"
	EnvAdminPassword = "FORMHOST_ADMIN_PASSWORD"
	EnvTimeout       = "FORMHOST_TIMEOUT"
	EnvLogLevel      = "FORMHOST_LOG_LEVEL"
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	URL           string        `yaml:"url"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
	Timeout       time.Duration `yaml:"timeout"`
	LogLevel      string        `yaml:"log_level"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Timeout:  10 * time.Second,
		LogLevel: "info",
	}
}

// Load resolves the effective configuration. path may be empty, in which case
// only defaults and environment variables apply. A named file that does not
// exist is an error; the environment always overlays last.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if err := c.mergeFile(path); err != nil {
			return c, err
		}
	}
	if err := c.FromEnv(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// FromEnv overlays FORMHOST_* environment variables onto the config. A set but
// unparsable FORMHOST_TIMEOUT is an error rather than a silent fallback.
func (c *Config) FromEnv() error {
	if v := os.Getenv(EnvURL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(EnvAdminEmail); v != "" {
		c.AdminEmail = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		c.AdminPassword = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", EnvTimeout, v, err)
		}
		if d <= 0 {
			return fmt.Errorf("config: invalid %s %q: must be positive", EnvTimeout, v)
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("config: service URL is required (set " + EnvURL + " or url in the config file)")
	}
	return nil
}

// ValidateAdmin additionally checks the credentials the import commands need.
func (c Config) ValidateAdmin() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AdminEmail == "" || c.AdminPassword == "" {
		return errors.New("config: admin credentials are required (set " + EnvAdminEmail + " and " + EnvAdminPassword + ")")
	}
	return nil
}
