// Package config loads service configuration from a YAML file with
// environment variable overrides for deployment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":8080".
	Listen string `yaml:"listen"`
	// GinMode is "release" or "debug".
	GinMode string `yaml:"gin_mode"`

	DatabasePath  string `yaml:"database_path"`
	UploadsDir    string `yaml:"uploads_dir"`
	PublicBaseURL string `yaml:"public_base_url"`

	// CartTTL is how long an idle cart survives, as a duration string.
	CartTTL string `yaml:"cart_ttl"`

	// LogoMaxWidth caps processed logo uploads, in pixels.
	LogoMaxWidth int `yaml:"logo_max_width"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Listen:       ":8080",
		GinMode:      "release",
		DatabasePath: "data/feral.db",
		UploadsDir:   "uploads",
		CartTTL:      "45m",
		LogoMaxWidth: 800,
	}
}

// Load reads the config file at path, layering it over the defaults and then
// applying environment overrides. A missing file is not an error; the
// defaults plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}
	if v := os.Getenv("FERAL_DB_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("FERAL_UPLOADS_DIR"); v != "" {
		c.UploadsDir = v
	}
	if v := os.Getenv("FERAL_BASE_URL"); v != "" {
		c.PublicBaseURL = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.GinMode = v
	}
}

// Validate checks the fields that would otherwise fail deep inside startup.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path required")
	}
	if _, err := time.ParseDuration(c.CartTTL); err != nil {
		return fmt.Errorf("invalid cart_ttl %q: %w", c.CartTTL, err)
	}
	if c.LogoMaxWidth <= 0 {
		return fmt.Errorf("logo_max_width must be positive")
	}
	return nil
}

// CartTTLDuration returns CartTTL as a time.Duration. Validate has already
// checked the format.
func (c Config) CartTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CartTTL)
	return d
}
