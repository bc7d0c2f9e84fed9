package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CARFRONT_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CARFRONT_*). A double underscore
// separates nesting levels: CARFRONT_BACKEND__BASE_URL -> backend.base_url.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps CARFRONT_BACKEND__BASE_URL to backend.base_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend.base_url %q: must be an http(s) URL", c.Backend.BaseURL)
	}

	if strings.Trim(c.Backend.CarsPath, "/") == "" {
		return fmt.Errorf("backend.cars_path is required")
	}

	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must be non-negative")
	}

	if c.Pages.DetailPage == "" {
		return fmt.Errorf("pages.detail_page is required")
	}
	if strings.Contains(c.Pages.DetailPage, "/") {
		return fmt.Errorf("pages.detail_page %q must be a file name, not a path", c.Pages.DetailPage)
	}

	if c.Activity.Enabled && c.DataDir == "" {
		return fmt.Errorf("data_dir is required when the activity log is enabled")
	}

	return nil
}

// ActivityDBPath is where the activity log database lives.
func (c *Config) ActivityDBPath() string {
	return filepath.Join(c.DataDir, "activity.db")
}
