package config

import "time"

// Config is the top-level carfront configuration, corresponding to .carfront.yml.
type Config struct {
	Port     int            `yaml:"port" koanf:"port"`
	DataDir  string         `yaml:"data_dir" koanf:"data_dir"`
	Backend  BackendConfig  `yaml:"backend" koanf:"backend"`
	Pages    PagesConfig    `yaml:"pages" koanf:"pages"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Activity ActivityConfig `yaml:"activity" koanf:"activity"`
}

// BackendConfig locates the cars REST service.
type BackendConfig struct {
	BaseURL  string        `yaml:"base_url" koanf:"base_url"`
	CarsPath string        `yaml:"cars_path" koanf:"cars_path"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
}

// PagesConfig holds page names and image placeholders.
type PagesConfig struct {
	DetailPage             string `yaml:"detail_page" koanf:"detail_page"`
	ListImagePlaceholder   string `yaml:"list_image_placeholder" koanf:"list_image_placeholder"`
	DetailImagePlaceholder string `yaml:"detail_image_placeholder" koanf:"detail_image_placeholder"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ActivityConfig controls the local activity log.
type ActivityConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}
