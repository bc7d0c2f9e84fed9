package config

import "time"

const (
	DefaultConfigFile = ".carfront.yml"
	DefaultDetailPage = "car.html"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:    8080,
		DataDir: ".carfront",
		Backend: BackendConfig{
			BaseURL:  "http://localhost:3000",
			CarsPath: "/cars",
			Timeout:  10 * time.Second,
		},
		Pages: PagesConfig{
			DetailPage:             DefaultDetailPage,
			ListImagePlaceholder:   "https://via.placeholder.com/300x200?text=No+Image",
			DetailImagePlaceholder: "https://via.placeholder.com/600x400?text=No+Image",
		},
		Server: ServerConfig{
			AllowAllOrigins: false,
		},
		Activity: ActivityConfig{
			Enabled: true,
		},
	}
}
