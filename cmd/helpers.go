package cmd

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/carfront/internal/cars"
	"github.com/ziadkadry99/carfront/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `carfront init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Backend: %s%s\n", cfg.Backend.BaseURL, cfg.Backend.CarsPath)
	}
	return cfg, nil
}

// newClient creates the backend client shared by serve, mcp and cars.
func newClient(cfg *config.Config) (*cars.Client, error) {
	client, err := cars.NewClient(cars.ClientConfig{
		BaseURL:   cfg.Backend.BaseURL,
		CarsPath:  cfg.Backend.CarsPath,
		Timeout:   cfg.Backend.Timeout,
		UserAgent: "carfront/" + Version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating backend client: %w", err)
	}
	return client, nil
}
