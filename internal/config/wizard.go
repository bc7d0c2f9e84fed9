package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to carfront! Let's point it at your cars backend.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend base URL.
	basePrompt := promptui.Prompt{
		Label:    "Backend base URL",
		Default:  cfg.Backend.BaseURL,
		Validate: validateBaseURL,
	}
	baseURL, err := basePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend base url: %w", err)
	}
	cfg.Backend.BaseURL = baseURL

	// 2. Collection path.
	pathPrompt := promptui.Prompt{
		Label:   "Cars collection path",
		Default: cfg.Backend.CarsPath,
	}
	carsPath, err := pathPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("cars path: %w", err)
	}
	cfg.Backend.CarsPath = carsPath

	// 3. Listen port.
	portPrompt := promptui.Prompt{
		Label:    "Port to serve pages on",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Activity log.
	activityPrompt := promptui.Select{
		Label: "Keep a local log of created and deleted cars?",
		Items: []string{"yes", "no"},
	}
	idx, _, err := activityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("activity log: %w", err)
	}
	cfg.Activity.Enabled = idx == 0

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return errors.New("must be a port number between 1 and 65535")
	}
	return nil
}
