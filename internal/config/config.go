package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the plugsmith.json configuration file
type Config struct {
	Name    string    `json:"name"`
	Surface string    `json:"surface"`
	Catalog string    `json:"catalog"`
	Out     string    `json:"out"`
	Request string    `json:"request"`
	Dev     DevConfig `json:"dev"`
}

// DevConfig contains watch mode configuration
type DevConfig struct {
	Watch   []string `json:"watch"`
	Exclude []string `json:"exclude"`
}

// LoadConfig loads the plugsmith.json configuration from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the plugsmith.json configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if config.Surface == "" {
		config.Surface = "./surface.json"
	}
	if config.Out == "" {
		config.Out = "./dist"
	}
	if config.Request == "" {
		config.Request = "./request.json"
	}
	if len(config.Dev.Watch) == 0 {
		config.Dev.Watch = []string{"*.json", "**/*.json", "*.yaml", "**/*.yaml"}
	}
	if len(config.Dev.Exclude) == 0 {
		config.Dev.Exclude = []string{"dist/", ".git/", "node_modules/"}
	}

	return &config, nil
}

// loadConfigFromDir searches for plugsmith.json in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, "plugsmith.json")
		if _, err := os.Stat(configPath); err == nil {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("no plugsmith.json found in %s or any parent directory", startDir)
}
