package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultServerURL is the backend base path when neither the flag nor the
// FABRIC_API_URL environment variable is set.
const DefaultServerURL = "http://localhost:8000/api"

type Config struct {
	ServerURL   string `json:"server_url,omitempty"`
	DisplayWide bool   `json:"display_wide"`
	Display     struct {
		MaxColWidth int `json:"max_col_width"`
	} `json:"display"`
	SampleLimit int `json:"sample_limit"`
}

func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".fabricctl")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return "", err
		}
	}
	return configDir, nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func GetHistoryPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := &Config{}
		cfg.Display.MaxColWidth = 32
		cfg.SampleLimit = 10
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Defaults for newly introduced fields
	if cfg.Display.MaxColWidth == 0 {
		cfg.Display.MaxColWidth = 32
	}
	if cfg.SampleLimit == 0 {
		cfg.SampleLimit = 10
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveServerURL picks the backend base URL: explicit flag value, then the
// persisted config, then FABRIC_API_URL, then the default. A .env file in
// the working directory is honored for the env lookup.
func ResolveServerURL(flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}

	if cfg, err := LoadConfig(); err == nil && strings.TrimSpace(cfg.ServerURL) != "" {
		return strings.TrimSpace(cfg.ServerURL)
	}

	_ = godotenv.Load()
	if v := strings.TrimSpace(os.Getenv("FABRIC_API_URL")); v != "" {
		return v
	}
	return DefaultServerURL
}
