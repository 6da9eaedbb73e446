package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvToken     = "GITHUB_TOKEN"
	EnvAPIURL    = "REPO_GRAB_API_URL"
	EnvOutputDir = "REPO_GRAB_OUTPUT_DIR"
)

// Config represents the application configuration
type Config struct {
	ConcurrentDownloadLimit int    `json:"concurrent_download_limit"`
	ProgressBarStyle        string `json:"progress_bar_style"`
	GithubTokenPath         string `json:"github_token_path"`
	APIBaseURL              string `json:"api_base_url"`
	WebBaseURL              string `json:"web_base_url"`
	OutputDir               string `json:"output_dir"`
	MaxRetries              int    `json:"max_retries"`
	LogLevel                string `json:"log_level"`
	LogFormat               string `json:"log_format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "~"
	}
	return Config{
		ConcurrentDownloadLimit: 5,
		ProgressBarStyle:        "█",
		GithubTokenPath:         filepath.Join(homeDir, ".github", "token"),
		WebBaseURL:              "https://github.com",
		OutputDir:               ".",
		MaxRetries:              3,
		LogLevel:                "info",
		LogFormat:               "console",
	}
}

// LoadConfig loads the configuration from the default config file,
// creating it with defaults on first use.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(getConfigPath())
}

// LoadConfigFrom reads a config file, fills unset fields from the defaults
// and applies environment overrides.
func LoadConfigFrom(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		config, err := createDefaultConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		return applyEnv(config), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %v", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %v", err)
	}

	return applyEnv(config), nil
}

func applyEnv(config Config) Config {
	if v := os.Getenv(EnvAPIURL); v != "" {
		config.APIBaseURL = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		config.OutputDir = v
	}
	return config
}

// SaveConfig saves the configuration to the given path
func SaveConfig(configPath string, config Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %v", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}

// ResolveToken picks the GitHub token: explicit flag value, then the
// GITHUB_TOKEN environment variable, then the token file. A missing token
// file is not an error; anonymous access is allowed.
func (c Config) ResolveToken(flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if v := os.Getenv(EnvToken); v != "" {
		return v, nil
	}
	if c.GithubTokenPath == "" {
		return "", nil
	}

	data, err := os.ReadFile(c.GithubTokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error reading token file %s: %w", c.GithubTokenPath, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "repo-grab", "config.json")
}

// createDefaultConfig creates a new config file with default values
func createDefaultConfig(configPath string) (Config, error) {
	config := DefaultConfig()
	if err := SaveConfig(configPath, config); err != nil {
		return Config{}, fmt.Errorf("error creating default config: %v", err)
	}
	return config, nil
}
