package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	State   StateConfig   `mapstructure:"state"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// NormalizedBaseURL returns the base URL with exactly one trailing slash,
// matching how endpoint paths are joined.
func (c BackendConfig) NormalizedBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/"
}

type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

// DatabasePath returns the path of the local state database.
func (c StateConfig) DatabasePath() string {
	return filepath.Join(c.Dir, "state.db")
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("KNOWLAB_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	// Override with environment variables
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is not configured (set KNOWLAB_BASE_URL)")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Backend
	v.SetDefault("backend.timeout", "60s")

	// State
	v.SetDefault("state.dir", defaultStateDir())

	// Logging
	v.SetDefault("logging.level", "info")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("backend.base_url", "KNOWLAB_BASE_URL")
	v.BindEnv("backend.timeout", "KNOWLAB_TIMEOUT")
	v.BindEnv("state.dir", "KNOWLAB_STATE_DIR")
	v.BindEnv("logging.level", "KNOWLAB_LOG_LEVEL")
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".knowlab"
	}
	return filepath.Join(home, ".knowlab")
}

func defaultConfigPath() string {
	return filepath.Join(defaultStateDir(), "config.yaml")
}
