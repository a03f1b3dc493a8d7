package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// appDirName is the directory under the user's config dir that holds all
// application state.
const appDirName = "big-brain"

// Load reads configuration from environment variables and an optional
// config.yaml in the data directory. Environment variables (prefixed with
// BIGBRAIN_, e.g. BIGBRAIN_LOG_LEVEL) take precedence over file values.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	defaultDataDir, err := defaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default data directory: %w", err)
	}

	// Defaults must be registered for AutomaticEnv to surface the keys
	// during Unmarshal.
	v.SetDefault("storage.data_dir", defaultDataDir)
	v.SetDefault("storage.database_file", "data.db")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("BIGBRAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(v.GetString("storage.data_dir"))

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// DatabasePath returns the full path of the embedded database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.DatabaseFile)
}

// ImagesDir returns the directory where image assets are stored.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.Storage.DataDir, "images")
}

// defaultDataDir resolves the per-user application data directory.
func defaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}
