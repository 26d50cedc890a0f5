package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mickeykkim/pybake/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// DefaultKeys are the settings consulted as prompt defaults when baking.
// Anything else stored in the config file is ignored by the bake flow.
var DefaultKeys = []string{
	"full_name",
	"email",
	"gitlab_username",
	"pypi_username",
	"line_length",
	"use_mypy",
	"use_pylint",
	"open_source_license",
}

// Dir returns the path to the pybake config directory (~/.pybake/).
// The PYBAKE_HOME environment variable overrides the location, which
// keeps tests hermetic.
func Dir() string {
	if override := os.Getenv(branding.EnvPrefix() + "_HOME"); override != "" {
		return override
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.pybake/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Defaults returns the stored values for DefaultKeys that are set.
// These seed the prompt defaults so repeated bakes don't re-ask for
// the user's name, email, and account handles.
func Defaults() map[string]string {
	out := make(map[string]string)
	for _, key := range DefaultKeys {
		if v := viper.GetString(key); v != "" {
			out[key] = v
		}
	}
	return out
}
