package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the persisted application configuration.
type Config struct {
	Model   string        `mapstructure:"model"`
	APIBase string        `mapstructure:"api_base"`
	Timeout time.Duration `mapstructure:"timeout"`
	Lang    string        `mapstructure:"lang"`
	EnvFile string        `mapstructure:"env_file"`
}

const (
	DefaultModel      = "gemini-2.0-flash"
	DefaultAPIBase    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultTimeout    = 60 * time.Second
	DefaultLang       = "en"
	DefaultEnvFile    = ".env"
	DefaultConfigName = "config"
	DefaultConfigDir  = "aicommit"
	EnvPrefix         = "AICOMMIT"
)

// Keys accepted by `aicommit config set`.
var settableKeys = []string{"model", "api_base", "timeout", "lang", "env_file"}

var suggestedModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-2.5-flash",
	"gemini-2.5-pro",
}

// ErrNotPersisted marks failures to locate or create the configuration file.
// Defaults and AICOMMIT_ environment variables are still loaded when it is returned.
var ErrNotPersisted = errors.New("configuration file unavailable")

// InitConfig loads the configuration file, creating it with defaults when it
// does not exist yet. An empty cfgFile selects the XDG config location.
func InitConfig(cfgFile string) error {
	viper.SetConfigType("yaml")

	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("api_base", DefaultAPIBase)
	viper.SetDefault("timeout", DefaultTimeout.String())
	viper.SetDefault("lang", DefaultLang)
	viper.SetDefault("env_file", DefaultEnvFile)

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	configPath := cfgFile
	if configPath == "" {
		path, err := defaultConfigPath()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotPersisted, err)
		}
		configPath = path
	}
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			return fmt.Errorf("failed to read configuration file: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return fmt.Errorf("%w: failed to create configuration directory: %w", ErrNotPersisted, err)
		}
		if err := viper.WriteConfigAs(configPath); err != nil {
			return fmt.Errorf("%w: failed to write configuration file: %w", ErrNotPersisted, err)
		}
	}

	if err := os.Chmod(configPath, 0o600); err != nil {
		return fmt.Errorf("%w: failed to set configuration file permissions: %w", ErrNotPersisted, err)
	}
	return nil
}

func defaultConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to find home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, DefaultConfigDir, DefaultConfigName+".yaml"), nil
}

// GetConfig returns the current configuration.
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Lang == "" {
		cfg.Lang = DefaultLang
	}
	if cfg.EnvFile == "" {
		cfg.EnvFile = DefaultEnvFile
	}
	return cfg, nil
}

// SetConfigValue sets a configuration value in memory.
func SetConfigValue(key string, value any) {
	viper.Set(key, value)
}

// SaveConfig writes the current configuration back to its file.
func SaveConfig() error {
	return viper.WriteConfig()
}

// IsSettableKey reports whether key can be changed with `config set`.
func IsSettableKey(key string) bool {
	for _, k := range settableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SettableKeys returns the keys accepted by `config set`.
func SettableKeys() []string {
	return settableKeys
}

// IsValidModel reports whether model is usable; any non-empty name is accepted.
func IsValidModel(model string) bool {
	return model != ""
}

// GetSuggestedModels returns well-known Gemini model names.
func GetSuggestedModels() []string {
	return suggestedModels
}
