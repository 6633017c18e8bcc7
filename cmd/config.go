package cmd

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/samzong/aicommit/internal/config"
	"github.com/samzong/aicommit/internal/formatter"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage aicommit configuration",
		Long:  `Show or change the model, API base URL, timeout, language and credential file used by aicommit.`,
	}

	configGetCmd = &cobra.Command{
		Use:   "get",
		Short: "Show the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(newLogger())
			if err != nil {
				return err
			}
			printConfig(cfg)
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a configuration value. Supported keys: " + strings.Join(config.SettableKeys(), ", ") + ".\n" +
			"The API key is not stored here; use --with-api or the GEMINI_API_KEY variable.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.SettableKeys(),
		RunE: func(_ *cobra.Command, args []string) error {
			if configErr != nil {
				return fmt.Errorf("configuration error: %w", configErr)
			}
			return setConfigValue(args[0], args[1])
		},
	}
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func printConfig(cfg *config.Config) {
	out := outWriter()
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "model: %s\n", cfg.Model)
	fmt.Fprintf(out, "api_base: %s\n", cfg.APIBase)
	fmt.Fprintf(out, "timeout: %s\n", cfg.Timeout)
	fmt.Fprintf(out, "lang: %s\n", cfg.Lang)
	fmt.Fprintf(out, "env_file: %s\n", cfg.EnvFile)
}

func setConfigValue(key, raw string) error {
	if !config.IsSettableKey(key) {
		return fmt.Errorf("unknown configuration key %q (supported: %s)", key, strings.Join(config.SettableKeys(), ", "))
	}

	value, err := normalizeConfigValue(key, strings.TrimSpace(raw))
	if err != nil {
		return err
	}

	config.SetConfigValue(key, value)
	if err := config.SaveConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := outWriter()
	fmt.Fprintf(out, "Set %s to %s\n", key, value)
	if key == "model" {
		fmt.Fprintln(out, "Suggested models:")
		for _, m := range config.GetSuggestedModels() {
			fmt.Fprintf(out, "- %s\n", m)
		}
	}
	return nil
}

func normalizeConfigValue(key, value string) (string, error) {
	switch key {
	case "model":
		if !config.IsValidModel(value) {
			return "", fmt.Errorf("invalid model: %q", value)
		}
	case "api_base":
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return "", fmt.Errorf("invalid API base URL: %q", value)
		}
		value = strings.TrimRight(value, "/")
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return "", fmt.Errorf("invalid timeout %q: use a positive duration such as 30s", value)
		}
		value = d.String()
	case "lang":
		if !formatter.IsSupported(value) {
			return "", fmt.Errorf("unsupported language %q (supported: %v)", value, formatter.Languages())
		}
		value = formatter.ParseLanguage(value).String()
	case "env_file":
		if value == "" {
			return "", fmt.Errorf("env_file must not be empty")
		}
	}
	return value, nil
}
