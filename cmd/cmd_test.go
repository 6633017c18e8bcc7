package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samzong/aicommit/internal/config"
	"github.com/samzong/aicommit/internal/credstore"
	"github.com/samzong/aicommit/internal/formatter"
	"github.com/samzong/aicommit/internal/workflow"
)

// captureOutput redirects command output and restores flag globals afterwards.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)

	savedLang, savedEnvFile, savedCfg := lang, envFile, cfgFile
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		lang, envFile, cfgFile = savedLang, savedEnvFile, savedCfg
		viper.Reset()
	})
	return &out, &errOut
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "dev", Version)
	assert.Equal(t, "unknown", BuildTime)

	assert.NotNil(t, versionCmd)
	assert.Equal(t, "version", versionCmd.Use)
	assert.Equal(t, "Show aicommit version information", versionCmd.Short)
}

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Same(t, rootCmd, RootCmd())
	assert.Equal(t, "aicommit", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "Gemini")
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)

	for _, name := range []string{"no-push", "dry-run", "lang", "with-api", "env-file"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), name)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	verboseFlag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "V", verboseFlag.Shorthand)
}

func TestSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"version", "config", "completion"} {
		assert.True(t, names[want], want)
	}
}

func TestHandleErrors(t *testing.T) {
	t.Run("returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, handleErrors(nil, formatter.LanguageEN))
	})

	t.Run("localizes not a repository", func(t *testing.T) {
		en := handleErrors(workflow.ErrNotARepository, formatter.LanguageEN)
		ru := handleErrors(workflow.ErrNotARepository, formatter.LanguageRU)

		assert.ErrorIs(t, en, workflow.ErrNotARepository)
		assert.ErrorIs(t, ru, workflow.ErrNotARepository)
		assert.Equal(t, "This is not a git repository.", en.Error())
		assert.NotEqual(t, en.Error(), ru.Error())
	})

	t.Run("propagates generic error", func(t *testing.T) {
		expectedErr := errors.New("boom")
		err := handleErrors(expectedErr, formatter.LanguageEN)
		assert.Same(t, expectedErr, err)
	})
}

func TestResolveLanguage(t *testing.T) {
	saved := lang
	t.Cleanup(func() { lang = saved })

	lang = ""
	assert.Equal(t, formatter.LanguageEN, resolveLanguage(nil, zerolog.Nop()))
	assert.Equal(t, formatter.LanguageRU, resolveLanguage(&config.Config{Lang: "ru"}, zerolog.Nop()))

	lang = "EN"
	assert.Equal(t, formatter.LanguageEN, resolveLanguage(&config.Config{Lang: "ru"}, zerolog.Nop()))
}

func TestResolveLanguage_UnknownFallsBackToEnglish(t *testing.T) {
	saved := lang
	t.Cleanup(func() { lang = saved })

	tests := []struct {
		name    string
		flag    string
		cfgLang string
	}{
		{name: "flag", flag: "de", cfgLang: "ru"},
		{name: "config", flag: "", cfgLang: "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			lang = tt.flag

			got := resolveLanguage(&config.Config{Lang: tt.cfgLang}, zerolog.New(&logs))
			assert.Equal(t, formatter.LanguageEN, got)
			assert.Contains(t, logs.String(), "unsupported language")
		})
	}
}

func TestResolveEnvFile(t *testing.T) {
	saved := envFile
	t.Cleanup(func() { envFile = saved })

	envFile = ""
	assert.Equal(t, credstore.DefaultFileName, resolveEnvFile(nil))
	assert.Equal(t, "/etc/aicommit.env", resolveEnvFile(&config.Config{EnvFile: "/etc/aicommit.env"}))

	envFile = "custom.env"
	assert.Equal(t, "custom.env", resolveEnvFile(&config.Config{EnvFile: "/etc/aicommit.env"}))
}

func TestLoadConfig(t *testing.T) {
	saved := configErr
	t.Cleanup(func() {
		configErr = saved
		viper.Reset()
	})

	t.Run("unwritable config file falls back to defaults", func(t *testing.T) {
		viper.Reset()
		var logs bytes.Buffer
		configErr = fmt.Errorf("%w: read-only file system", config.ErrNotPersisted)

		cfg, err := loadConfig(zerolog.New(&logs))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultModel, cfg.Model)
		assert.Contains(t, logs.String(), "using default configuration")
	})

	t.Run("unreadable config file is fatal", func(t *testing.T) {
		configErr = errors.New("failed to read configuration file: yaml: bad")

		_, err := loadConfig(zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration error")
	})
}

func TestConfigGet_UnwritableConfigLocation(t *testing.T) {
	out, _ := captureOutput(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	rootCmd.SetArgs([]string{"--config", filepath.Join(blocker, "config.yaml"), "config", "get"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "model: "+config.DefaultModel)
}

func TestNormalizeConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "model", value: "gemini-2.5-pro", want: "gemini-2.5-pro"},
		{key: "model", value: "", wantErr: true},
		{key: "api_base", value: "http://localhost:8080/v1beta/", want: "http://localhost:8080/v1beta"},
		{key: "api_base", value: "not a url", wantErr: true},
		{key: "timeout", value: "90s", want: "1m30s"},
		{key: "timeout", value: "0s", wantErr: true},
		{key: "timeout", value: "soon", wantErr: true},
		{key: "lang", value: "RU", want: "ru"},
		{key: "lang", value: "fr", wantErr: true},
		{key: "env_file", value: "secrets.env", want: "secrets.env"},
		{key: "env_file", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.value, func(t *testing.T) {
			got, err := normalizeConfigValue(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigSetAndGet(t *testing.T) {
	out, _ := captureOutput(t)
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	rootCmd.SetArgs([]string{"--config", configFile, "config", "set", "timeout", "15s"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Set timeout to 15s")

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "15s")

	out.Reset()
	rootCmd.SetArgs([]string{"--config", configFile, "config", "get"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "timeout: 15s")
	assert.Contains(t, out.String(), "model: "+config.DefaultModel)
}

func TestConfigSet_UnknownKey(t *testing.T) {
	captureOutput(t)
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	rootCmd.SetArgs([]string{"--config", configFile, "config", "set", "api_key", "secret"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown configuration key "api_key"`)
}

func TestCompletion(t *testing.T) {
	out, _ := captureOutput(t)
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	rootCmd.SetArgs([]string{"--config", configFile, "completion", "bash"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "aicommit")
}

func TestVersionCommand(t *testing.T) {
	out, _ := captureOutput(t)
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	rootCmd.SetArgs([]string{"--config", configFile, "version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "aicommit version dev (built at unknown)\n", out.String())
}
