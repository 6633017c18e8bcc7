// Package credstore keeps API credentials in a KEY=VALUE file.
package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// APIKeyName is the key under which the completion service credential is stored.
const APIKeyName = "GEMINI_API_KEY"

// DefaultFileName is the credential file looked up in the working directory.
const DefaultFileName = ".env"

// Store reads and writes credentials by key.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// FileStore is a Store backed by a dotenv file. Process environment
// variables take precedence over values in the file.
type FileStore struct {
	path string
	v    *viper.Viper
}

// NewFileStore returns a store for the dotenv file at path. The file does not
// have to exist yet.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFileName
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	return &FileStore{path: path, v: v}
}

// Path returns the credential file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() error {
	if err := s.v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read credential file %s: %w", s.path, err)
	}
	return nil
}

// Get returns the value for key, or an empty string when it is not set anywhere.
func (s *FileStore) Get(key string) (string, error) {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value, nil
	}
	if err := s.load(); err != nil {
		return "", err
	}
	return strings.TrimSpace(s.v.GetString(key)), nil
}

// Set replaces the line holding key, or appends one, and leaves every other
// line of the file untouched.
func (s *FileStore) Set(key, value string) error {
	if key == "" {
		return errors.New("credential key cannot be empty")
	}

	existing, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read credential file %s: %w", s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create credential directory: %w", err)
		}
	}

	updated := replaceEntry(string(existing), key, formatEntry(key, value))
	if err := os.WriteFile(s.path, []byte(updated), 0o600); err != nil {
		return fmt.Errorf("failed to write credential file %s: %w", s.path, err)
	}
	return os.Chmod(s.path, 0o600)
}

// replaceEntry swaps the first assignment of key for entry and drops any
// later duplicates. Without an assignment, entry is appended.
func replaceEntry(content, key, entry string) string {
	lines := strings.SplitAfter(content, "\n")
	out := make([]string, 0, len(lines)+1)
	replaced := false
	for _, line := range lines {
		if line == "" {
			continue
		}
		if !assignsKey(line, key) {
			out = append(out, line)
			continue
		}
		if replaced {
			continue
		}
		replaced = true
		out = append(out, entry+lineEnding(line))
	}

	if !replaced {
		if n := len(out); n > 0 && !strings.HasSuffix(out[n-1], "\n") {
			out[n-1] += "\n"
		}
		out = append(out, entry+"\n")
	}
	return strings.Join(out, "")
}

func assignsKey(line, key string) bool {
	env, err := gotenv.StrictParse(strings.NewReader(line))
	if err != nil {
		return false
	}
	_, ok := env[key]
	return ok
}

func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}

// formatEntry quotes values that a dotenv parser would otherwise cut short or
// expand.
func formatEntry(key, value string) string {
	if value != "" && !strings.ContainsAny(value, " \t#'\"\\$=") {
		return key + "=" + value
	}
	if !strings.ContainsAny(value, "'\r\n") {
		return key + "='" + value + "'"
	}
	return key + `="` + dquoteEscaper.Replace(value) + `"`
}

var dquoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "\n", `\n`, "\r", `\r`)

// MemoryStore is an in-memory Store.
type MemoryStore map[string]string

// Get returns the value for key.
func (m MemoryStore) Get(key string) (string, error) {
	return m[key], nil
}

// Set stores value under key.
func (m MemoryStore) Set(key, value string) error {
	m[key] = value
	return nil
}
