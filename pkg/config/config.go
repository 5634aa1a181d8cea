// Package config loads lualike settings from project and user YAML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"fortio.org/log"
	"gopkg.in/yaml.v3"

	"github.com/shvrma/lualike/pkg/lexer"
	"github.com/shvrma/lualike/pkg/value"
)

const (
	// ProjectFile is looked up in the project directory.
	ProjectFile = ".lualike.yaml"
	// UserFile is looked up below the user's home directory.
	UserFile = ".lualike/config.yaml"
)

// Config holds the interpreter settings.
type Config struct {
	// MaxNameLength limits identifier length; zero means the tokenizer default.
	MaxNameLength int    `yaml:"max_name_length,omitempty"`
	LogLevel      string `yaml:"log_level,omitempty"`
	// Color toggles colored diagnostics; nil leaves the terminal default.
	Color *bool `yaml:"color,omitempty"`
	// Globals are scalar values bound in the global environment before a
	// program runs.
	Globals map[string]any `yaml:"globals,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		MaxNameLength: lexer.DefaultMaxNameLength,
		LogLevel:      "info",
	}
}

// Load reads configuration from project and user config files.
// Precedence: project (.lualike.yaml) → user (~/.lualike/config.yaml) →
// defaults. It also returns the path the settings came from, empty for
// defaults. A file that exists but does not parse is an error.
func Load(projectDir string) (*Config, string, error) {
	projectPath := filepath.Join(projectDir, ProjectFile)
	if cfg, err := loadFile(projectPath); err == nil {
		return cfg, projectPath, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, projectPath, err
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(homeDir, UserFile)
		if cfg, err := loadFile(userPath); err == nil {
			return cfg, userPath, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, userPath, err
		}
	}

	log.LogVf("no config file found, using defaults")
	return Default(), "", nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration. Unset fields keep their
// defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges, the log level and the global bindings.
func (c *Config) Validate() error {
	if c.MaxNameLength < 0 {
		return fmt.Errorf("max_name_length must not be negative, got %d", c.MaxNameLength)
	}
	if c.LogLevel != "" {
		if _, err := log.ValidateLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	_, err := c.GlobalValues()
	return err
}

// GlobalValues converts the configured globals into runtime values.
func (c *Config) GlobalValues() (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(c.Globals))
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !isName(name, c.MaxNameLength) {
			return nil, fmt.Errorf("globals: %q is not a valid name", name)
		}
		v, err := toValue(c.Globals[name])
		if err != nil {
			return nil, fmt.Errorf("globals.%s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// isName reports whether s tokenizes to exactly one name.
func isName(s string, maxLen int) bool {
	tokens, err := lexer.Tokenize(s, "config", lexer.WithMaxNameLength(maxLen))
	return err == nil && len(tokens) == 2 && tokens[0].Type == lexer.TokName
}

func toValue(raw any) (value.Value, error) {
	switch v := raw.(type) {
	case nil:
		return value.NewNil(), nil
	case bool:
		return value.NewBool(v), nil
	case int:
		return value.NewInt(int64(v)), nil
	case int64:
		return value.NewInt(v), nil
	case uint64:
		if v > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of range", v)
		}
		return value.NewInt(int64(v)), nil
	case float64:
		return value.NewFloat(v), nil
	case string:
		return value.NewString(v), nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", raw)
}
