package feval

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// ConfigFile is the name of the configuration file looked up by FindConfig.
const ConfigFile = "feval.toml"

// Config represents a feval.toml configuration file.
type Config struct {
	Eval  EvalConfig  `toml:"eval"`
	Check CheckConfig `toml:"check"`
	REPL  REPLConfig  `toml:"repl"`

	// Warnings lists keys in the file that were not understood.
	Warnings []string `toml:"-"`
}

type EvalConfig struct {
	// MaxDepth bounds nested evaluation. 0 means unlimited.
	MaxDepth int `toml:"max_depth"`
}

type CheckConfig struct {
	// Skip evaluates programs without type checking them first.
	Skip bool `toml:"skip"`
	// Explain prints the closed equations behind a type error.
	Explain bool `toml:"explain"`
}

type REPLConfig struct {
	// History is the path of the REPL history file. A leading ~ is expanded.
	History string `toml:"history"`
	// Color is one of auto, always or never.
	Color string `toml:"color"`
}

// DefaultConfig is used when no feval.toml is found, and as the base that a
// found file overrides.
func DefaultConfig() *Config {
	return &Config{
		Eval: EvalConfig{MaxDepth: 10000},
		REPL: REPLConfig{
			History: "~/.local/share/feval/history",
			Color:   "auto",
		},
	}
}

// LoadConfig loads a feval.toml file from the given path.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	for _, key := range meta.Undecoded() {
		config.Warnings = append(config.Warnings, "unknown key "+key.String())
	}
	if err := config.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", path)
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.REPL.Color {
	case "auto", "always", "never":
	default:
		return errors.Errorf("repl.color must be auto, always or never, got %q", c.REPL.Color)
	}
	if c.Eval.MaxDepth < 0 {
		return errors.Errorf("eval.max_depth must not be negative, got %d", c.Eval.MaxDepth)
	}
	return nil
}

// FindConfig searches for a feval.toml file starting from dir and walking up
// to parent directories. Returns the path to feval.toml and the parsed config,
// or ("", DefaultConfig(), nil) if not found.
func FindConfig(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			config, err := LoadConfig(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", DefaultConfig(), nil
		}
		dir = parent
	}
}

// HistoryPath returns the REPL history path with ~ expanded.
func (c *Config) HistoryPath() string {
	path := c.REPL.History
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
