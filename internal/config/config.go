// Package config provides loading facilities for the engine's YAML
// configuration file and its companion .env environment file.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RootConfig describes one scan root as it appears in a YAML configuration
// file.
type RootConfig struct {
	// Path is the directory to scan, relative to the configuration file's
	// own directory unless absolute.
	Path string `yaml:"path"`
	// TopLevel overrides the logical segment derived from Path's basename.
	TopLevel string `yaml:"topLevel,omitempty"`
}

// ReloadConfig controls the engine's hot-reloading behavior.
type ReloadConfig struct {
	// Enabled records the file's reload.enabled setting. No command reads
	// it: the watch subcommand starts the watcher regardless of its value,
	// and the other subcommands never start one.
	Enabled bool `yaml:"enabled"`
}

// Config is the engine's root YAML configuration object.
type Config struct {
	// Roots lists the directories to scan.
	Roots []RootConfig `yaml:"roots"`
	// Ignore lists additional scanner ignore patterns.
	Ignore []string `yaml:"ignore,omitempty"`
	// Inflect lists literal basename-to-segment overrides.
	Inflect map[string]string `yaml:"inflect,omitempty"`
	// Reload controls hot-reloading.
	Reload ReloadConfig `yaml:"reload"`
	// LogLevel names the process-wide logging level ("disabled", "error",
	// "warn", "info", or "debug"). Empty means leave the current level.
	LogLevel string `yaml:"logLevel,omitempty"`
}

// Default returns an empty, zero-root configuration. Callers typically
// populate Roots via Load or via AddRoot calls against the engine directly.
func Default() *Config {
	return &Config{}
}

// Load reads and parses a YAML configuration file at path. A missing file is
// not an error: Load returns Default() in that case, mirroring the teacher's
// pass-through-not-exist convention for optional configuration files.
func Load(path string) (*Config, error) {
	return loadFromPath(path)
}

func loadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "unable to read configuration file")
	}

	result := Default()
	if err := yaml.Unmarshal(data, result); err != nil {
		return nil, errors.Wrap(err, "unable to parse configuration file")
	}
	return result, nil
}

// LoadEnv loads environment variable assignments from the .env-style file at
// path into the process environment, via godotenv. A missing file is not an
// error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "unable to load environment file")
	}
	return nil
}

// DebugEnabled reports whether verbose debug logging has been requested via
// the AUTOLOAD_DEBUG environment variable, mirroring the teacher's
// environment-variable-gated debug switch.
func DebugEnabled() bool {
	return os.Getenv("AUTOLOAD_DEBUG") == "1"
}
