// Package config loads and edits the installer configuration file.
//
// The file is TOML. Top-level keys are the defaults; [channels."<name>"] tables
// override individual keys for packages from that channel.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml"
	tomlv2 "github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/pearl/internal/messages"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "PEARL_CONFIG"

// EnvPrefix sets the install prefix the built-in defaults derive from.
const EnvPrefix = "PEARL_PREFIX"

// ErrConfigValidation wraps config validation failures (as opposed to TOML
// syntax or filesystem errors).
var ErrConfigValidation = errors.New("config validation failed")

// File is the strict schema of the config file.
type File struct {
	PHPDir         string                     `toml:"php_dir"`
	ExtDir         string                     `toml:"ext_dir"`
	DocDir         string                     `toml:"doc_dir"`
	DataDir        string                     `toml:"data_dir"`
	TestDir        string                     `toml:"test_dir"`
	BinDir         string                     `toml:"bin_dir"`
	Umask          string                     `toml:"umask"`
	DefaultChannel string                     `toml:"default_channel"`
	RegistryDir    string                     `toml:"registry_dir"`
	BuildCommand   string                     `toml:"build_command"`
	ModulesDir     string                     `toml:"modules_dir"`
	PHPVersion     string                     `toml:"php_version"`
	Warnings       WarningsConfig             `toml:"warnings"`
	Channels       map[string]ChannelSettings `toml:"channels"`
}

// WarningsConfig controls warning output.
type WarningsConfig struct {
	NoiseMode string `toml:"noise_mode"`
}

// ChannelSettings holds the keys a channel table may override.
type ChannelSettings struct {
	PHPDir       string `toml:"php_dir"`
	ExtDir       string `toml:"ext_dir"`
	DocDir       string `toml:"doc_dir"`
	DataDir      string `toml:"data_dir"`
	TestDir      string `toml:"test_dir"`
	BinDir       string `toml:"bin_dir"`
	Umask        string `toml:"umask"`
	BuildCommand string `toml:"build_command"`
	ModulesDir   string `toml:"modules_dir"`
}

// Config answers channel-scoped key lookups over a loaded file and the
// built-in defaults.
type Config struct {
	// Path is where Save writes the file.
	Path     string
	tree     *toml.Tree
	defaults map[string]string
}

// New returns a config with no file-backed values.
func New(prefix string) *Config {
	tree, _ := toml.TreeFromMap(map[string]interface{}{})
	return &Config{tree: tree, defaults: Defaults(prefix)}
}

// DefaultPath returns $PEARL_CONFIG or ~/.config/pearl/config.toml.
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return homedir.Expand(p)
	}
	p, err := homedir.Expand("~/.config/pearl/config.toml")
	if err != nil {
		return "", fmt.Errorf(messages.ConfigDefaultPathFailedFmt, err)
	}
	return p, nil
}

// Load reads path. A missing file yields the defaults for prefix.
func Load(path string, prefix string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(messages.ConfigPathRequired)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := New(prefix)
		cfg.Path = path
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	cfg, err := Parse(data, path, prefix)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse validates data and returns a config over it. source is used in error
// messages.
func Parse(data []byte, source string, prefix string) (*Config, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	var file File
	if err := tomlv2.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := file.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	return &Config{tree: tree, defaults: Defaults(prefix)}, nil
}

// decodeStrict re-decodes the TOML data rejecting keys the schema does not
// know, which Unmarshal silently ignores.
func decodeStrict(data []byte) error {
	var file File
	decoder := tomlv2.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&file)
}

// Get returns key for channel: the channel table value, then the top-level
// value, then the default. Path values have a leading ~ expanded.
func (c *Config) Get(key string, channel string) string {
	value := c.lookup(key, channel)
	if field, ok := LookupField(key); ok && field.Path && value != "" {
		if expanded, err := homedir.Expand(value); err == nil {
			return expanded
		}
	}
	return value
}

func (c *Config) lookup(key string, channel string) string {
	if c.tree != nil {
		if channel != "" {
			if v, ok := c.tree.GetPath(append([]string{"channels", channel}, keyPath(key)...)).(string); ok && v != "" {
				return v
			}
		}
		if v, ok := c.tree.GetPath(keyPath(key)).(string); ok && v != "" {
			return v
		}
	}
	return c.defaults[key]
}

// DefaultChannel returns the configured default channel.
func (c *Config) DefaultChannel() string {
	return c.Get(KeyDefaultChannel, "")
}

// NoiseMode returns the configured warning noise mode.
func (c *Config) NoiseMode() string {
	return c.Get(KeyNoiseMode, "")
}
