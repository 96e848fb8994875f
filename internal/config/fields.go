package config

import (
	"path"
	"sort"
	"strings"
)

// Config keys understood by the installer.
const (
	KeyPHPDir         = "php_dir"
	KeyExtDir         = "ext_dir"
	KeyDocDir         = "doc_dir"
	KeyDataDir        = "data_dir"
	KeyTestDir        = "test_dir"
	KeyBinDir         = "bin_dir"
	KeyUmask          = "umask"
	KeyDefaultChannel = "default_channel"
	KeyRegistryDir    = "registry_dir"
	KeyBuildCommand   = "build_command"
	KeyModulesDir     = "modules_dir"
	KeyPHPVersion     = "php_version"
	KeyNoiseMode      = "warnings.noise_mode"
)

// DefaultPrefix is the install prefix used when none is configured.
const DefaultPrefix = "/usr"

// Field describes one config key.
type Field struct {
	Key         string
	Description string
	// PerChannel marks keys that [channels."<name>"] tables may override.
	PerChannel bool
	// Path marks keys whose values are filesystem paths subject to ~ expansion.
	Path bool
}

var fields = []Field{
	{Key: KeyPHPDir, Description: "directory for php role files", PerChannel: true, Path: true},
	{Key: KeyExtDir, Description: "directory for compiled extensions", PerChannel: true, Path: true},
	{Key: KeyDocDir, Description: "directory for per-package documentation", PerChannel: true, Path: true},
	{Key: KeyDataDir, Description: "directory for per-package data files", PerChannel: true, Path: true},
	{Key: KeyTestDir, Description: "directory for per-package tests", PerChannel: true, Path: true},
	{Key: KeyBinDir, Description: "directory for executable scripts", PerChannel: true, Path: true},
	{Key: KeyUmask, Description: "octal umask applied to installed file modes", PerChannel: true},
	{Key: KeyDefaultChannel, Description: "channel assumed for packages that name none"},
	{Key: KeyRegistryDir, Description: "directory holding installed package records", Path: true},
	{Key: KeyBuildCommand, Description: "shell command that compiles extension sources", PerChannel: true},
	{Key: KeyModulesDir, Description: "build output directory scanned for compiled modules", PerChannel: true},
	{Key: KeyPHPVersion, Description: "runtime version used for php dependency checks"},
	{Key: KeyNoiseMode, Description: "warning noise mode: default, reduce or quiet"},
}

// LookupField returns the catalog entry for key.
func LookupField(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Fields returns every known key in sorted order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Defaults returns the built-in value of every key for an install prefix.
func Defaults(prefix string) map[string]string {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultPrefix
	}
	phpDir := path.Join(prefix, "share", "php")
	return map[string]string{
		KeyPHPDir:         phpDir,
		KeyExtDir:         path.Join(prefix, "lib", "php", "extensions"),
		KeyDocDir:         path.Join(phpDir, "docs"),
		KeyDataDir:        path.Join(phpDir, "data"),
		KeyTestDir:        path.Join(phpDir, "tests"),
		KeyBinDir:         path.Join(prefix, "bin"),
		KeyUmask:          "0022",
		KeyDefaultChannel: "pear.php.net",
		KeyRegistryDir:    path.Join(phpDir, ".registry"),
		KeyBuildCommand:   "phpize && ./configure $PEARL_CONFIGURE_OPTIONS && make",
		KeyModulesDir:     "modules",
		KeyPHPVersion:     "",
		KeyNoiseMode:      "default",
	}
}

func keyPath(key string) []string {
	return strings.Split(key, ".")
}
