// Package install places the files of a package on disk, records them in the
// registry and removes them again.
//
// Every filesystem change an install makes goes through a transaction log: files
// are staged as temp copies next to their destination and only renamed into
// place on commit. A failure before commit leaves the destination tree as it
// was.
package install

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/pearl/internal/build"
	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/depcheck"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/platform"
	"github.com/conn-castle/pearl/internal/registry"
	"github.com/conn-castle/pearl/internal/transaction"
	"github.com/conn-castle/pearl/internal/warnings"
)

// Config is the configuration the installer reads.
type Config interface {
	Get(key string, channel string) string
	Mode(executable bool, channel string) os.FileMode
}

// Options control one install, upgrade or uninstall.
type Options struct {
	// InstallRoot is prepended to every destination; registry records stay
	// root-relative.
	InstallRoot string
	// Force skips conflict checks, reinstalls registered packages, allows
	// same-version upgrades and accepts checksum mismatches.
	Force bool
	// RegisterOnly records the package without touching files.
	RegisterOnly bool
	Upgrade      bool
	// Soft suppresses dependency output.
	Soft         bool
	NoDeps       bool
	NoBuild      bool
	IgnoreErrors bool
	// RequestedGroup names a dependency group to validate.
	RequestedGroup string
}

// Source is the package to install: either a package.xml path or a parsed
// descriptor plus the directory holding its files.
type Source struct {
	DescriptorPath string
	Package        *descriptor.Package
	Dir            string
}

// FromFile returns a Source reading path.
func FromFile(path string) Source {
	return Source{DescriptorPath: path}
}

// FromPackage returns a Source for an already parsed descriptor.
func FromPackage(pkg *descriptor.Package, dir string) Source {
	return Source{Package: pkg, Dir: dir}
}

// Result describes a finished install or uninstall.
type Result struct {
	Package *descriptor.Package
	// Previous is the replaced version on upgrade.
	Previous string
	Upgraded bool
	// Skipped lists files left out for another platform.
	Skipped  []string
	Built    []build.Built
	Warnings []warnings.Warning
}

func (r *Result) warn(w warnings.Warning) {
	r.Warnings = append(r.Warnings, w)
}

// Deps are the installer's collaborators. Config and Registry are required.
type Deps struct {
	Config   Config
	Registry registry.Registry
	// Runtime answers dependency and loaded-extension queries; nil uses a
	// StaticRuntime built from the php_version setting.
	Runtime depcheck.Runtime
	// Builder compiles extension sources; nil runs the configured build_command.
	Builder build.Builder
	// Platform filters platform-specific files; nil matches the host.
	Platform platform.Matcher
	// Constants resolves php-const replacements; nil uses DefaultConstants.
	Constants map[string]string
	System    System
	TxSystem  transaction.System
	Logger    *log.Logger
}

// Installer installs and uninstalls packages. It is not safe for concurrent
// use.
type Installer struct {
	cfg       Config
	registry  registry.Registry
	runtime   depcheck.Runtime
	builder   build.Builder
	platform  platform.Matcher
	constants map[string]string
	sys       System
	tx        *transaction.Log
	deps      *depcheck.Checker
	logger    *log.Logger
}

// New validates d and returns an Installer.
func New(d Deps) (*Installer, error) {
	if d.Config == nil {
		return nil, errors.New(messages.InstallConfigRequired)
	}
	if d.Registry == nil {
		return nil, errors.New(messages.InstallRegistryRequired)
	}
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rt := d.Runtime
	if rt == nil {
		rt = depcheck.NewStaticRuntime(d.Config.Get(config.KeyPHPVersion, ""))
	}
	matcher := d.Platform
	if matcher == nil {
		matcher = rt.Platform()
	}
	constants := d.Constants
	if constants == nil {
		constants = DefaultConstants(rt.PHPVersion())
	}
	sys := d.System
	if sys == nil {
		sys = RealSystem{}
	}
	checker, err := depcheck.New(d.Registry, rt, logger)
	if err != nil {
		return nil, err
	}
	return &Installer{
		cfg:       d.Config,
		registry:  d.Registry,
		runtime:   rt,
		builder:   d.Builder,
		platform:  matcher,
		constants: constants,
		sys:       sys,
		tx:        transaction.New(d.TxSystem, logger),
		deps:      checker,
		logger:    logger,
	}, nil
}

// Pending returns the number of queued, uncommitted operations. It is zero
// between calls.
func (i *Installer) Pending() int {
	return i.tx.Len()
}

// DefaultConstants returns the constant table used for php-const replacements.
func DefaultConstants(phpVersion string) map[string]string {
	osName := map[string]string{
		"linux":   "Linux",
		"darwin":  "Darwin",
		"windows": "WINNT",
		"freebsd": "FreeBSD",
	}[runtime.GOOS]
	if osName == "" {
		osName = runtime.GOOS
	}
	return map[string]string{
		"PHP_OS":              osName,
		"PHP_EOL":             "\n",
		"PHP_VERSION":         phpVersion,
		"DIRECTORY_SEPARATOR": string(filepath.Separator),
		"PATH_SEPARATOR":      string(filepath.ListSeparator),
		"PHP_SHLIB_SUFFIX":    "so",
	}
}
