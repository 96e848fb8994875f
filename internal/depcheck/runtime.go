package depcheck

import (
	"os/exec"
	"strings"

	"github.com/conn-castle/pearl/internal/platform"
)

// Runtime answers questions about the PHP runtime and host that packages are
// installed for.
type Runtime interface {
	// PHPVersion returns the runtime version, or "" when it is not known.
	PHPVersion() string
	// ExtensionVersion returns the version of a loaded extension.
	ExtensionVersion(name string) (string, bool)
	// HasProgram reports whether an executable is reachable through PATH.
	HasProgram(name string) bool
	Platform() platform.Signature
}

// StaticRuntime is a Runtime backed by fixed values, typically taken from the
// php_version config key.
type StaticRuntime struct {
	Version    string
	Extensions map[string]string
	Signature  platform.Signature
	// LookPath resolves programs; nil uses exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewStaticRuntime returns a runtime for version on the current host.
func NewStaticRuntime(version string) *StaticRuntime {
	return &StaticRuntime{
		Version:    strings.TrimSpace(version),
		Extensions: map[string]string{},
		Signature:  platform.Current(),
	}
}

// PHPVersion implements Runtime.
func (r *StaticRuntime) PHPVersion() string { return r.Version }

// ExtensionVersion implements Runtime. Extension names are case-insensitive.
func (r *StaticRuntime) ExtensionVersion(name string) (string, bool) {
	for ext, version := range r.Extensions {
		if strings.EqualFold(ext, name) {
			return version, true
		}
	}
	return "", false
}

// HasProgram implements Runtime.
func (r *StaticRuntime) HasProgram(name string) bool {
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	_, err := lookPath(name)
	return err == nil
}

// Platform implements Runtime.
func (r *StaticRuntime) Platform() platform.Signature { return r.Signature }
