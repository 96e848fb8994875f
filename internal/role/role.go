// Package role maps a file entry to its install destination according to the
// file's role and the configured role directories.
package role

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
)

// ErrInvalidRole is wrapped by RoleError.
var ErrInvalidRole = errors.New("invalid file role")

// ErrSourceOnly is returned for roles that are compiled rather than copied.
var ErrSourceOnly = errors.New(messages.RoleSourceOnlyReason)

// RoleError reports a role that is unknown or not valid for the release kind.
type RoleError struct {
	Role    descriptor.Role
	File    string
	Release descriptor.ReleaseKind
	// Disallowed is set when the role exists but the release kind forbids it.
	Disallowed bool
}

func (e *RoleError) Error() string {
	if e.Disallowed {
		return fmt.Sprintf(messages.RoleNotAllowedFmt, e.Role, e.Release, e.File)
	}
	return fmt.Sprintf(messages.RoleInvalidFmt, e.Role, e.File)
}

// Unwrap returns ErrInvalidRole.
func (e *RoleError) Unwrap() error { return ErrInvalidRole }

// Lookup reads channel-scoped configuration values.
type Lookup interface {
	Get(key string, channel string) string
}

type rule struct {
	configKey  string
	perPackage bool
	executable bool
	source     bool
}

var rules = map[descriptor.Role]rule{
	descriptor.RolePHP:    {configKey: config.KeyPHPDir},
	descriptor.RoleExt:    {configKey: config.KeyExtDir},
	descriptor.RoleDoc:    {configKey: config.KeyDocDir, perPackage: true},
	descriptor.RoleData:   {configKey: config.KeyDataDir, perPackage: true},
	descriptor.RoleTest:   {configKey: config.KeyTestDir, perPackage: true},
	descriptor.RoleScript: {configKey: config.KeyBinDir, executable: true},
	descriptor.RoleSrc:    {source: true},
	descriptor.RoleExtSrc: {source: true},
}

var baseRoles = []descriptor.Role{
	descriptor.RolePHP, descriptor.RoleData, descriptor.RoleDoc, descriptor.RoleTest, descriptor.RoleScript,
}

// ValidRoles returns the roles a release kind may declare.
func ValidRoles(kind descriptor.ReleaseKind) []descriptor.Role {
	out := append([]descriptor.Role(nil), baseRoles...)
	switch kind {
	case descriptor.ReleaseExtSrc:
		out = append(out, descriptor.RoleSrc, descriptor.RoleExtSrc)
	case descriptor.ReleaseExtBin:
		out = append(out, descriptor.RoleExt)
	}
	return out
}

func allowed(kind descriptor.ReleaseKind, r descriptor.Role) bool {
	for _, v := range ValidRoles(kind) {
		if v == r {
			return true
		}
	}
	return false
}

// IsExecutable reports whether files of role r are installed executable.
func IsExecutable(r descriptor.Role) bool {
	return rules[r].executable
}

// Placement is where one file goes.
type Placement struct {
	// Source is the file inside the unpacked package.
	Source string
	// InstalledAs is the destination as recorded in the registry, without the
	// install root.
	InstalledAs string
	// Final is InstalledAs under the install root.
	Final string
	// Temp is the staging sibling of Final.
	Temp string
	// BaseDir is the role directory the file was placed under.
	BaseDir string
	// RelDir is the directory of InstalledAs relative to BaseDir, with a leading
	// slash, or "." when the file sits directly in BaseDir.
	RelDir     string
	Executable bool
}

// Resolver computes placements for one package.
type Resolver struct {
	Lookup      Lookup
	SourceDir   string
	InstallRoot string
}

// Resolve returns the placement of file within pkg.
func (r Resolver) Resolve(pkg *descriptor.Package, file descriptor.FileEntry) (Placement, error) {
	if r.Lookup == nil {
		return Placement{}, errors.New(messages.RoleLookupRequired)
	}
	ru, known := rules[file.Role]
	if !known {
		return Placement{}, &RoleError{Role: file.Role, File: file.Path, Release: pkg.ReleaseKind}
	}
	kind := pkg.ReleaseKind
	if kind == "" {
		kind = descriptor.ReleasePHP
	}
	if !allowed(kind, file.Role) {
		return Placement{}, &RoleError{Role: file.Role, File: file.Path, Release: kind, Disallowed: true}
	}
	if ru.source {
		return Placement{}, ErrSourceOnly
	}
	return r.place(pkg, file, ru)
}

// ResolveBuilt places a module produced by the build pipeline directly in the
// extension directory. Source is left empty for the caller to fill in.
func (r Resolver) ResolveBuilt(pkg *descriptor.Package, name string) (Placement, error) {
	if r.Lookup == nil {
		return Placement{}, errors.New(messages.RoleLookupRequired)
	}
	file := descriptor.FileEntry{Path: path.Base(toSlash(name)), Role: descriptor.RoleExt}
	p, err := r.place(pkg, file, rules[descriptor.RoleExt])
	p.Source = ""
	return p, err
}

func (r Resolver) place(pkg *descriptor.Package, file descriptor.FileEntry, ru rule) (Placement, error) {
	channel := pkg.ChannelOrDefault()
	roleDir := toSlash(r.Lookup.Get(ru.configKey, channel))
	if strings.TrimSpace(roleDir) == "" {
		return Placement{}, fmt.Errorf(messages.RoleBaseDirEmptyFmt, ru.configKey, file.Role)
	}
	baseDir := path.Clean(roleDir)
	destDir := baseDir
	if ru.perPackage {
		baseDir = path.Join(baseDir, pkg.Name)
		destDir = baseDir
	} else if file.BaseInstallDir != "" {
		destDir = path.Join(destDir, toSlash(file.BaseInstallDir))
	}

	rel := toSlash(file.Path)
	name := file.InstallAs
	if name == "" {
		if dir := path.Dir(rel); dir != "." {
			destDir = path.Join(destDir, dir)
		}
		name = path.Base(rel)
	}
	installedAs := path.Join(destDir, toSlash(name))
	if !within(baseDir, installedAs) {
		return Placement{}, fmt.Errorf(messages.RolePathEscapesFmt, file.Path, baseDir)
	}

	final := prependRoot(installedAs, r.InstallRoot)
	relDir := path.Dir(strings.TrimPrefix(installedAs, baseDir))
	if relDir == "/" {
		relDir = "."
	}
	return Placement{
		Source:      path.Join(toSlash(r.SourceDir), rel),
		InstalledAs: installedAs,
		Final:       final,
		Temp:        path.Join(path.Dir(final), ".tmp"+path.Base(final)),
		BaseDir:     baseDir,
		RelDir:      relDir,
		Executable:  ru.executable,
	}, nil
}

// PrependRoot places an absolute path under root. An empty root returns p.
func PrependRoot(p string, root string) string {
	return prependRoot(p, root)
}

func prependRoot(p string, root string) string {
	if root == "" {
		return p
	}
	return path.Join(toSlash(root), p)
}

func within(base string, p string) bool {
	return p == base || strings.HasPrefix(p, strings.TrimSuffix(base, "/")+"/")
}

// toSlash collapses backslashes and repeated separators to single slashes.
func toSlash(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
