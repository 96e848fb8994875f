// Package descriptor holds the in-memory package model produced by the
// package.xml parser and consumed by the installer, the dependency checker and
// the registry.
package descriptor

import (
	"sort"
	"strings"
)

// DefaultChannel is the channel assumed when a document does not name one.
const DefaultChannel = "pear.php.net"

// ReleaseKind classifies what a release ships and therefore which file roles it
// may declare.
type ReleaseKind string

// Release kinds.
const (
	ReleasePHP    ReleaseKind = "php"
	ReleaseExtSrc ReleaseKind = "extsrc"
	ReleaseExtBin ReleaseKind = "extbin"
)

// ReplacementKind selects where a replacement directive takes its value from.
type ReplacementKind string

// Replacement kinds.
const (
	ReplacePHPConst    ReplacementKind = "php-const"
	ReplacePearConfig  ReplacementKind = "pear-config"
	ReplacePackageInfo ReplacementKind = "package-info"
)

// Replacement substitutes From with the value named by To at install time.
type Replacement struct {
	From string          `toml:"from"`
	Kind ReplacementKind `toml:"type"`
	To   string          `toml:"to"`
}

// FileEntry is one file declared in the package file list.
type FileEntry struct {
	Path           string        `toml:"path"`
	Role           Role          `toml:"role"`
	BaseInstallDir string        `toml:"baseinstalldir,omitempty"`
	InstallAs      string        `toml:"install_as,omitempty"`
	Platform       string        `toml:"platform,omitempty"`
	MD5Sum         string        `toml:"md5sum,omitempty"`
	Replacements   []Replacement `toml:"replacements,omitempty"`
	// InstalledAs is the absolute destination recorded once the file is committed,
	// without any install root prefix.
	InstalledAs string `toml:"installed_as,omitempty"`
	// APIVersions is reported by the build pipeline for compiled extensions.
	APIVersions map[string]string `toml:"api_versions,omitempty"`
}

// Dependency is one declared requirement of a package.
type Dependency struct {
	Type     DependencyType `toml:"type"`
	Relation Relation       `toml:"rel,omitempty"`
	Version  string         `toml:"version,omitempty"`
	Name     string         `toml:"name,omitempty"`
	Channel  string         `toml:"channel,omitempty"`
	Optional bool           `toml:"optional,omitempty"`
}

// DependencyGroup is a named optional feature set whose dependencies are only
// validated when the group is requested.
type DependencyGroup struct {
	Name         string       `toml:"name"`
	Hint         string       `toml:"hint,omitempty"`
	Dependencies []Dependency `toml:"deps,omitempty"`
}

// Maintainer is a package maintainer.
type Maintainer struct {
	Handle string `toml:"handle"`
	Name   string `toml:"name,omitempty"`
	Email  string `toml:"email,omitempty"`
	Role   string `toml:"role,omitempty"`
}

// ChangelogEntry describes a historical release.
type ChangelogEntry struct {
	Version  string `toml:"version,omitempty"`
	Date     string `toml:"date,omitempty"`
	State    string `toml:"state,omitempty"`
	License  string `toml:"license,omitempty"`
	Notes    string `toml:"notes,omitempty"`
	Warnings string `toml:"warnings,omitempty"`
}

// ConfigureOption is a build-time option prompted for when compiling sources.
type ConfigureOption struct {
	Name    string `toml:"name"`
	Prompt  string `toml:"prompt,omitempty"`
	Default string `toml:"default,omitempty"`
}

// Provide declares an API entity (class, function) shipped by the package.
type Provide struct {
	Type     string `toml:"type"`
	Name     string `toml:"name"`
	Extends  string `toml:"extends,omitempty"`
	Explicit bool   `toml:"explicit,omitempty"`
}

// Package is a parsed package descriptor plus the installation bookkeeping the
// registry persists for it.
type Package struct {
	Name             string             `toml:"name"`
	Channel          string             `toml:"channel"`
	Summary          string             `toml:"summary,omitempty"`
	Description      string             `toml:"description,omitempty"`
	Version          string             `toml:"version"`
	ReleaseDate      string             `toml:"release_date,omitempty"`
	ReleaseState     string             `toml:"release_state,omitempty"`
	ReleaseLicense   string             `toml:"release_license,omitempty"`
	ReleaseNotes     string             `toml:"release_notes,omitempty"`
	ReleaseWarnings  string             `toml:"release_warnings,omitempty"`
	XSDVersion       string             `toml:"xsd_version,omitempty"`
	ReleaseKind      ReleaseKind        `toml:"release_kind,omitempty"`
	Maintainers      []Maintainer       `toml:"maintainers,omitempty"`
	Files            []FileEntry        `toml:"files,omitempty"`
	Dependencies     []Dependency       `toml:"deps,omitempty"`
	Groups           []DependencyGroup  `toml:"groups,omitempty"`
	Changelog        []ChangelogEntry   `toml:"changelog,omitempty"`
	ConfigureOptions []ConfigureOption  `toml:"configure_options,omitempty"`
	Provides         map[string]Provide `toml:"provides,omitempty"`
	DirTree          []string           `toml:"dirtree,omitempty"`

	// RequestedGroup names the dependency group asked for by the caller; it is
	// never persisted.
	RequestedGroup string `toml:"-"`

	installed map[string]bool
}

// Key returns the channel-qualified package name.
func (p *Package) Key() string {
	return p.ChannelOrDefault() + "/" + p.Name
}

// ChannelOrDefault returns the package channel, falling back to DefaultChannel.
func (p *Package) ChannelOrDefault() string {
	if strings.TrimSpace(p.Channel) == "" {
		return DefaultChannel
	}
	return p.Channel
}

// IsLegacy reports whether the descriptor uses the 1.0 document format, which
// selects the legacy dependency checker.
func (p *Package) IsLegacy() bool {
	return p.XSDVersion == "" || p.XSDVersion == "1.0"
}

// HasDeps reports whether any dependency or dependency group is declared.
func (p *Package) HasDeps() bool {
	return len(p.Dependencies) > 0 || len(p.Groups) > 0
}

// File returns a pointer to the entry for path.
func (p *Package) File(path string) (*FileEntry, bool) {
	for i := range p.Files {
		if p.Files[i].Path == path {
			return &p.Files[i], true
		}
	}
	return nil, false
}

// Group returns the dependency group with the given name.
func (p *Package) Group(name string) (DependencyGroup, bool) {
	for _, group := range p.Groups {
		if group.Name == name {
			return group, true
		}
	}
	return DependencyGroup{}, false
}

// SetInstalledAs records where path was placed. An empty installedAs clears the
// record.
func (p *Package) SetInstalledAs(path string, installedAs string) {
	if entry, ok := p.File(path); ok {
		entry.InstalledAs = installedAs
	}
}

// SetDirtree adds dir to the set of directories created for this package.
func (p *Package) SetDirtree(dir string) {
	if dir == "" {
		return
	}
	idx := sort.SearchStrings(p.DirTree, dir)
	if idx < len(p.DirTree) && p.DirTree[idx] == dir {
		return
	}
	p.DirTree = append(p.DirTree, "")
	copy(p.DirTree[idx+1:], p.DirTree[idx:])
	p.DirTree[idx] = dir
}

// ResetDirtree forgets every recorded directory.
func (p *Package) ResetDirtree() {
	p.DirTree = nil
}

// MarkInstalled flags path as successfully staged during the current call.
func (p *Package) MarkInstalled(path string) {
	if p.installed == nil {
		p.installed = make(map[string]bool)
	}
	p.installed[path] = true
}

// RetainInstalled drops every file entry that was not marked installed, so the
// registry only records files actually placed on disk.
func (p *Package) RetainInstalled() {
	kept := p.Files[:0]
	for _, entry := range p.Files {
		if p.installed[entry.Path] {
			kept = append(kept, entry)
		}
	}
	p.Files = kept
	p.installed = nil
}

// InstalledFiles returns the file entries that carry an installed-as record.
func (p *Package) InstalledFiles() []FileEntry {
	out := make([]FileEntry, 0, len(p.Files))
	for _, entry := range p.Files {
		if entry.InstalledAs != "" {
			out = append(out, entry)
		}
	}
	return out
}

// Field returns a package-level value by its package-info replacement name.
func (p *Package) Field(name string) (string, bool) {
	var value string
	switch name {
	case "package", "name":
		value = p.Name
	case "channel":
		value = p.ChannelOrDefault()
	case "summary":
		value = p.Summary
	case "description":
		value = p.Description
	case "version":
		value = p.Version
	case "release_date":
		value = p.ReleaseDate
	case "release_state":
		value = p.ReleaseState
	case "release_license":
		value = p.ReleaseLicense
	case "release_notes":
		value = p.ReleaseNotes
	case "release_warnings":
		value = p.ReleaseWarnings
	default:
		return "", false
	}
	return value, value != ""
}
