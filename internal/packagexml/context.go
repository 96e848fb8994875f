package packagexml

import (
	"strings"

	"github.com/conn-castle/pearl/internal/descriptor"
)

// dirFrame is one open <dir> element. Frames for the root placeholder carry no
// name but still scope the inherited attributes.
type dirFrame struct {
	name           string
	baseInstallDir string
	role           string
}

type parseContext struct {
	pkg *descriptor.Package

	elements []string
	dirs     []dirFrame

	inChangelog bool
	typedDep    *typedDependency

	maintainerIdx int
	changelogIdx  int
	groupIdx      int
	depIdx        int

	currentFile   string
	fileNamedOpen bool
	fileAttrs     map[string]string

	text strings.Builder
}

func newParseContext() *parseContext {
	return &parseContext{
		pkg: &descriptor.Package{
			Provides: map[string]descriptor.Provide{},
		},
		maintainerIdx: -1,
		changelogIdx:  -1,
		groupIdx:      -1,
		depIdx:        -1,
	}
}

// parent returns the element enclosing the innermost open element.
func (c *parseContext) parent() string {
	if len(c.elements) < 2 {
		return ""
	}
	return c.elements[len(c.elements)-2]
}

func (c *parseContext) open(name string, attrs map[string]string) {
	c.elements = append(c.elements, name)
	c.text.Reset()

	if c.opensTypedDependency(name) {
		c.typedDep = &typedDependency{
			kind:     typedDependencyKind(name),
			optional: c.parent() == "optional",
		}
		return
	}

	switch name {
	case "package":
		if len(c.elements) != 1 {
			return
		}
		c.pkg.XSDVersion = "1.0"
		if v := attrs["version"]; v != "" {
			c.pkg.XSDVersion = v
		}
	case "dir":
		if c.inChangelog {
			return
		}
		frame := dirFrame{baseInstallDir: attrs["baseinstalldir"], role: attrs["role"]}
		if n := attrs["name"]; n != "/" {
			frame.name = n
		}
		c.dirs = append(c.dirs, frame)
	case "file":
		c.fileNamedOpen = false
		c.fileAttrs = attrs
		if c.inChangelog {
			return
		}
		if n, ok := attrs["name"]; ok {
			c.addFile(n, attrs)
			c.fileNamedOpen = true
		}
	case "replace":
		if c.inChangelog {
			return
		}
		if entry, ok := c.pkg.File(c.currentFile); ok {
			entry.Replacements = append(entry.Replacements, descriptor.Replacement{
				From: attrs["from"],
				Kind: descriptor.ReplacementKind(attrs["type"]),
				To:   attrs["to"],
			})
		}
	case "maintainers":
		c.pkg.Maintainers = []descriptor.Maintainer{}
	case "maintainer":
		c.pkg.Maintainers = append(c.pkg.Maintainers, descriptor.Maintainer{})
		c.maintainerIdx = len(c.pkg.Maintainers) - 1
	case "lead", "developer", "contributor", "helper":
		// 2.0 documents list maintainers as role-named children of <package>.
		if c.parent() != "package" {
			return
		}
		c.pkg.Maintainers = append(c.pkg.Maintainers, descriptor.Maintainer{Role: name})
		c.maintainerIdx = len(c.pkg.Maintainers) - 1
	case "changelog":
		c.pkg.Changelog = []descriptor.ChangelogEntry{}
		c.inChangelog = true
	case "release":
		if c.inChangelog && c.parent() == "changelog" {
			c.pkg.Changelog = append(c.pkg.Changelog, descriptor.ChangelogEntry{})
			c.changelogIdx = len(c.pkg.Changelog) - 1
		}
	case "phprelease":
		c.pkg.ReleaseKind = descriptor.ReleasePHP
	case "extsrcrelease":
		c.pkg.ReleaseKind = descriptor.ReleaseExtSrc
	case "extbinrelease":
		c.pkg.ReleaseKind = descriptor.ReleaseExtBin
	case "deps", "dependencies":
		if !c.inChangelog {
			c.pkg.Dependencies = []descriptor.Dependency{}
		}
	case "group":
		if c.inChangelog {
			return
		}
		c.pkg.Groups = append(c.pkg.Groups, descriptor.DependencyGroup{Name: attrs["name"], Hint: attrs["hint"]})
		c.groupIdx = len(c.pkg.Groups) - 1
	case "dep":
		if c.inChangelog {
			return
		}
		c.addDependency(attrs)
	case "configureoptions":
		if !c.inChangelog {
			c.pkg.ConfigureOptions = []descriptor.ConfigureOption{}
		}
	case "configureoption":
		if c.inChangelog {
			return
		}
		c.pkg.ConfigureOptions = append(c.pkg.ConfigureOptions, descriptor.ConfigureOption{
			Name:    attrs["name"],
			Prompt:  attrs["prompt"],
			Default: attrs["default"],
		})
	case "provides":
		if attrs["type"] == "" || attrs["name"] == "" {
			return
		}
		c.pkg.Provides[attrs["type"]+";"+attrs["name"]] = descriptor.Provide{
			Type:     attrs["type"],
			Name:     attrs["name"],
			Extends:  attrs["extends"],
			Explicit: true,
		}
	}
}

func (c *parseContext) close(name string) {
	if update := closeElement(name, c.parent(), c.text.String(), c.scope()); update != nil {
		update(c)
	}
	if len(c.elements) > 0 {
		c.elements = c.elements[:len(c.elements)-1]
	}
	c.text.Reset()
}

func (c *parseContext) scope() closeScope {
	return closeScope{
		topLevel:          len(c.elements) == 2 && c.elements[0] == "package",
		inChangelog:       c.inChangelog,
		inTypedDependency: c.typedDep != nil,
		fileNamed:         c.fileNamedOpen,
	}
}

// filePath joins the currently open directory names with name.
func (c *parseContext) filePath(name string) string {
	parts := make([]string, 0, len(c.dirs)+1)
	for _, d := range c.dirs {
		if d.name != "" {
			parts = append(parts, d.name)
		}
	}
	parts = append(parts, name)
	return strings.Join(parts, "/")
}

// inherited returns the innermost non-empty value selected by pick.
func (c *parseContext) inherited(pick func(dirFrame) string) string {
	for i := len(c.dirs) - 1; i >= 0; i-- {
		if v := pick(c.dirs[i]); v != "" {
			return v
		}
	}
	return ""
}

func (c *parseContext) addFile(name string, attrs map[string]string) {
	entry := descriptor.FileEntry{
		Path:           c.filePath(name),
		Role:           descriptor.Role(attrs["role"]),
		BaseInstallDir: attrs["baseinstalldir"],
		InstallAs:      attrs["install-as"],
		Platform:       attrs["platform"],
		MD5Sum:         attrs["md5sum"],
	}
	if _, ok := attrs["baseinstalldir"]; !ok {
		entry.BaseInstallDir = c.inherited(func(d dirFrame) string { return d.baseInstallDir })
	}
	if entry.Role == "" {
		entry.Role = descriptor.Role(c.inherited(func(d dirFrame) string { return d.role }))
	}
	c.pkg.Files = append(c.pkg.Files, entry)
	c.currentFile = entry.Path
}

func (c *parseContext) addDependency(attrs map[string]string) {
	c.appendDependency(descriptor.Dependency{
		Type:     descriptor.ParseDependencyType(attrs["type"]),
		Relation: descriptor.Relation(strings.ToLower(attrs["rel"])),
		Version:  attrs["version"],
		Channel:  attrs["channel"],
		Optional: attrs["optional"] == "yes",
		Name:     attrs["name"],
	})
}

// appendDependency adds dep to the open group, or to the package when no group
// is open.
func (c *parseContext) appendDependency(dep descriptor.Dependency) {
	if c.inGroup() {
		group := &c.pkg.Groups[c.groupIdx]
		group.Dependencies = append(group.Dependencies, dep)
		c.depIdx = len(group.Dependencies) - 1
		return
	}
	c.pkg.Dependencies = append(c.pkg.Dependencies, dep)
	c.depIdx = len(c.pkg.Dependencies) - 1
}

func (c *parseContext) inGroup() bool {
	for _, el := range c.elements {
		if el == "group" {
			return c.groupIdx >= 0
		}
	}
	return false
}

func (c *parseContext) currentDependency() *descriptor.Dependency {
	if c.depIdx < 0 {
		return nil
	}
	if c.inGroup() {
		deps := c.pkg.Groups[c.groupIdx].Dependencies
		if c.depIdx < len(deps) {
			return &deps[c.depIdx]
		}
		return nil
	}
	if c.depIdx < len(c.pkg.Dependencies) {
		return &c.pkg.Dependencies[c.depIdx]
	}
	return nil
}

func (c *parseContext) currentMaintainer() *descriptor.Maintainer {
	if c.maintainerIdx < 0 || c.maintainerIdx >= len(c.pkg.Maintainers) {
		return nil
	}
	return &c.pkg.Maintainers[c.maintainerIdx]
}

func (c *parseContext) currentRelease() *descriptor.ChangelogEntry {
	if c.changelogIdx < 0 || c.changelogIdx >= len(c.pkg.Changelog) {
		return nil
	}
	return &c.pkg.Changelog[c.changelogIdx]
}

// finish derives fields the document leaves implicit and returns the package.
func (c *parseContext) finish() *descriptor.Package {
	pkg := c.pkg
	if pkg.ReleaseKind == "" {
		pkg.ReleaseKind = inferReleaseKind(pkg.Files)
	}
	if len(pkg.Provides) == 0 {
		pkg.Provides = nil
	}
	return pkg
}

func inferReleaseKind(files []descriptor.FileEntry) descriptor.ReleaseKind {
	kind := descriptor.ReleasePHP
	for _, f := range files {
		switch {
		case f.Role.IsSource():
			return descriptor.ReleaseExtSrc
		case f.Role == descriptor.RoleExt:
			kind = descriptor.ReleaseExtBin
		}
	}
	return kind
}
