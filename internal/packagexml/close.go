package packagexml

import (
	"strings"

	"github.com/conn-castle/pearl/internal/descriptor"
)

func isMaintainerElement(name string) bool {
	switch name {
	case "maintainer", "lead", "developer", "contributor", "helper":
		return true
	}
	return false
}

// closeScope is the parser state a closing element is interpreted against.
type closeScope struct {
	// topLevel is set for direct children of the root <package>.
	topLevel    bool
	inChangelog bool
	// inTypedDependency is set while a 2.0 dependency element is open.
	inTypedDependency bool
	fileNamed         bool
}

// closeUpdate applies the effect of one closing element to the parse state.
type closeUpdate func(c *parseContext)

// closeElement maps a closing element, its parent, the character data it
// enclosed and the surrounding scope onto the update it implies. It returns
// nil for elements the descriptor does not record.
func closeElement(element, parent, raw string, scope closeScope) closeUpdate {
	text := strings.TrimSpace(raw)

	if scope.inTypedDependency {
		if isTypedDependencyElement(element) {
			return func(c *parseContext) { c.closeTypedDependency() }
		}
		return typedDependencyField(element, text)
	}

	if isMaintainerElement(parent) {
		return maintainerField(element, text)
	}

	switch element {
	case "name":
		if scope.topLevel {
			return func(c *parseContext) { c.pkg.Name = text }
		}
	case "channel":
		if scope.topLevel {
			return func(c *parseContext) { c.pkg.Channel = text }
		}
	case "summary":
		if scope.topLevel {
			return func(c *parseContext) { c.pkg.Summary = text }
		}
	case "description":
		if scope.topLevel {
			description := unIndent(raw)
			return func(c *parseContext) { c.pkg.Description = description }
		}
	case "version":
		if text == "" {
			return nil
		}
		return releaseField(scope,
			func(e *descriptor.ChangelogEntry) { e.Version = text },
			func(p *descriptor.Package) { p.Version = text })
	case "date":
		return releaseField(scope,
			func(e *descriptor.ChangelogEntry) { e.Date = text },
			func(p *descriptor.Package) { p.ReleaseDate = text })
	case "state":
		return releaseField(scope,
			func(e *descriptor.ChangelogEntry) { e.State = text },
			func(p *descriptor.Package) { p.ReleaseState = text })
	case "license":
		return releaseField(scope,
			func(e *descriptor.ChangelogEntry) { e.License = text },
			func(p *descriptor.Package) { p.ReleaseLicense = text })
	case "notes":
		notes := unIndent(raw)
		return releaseField(scope,
			func(e *descriptor.ChangelogEntry) { e.Notes = notes },
			func(p *descriptor.Package) { p.ReleaseNotes = notes })
	case "warnings":
		return releaseField(scope,
			func(e *descriptor.ChangelogEntry) { e.Warnings = text },
			func(p *descriptor.Package) { p.ReleaseWarnings = text })
	case "release":
		// 2.0 layout: <version><release>1.2.0</release></version> and
		// <stability><release>stable</release></stability>, both at the top
		// level and inside a changelog entry.
		switch parent {
		case "version":
			if text == "" {
				return nil
			}
			return releaseField(scope,
				func(e *descriptor.ChangelogEntry) { e.Version = text },
				func(p *descriptor.Package) { p.Version = text })
		case "stability":
			if text == "" {
				return nil
			}
			return releaseField(scope,
				func(e *descriptor.ChangelogEntry) { e.State = text },
				func(p *descriptor.Package) { p.ReleaseState = text })
		case "changelog":
			return func(c *parseContext) { c.changelogIdx = -1 }
		}
	case "dep":
		if scope.inChangelog {
			return nil
		}
		return func(c *parseContext) {
			if dep := c.currentDependency(); dep != nil && dep.Name == "" {
				dep.Name = text
			}
		}
	case "group":
		return func(c *parseContext) { c.groupIdx = -1 }
	case "dir":
		if scope.inChangelog {
			return nil
		}
		return func(c *parseContext) {
			if len(c.dirs) > 0 {
				c.dirs = c.dirs[:len(c.dirs)-1]
			}
		}
	case "file":
		if scope.inChangelog || scope.fileNamed || text == "" {
			return func(c *parseContext) { c.fileNamedOpen = false }
		}
		return func(c *parseContext) {
			c.addFile(text, c.fileAttrs)
			c.fileNamedOpen = false
		}
	case "maintainer", "lead", "developer", "contributor", "helper":
		return func(c *parseContext) {
			if m := c.currentMaintainer(); m != nil && m.Role == "" {
				m.Role = "lead"
			}
			c.maintainerIdx = -1
		}
	case "changelog":
		return func(c *parseContext) { c.inChangelog = false }
	}
	return nil
}

func maintainerField(element, text string) closeUpdate {
	var set func(m *descriptor.Maintainer)
	switch element {
	case "user":
		set = func(m *descriptor.Maintainer) { m.Handle = text }
	case "name":
		set = func(m *descriptor.Maintainer) { m.Name = text }
	case "email":
		set = func(m *descriptor.Maintainer) { m.Email = text }
	case "role":
		set = func(m *descriptor.Maintainer) { m.Role = text }
	default:
		return nil
	}
	return func(c *parseContext) {
		if m := c.currentMaintainer(); m != nil {
			set(m)
		}
	}
}

func typedDependencyField(element, text string) closeUpdate {
	var set func(d *typedDependency)
	switch element {
	case "name", "pattern":
		set = func(d *typedDependency) { d.name = text }
	case "channel":
		set = func(d *typedDependency) { d.channel = text }
	case "min":
		set = func(d *typedDependency) { d.min = text }
	case "max":
		set = func(d *typedDependency) { d.max = text }
	case "exclude":
		set = func(d *typedDependency) { d.exclude = append(d.exclude, text) }
	case "conflicts":
		set = func(d *typedDependency) { d.conflicts = true }
	default:
		return nil
	}
	return func(c *parseContext) {
		if c.typedDep != nil {
			set(c.typedDep)
		}
	}
}

// releaseField routes a release-scoped value to the open changelog entry
// while inside <changelog>, and to the package otherwise.
func releaseField(scope closeScope, entry func(*descriptor.ChangelogEntry), pkg func(*descriptor.Package)) closeUpdate {
	if scope.inChangelog {
		return func(c *parseContext) {
			if e := c.currentRelease(); e != nil {
				entry(e)
			}
		}
	}
	return func(c *parseContext) { pkg(c.pkg) }
}
