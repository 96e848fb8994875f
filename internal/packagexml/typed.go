package packagexml

import "github.com/conn-castle/pearl/internal/descriptor"

// typedDependency collects the children of one 2.0 <dependencies> entry such
// as <package> or <extension>.
type typedDependency struct {
	kind      descriptor.DependencyType
	optional  bool
	name      string
	channel   string
	min       string
	max       string
	exclude   []string
	conflicts bool
}

// typedDependencyKind maps a 2.0 dependency element onto its dependency type.
// <pearinstaller> yields an empty type: the installer version is not tracked.
func typedDependencyKind(element string) descriptor.DependencyType {
	switch element {
	case "php":
		return descriptor.DepPHP
	case "package", "subpackage":
		return descriptor.DepPackage
	case "extension":
		return descriptor.DepExtension
	case "os":
		return descriptor.DepOS
	case "arch":
		return descriptor.DepArch
	}
	return ""
}

func isTypedDependencyElement(name string) bool {
	return name == "pearinstaller" || typedDependencyKind(name) != ""
}

// opensTypedDependency reports whether the element just pushed starts a
// dependency entry under <dependencies><required>, <optional> or <group>.
func (c *parseContext) opensTypedDependency(name string) bool {
	if c.inChangelog || c.typedDep != nil || !isTypedDependencyElement(name) {
		return false
	}
	switch c.parent() {
	case "required", "optional", "group":
	default:
		return false
	}
	for _, el := range c.elements {
		if el == "dependencies" {
			return true
		}
	}
	return false
}

func (c *parseContext) closeTypedDependency() {
	dep := c.typedDep
	c.typedDep = nil
	if dep == nil || dep.kind == "" {
		return
	}
	for _, d := range dep.expand() {
		c.appendDependency(d)
	}
}

// expand turns the version bounds of a typed entry into relation-based
// dependencies: <min> becomes ge, <max> le and each <exclude> ne. A
// <conflicts/> entry becomes a single not relation and an unbounded entry a
// single has relation.
func (t *typedDependency) expand() []descriptor.Dependency {
	base := descriptor.Dependency{
		Type:     t.kind,
		Name:     t.name,
		Channel:  t.channel,
		Optional: t.optional,
	}
	if t.conflicts {
		base.Relation = descriptor.RelNot
		return []descriptor.Dependency{base}
	}
	var deps []descriptor.Dependency
	add := func(rel descriptor.Relation, version string) {
		d := base
		d.Relation = rel
		d.Version = version
		deps = append(deps, d)
	}
	if t.min != "" {
		add(descriptor.RelGe, t.min)
	}
	if t.max != "" {
		add(descriptor.RelLe, t.max)
	}
	for _, v := range t.exclude {
		add(descriptor.RelNe, v)
	}
	if len(deps) == 0 {
		base.Relation = descriptor.RelHas
		deps = append(deps, base)
	}
	return deps
}
