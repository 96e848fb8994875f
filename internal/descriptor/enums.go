package descriptor

import "strings"

// Role is the declared purpose of a file; it selects the destination rule.
type Role string

// File roles.
const (
	RolePHP    Role = "php"
	RoleExt    Role = "ext"
	RoleDoc    Role = "doc"
	RoleData   Role = "data"
	RoleTest   Role = "test"
	RoleScript Role = "script"
	RoleSrc    Role = "src"
	RoleExtSrc Role = "extsrc"
)

// IsSource reports whether the role feeds the build pipeline instead of being
// copied.
func (r Role) IsSource() bool {
	return r == RoleSrc || r == RoleExtSrc
}

// DependencyType is the kind of requirement a dependency expresses.
type DependencyType string

// Dependency types. The typed checker accepts the long document names
// ("package", "extension") which ParseDependencyType folds onto these.
const (
	DepPackage   DependencyType = "pkg"
	DepExtension DependencyType = "ext"
	DepPHP       DependencyType = "php"
	DepProgram   DependencyType = "prog"
	DepLDLib     DependencyType = "ldlib"
	DepRTLib     DependencyType = "rtlib"
	DepOS        DependencyType = "os"
	DepArch      DependencyType = "arch"
	DepWebServer DependencyType = "websrv"
	DepSAPI      DependencyType = "sapi"
	DepZend      DependencyType = "zend"
)

// ParseDependencyType lower-cases raw and maps long names onto their short form.
// Unknown values are returned as-is so the checker can report them.
func ParseDependencyType(raw string) DependencyType {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case "package":
		return DepPackage
	case "extension":
		return DepExtension
	case "program":
		return DepProgram
	}
	return DependencyType(normalized)
}

// Relation is the comparison a dependency applies to its version.
type Relation string

// Dependency relations.
const (
	RelHas Relation = "has"
	RelEq  Relation = "eq"
	RelLt  Relation = "lt"
	RelLe  Relation = "le"
	RelGt  Relation = "gt"
	RelGe  Relation = "ge"
	RelNe  Relation = "ne"
	RelNot Relation = "not"
)

// NeedsVersion reports whether the relation compares against a version.
func (r Relation) NeedsVersion() bool {
	switch r {
	case RelEq, RelLt, RelLe, RelGt, RelGe, RelNe:
		return true
	}
	return false
}

// Symbol renders the relation as an operator for messages.
func (r Relation) Symbol() string {
	switch r {
	case RelEq:
		return "=="
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelGt:
		return ">"
	case RelGe:
		return ">="
	case RelNe:
		return "!="
	case RelNot:
		return "conflicts with"
	}
	return ""
}
