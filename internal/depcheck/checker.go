// Package depcheck validates package dependencies against the registry and the
// runtime, for both descriptor generations, and finds installed packages that
// would break if a package were removed.
package depcheck

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/platform"
	"github.com/conn-castle/pearl/internal/registry"
)

// ErrDependency is wrapped by DependencyError.
var ErrDependency = errors.New("dependencies failed")

// DependencyError reports failed required dependencies.
type DependencyError struct {
	Summary  string
	Problems []string
}

func (e *DependencyError) Error() string {
	var b strings.Builder
	b.WriteString(e.Summary)
	for _, p := range e.Problems {
		b.WriteString("\n")
		b.WriteString(p)
	}
	return b.String()
}

// Unwrap returns ErrDependency.
func (e *DependencyError) Unwrap() error { return ErrDependency }

// Code classifies the outcome of a single dependency check.
type Code int

// Check outcomes.
const (
	Satisfied Code = iota
	Missing
	Conflict
	UpgradeMinor
	UpgradeMajor
	BadDependency
)

func (c Code) String() string {
	switch c {
	case Satisfied:
		return "satisfied"
	case Missing:
		return "missing"
	case Conflict:
		return "conflict"
	case UpgradeMinor:
		return "upgrade-minor"
	case UpgradeMajor:
		return "upgrade-major"
	case BadDependency:
		return "bad-dependency"
	}
	return "unknown"
}

type validator func(c *Checker, dep descriptor.Dependency) (Code, string, error)

// validators is the closed table of dependency types. Types that describe
// things this installer cannot observe are accepted as satisfied.
var validators = map[descriptor.DependencyType]validator{
	descriptor.DepPackage:   (*Checker).checkPackage,
	descriptor.DepExtension: (*Checker).checkExtension,
	descriptor.DepPHP:       (*Checker).checkPHP,
	descriptor.DepProgram:   (*Checker).checkProgram,
	descriptor.DepOS:        (*Checker).checkOS,
	descriptor.DepArch:      (*Checker).checkArch,
	descriptor.DepLDLib:     unobservable,
	descriptor.DepRTLib:     unobservable,
	descriptor.DepWebServer: unobservable,
	descriptor.DepSAPI:      unobservable,
	descriptor.DepZend:      unobservable,
}

// Checker validates dependencies.
type Checker struct {
	registry registry.Registry
	runtime  Runtime
	logger   *log.Logger
}

// New returns a checker. A nil runtime uses NewStaticRuntime("") and a nil
// logger discards output.
func New(reg registry.Registry, rt Runtime, logger *log.Logger) (*Checker, error) {
	if reg == nil {
		return nil, errors.New(messages.DepCheckerRegistryRequired)
	}
	if rt == nil {
		rt = NewStaticRuntime("")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Checker{registry: reg, runtime: rt, logger: logger}, nil
}

// Check runs the validator for dep's type.
func (c *Checker) Check(dep descriptor.Dependency) (Code, string, error) {
	v, ok := validators[descriptor.ParseDependencyType(string(dep.Type))]
	if !ok {
		return BadDependency, fmt.Sprintf(messages.DepUnknownTypeFmt, dep.Type), nil
	}
	code, msg, err := v(c, dep)
	if err != nil {
		return code, msg, err
	}
	c.logger.Debug("dependency checked", "type", dep.Type, "name", dep.Name, "rel", dep.Relation, "version", dep.Version, "result", code)
	return code, msg, nil
}

func (c *Checker) checkPackage(dep descriptor.Dependency) (Code, string, error) {
	channel := dep.Channel
	if channel == "" {
		channel = descriptor.DefaultChannel
	}
	exists, err := c.registry.PackageExists(dep.Name, channel)
	if err != nil {
		return BadDependency, "", fmt.Errorf(messages.DepRegistryLookupFailedFmt, channel+"/"+dep.Name, err)
	}
	if !exists {
		if dep.Relation == descriptor.RelNot {
			return Satisfied, "", nil
		}
		if dep.Relation.NeedsVersion() {
			return Missing, fmt.Sprintf(messages.DepPackageVersionFmt, dep.Name, dep.Relation.Symbol(), dep.Version), nil
		}
		return Missing, fmt.Sprintf(messages.DepPackageMissingFmt, dep.Name), nil
	}
	if dep.Relation == descriptor.RelNot {
		return Conflict, fmt.Sprintf(messages.DepPackageConflictFmt, dep.Name), nil
	}
	if !dep.Relation.NeedsVersion() {
		return Satisfied, "", nil
	}
	installed, err := c.registry.Package(dep.Name, channel)
	if err != nil {
		return BadDependency, "", fmt.Errorf(messages.DepRegistryLookupFailedFmt, channel+"/"+dep.Name, err)
	}
	return compare(dep, installed.Version, fmt.Sprintf(messages.DepPackageVersionFmt, dep.Name, dep.Relation.Symbol(), dep.Version))
}

func (c *Checker) checkExtension(dep descriptor.Dependency) (Code, string, error) {
	version, loaded := c.runtime.ExtensionVersion(dep.Name)
	if !loaded {
		if dep.Relation == descriptor.RelNot {
			return Satisfied, "", nil
		}
		return Missing, fmt.Sprintf(messages.DepExtensionMissingFmt, dep.Name), nil
	}
	if dep.Relation == descriptor.RelNot {
		return Conflict, fmt.Sprintf(messages.DepExtensionConflictFmt, dep.Name), nil
	}
	if !dep.Relation.NeedsVersion() || version == "" {
		return Satisfied, "", nil
	}
	return compare(dep, version, fmt.Sprintf(messages.DepExtensionVersionFmt, dep.Name, dep.Relation.Symbol(), dep.Version))
}

// checkPHP treats an unknown runtime version as satisfied.
func (c *Checker) checkPHP(dep descriptor.Dependency) (Code, string, error) {
	have := c.runtime.PHPVersion()
	if have == "" || !dep.Relation.NeedsVersion() {
		return Satisfied, "", nil
	}
	return compare(dep, have, fmt.Sprintf(messages.DepPHPVersionFmt, dep.Relation.Symbol(), dep.Version, have))
}

func (c *Checker) checkProgram(dep descriptor.Dependency) (Code, string, error) {
	if c.runtime.HasProgram(dep.Name) {
		return Satisfied, "", nil
	}
	return Missing, fmt.Sprintf(messages.DepProgramMissingFmt, dep.Name), nil
}

func (c *Checker) checkOS(dep descriptor.Dependency) (Code, string, error) {
	matches := platform.Signature{OS: c.runtime.Platform().OS}.Match(dep.Name)
	if matches != (dep.Relation == descriptor.RelNot) {
		return Satisfied, "", nil
	}
	return Conflict, fmt.Sprintf(messages.DepOSUnsupportedFmt, dep.Name), nil
}

func (c *Checker) checkArch(dep descriptor.Dependency) (Code, string, error) {
	matches := c.runtime.Platform().Match(dep.Name)
	if matches != (dep.Relation == descriptor.RelNot) {
		return Satisfied, "", nil
	}
	return Conflict, fmt.Sprintf(messages.DepArchUnsupportedFmt, dep.Name), nil
}

func unobservable(*Checker, descriptor.Dependency) (Code, string, error) {
	return Satisfied, "", nil
}

// compare maps a failed version relation onto an outcome: a too-old version
// asks for an upgrade (major when the leading component differs), anything
// else conflicts.
func compare(dep descriptor.Dependency, have string, failure string) (Code, string, error) {
	ok, err := descriptor.SatisfiesRelation(have, dep.Relation, dep.Version)
	if err != nil {
		return BadDependency, fmt.Sprintf(messages.DepBadVersionFmt, dep.Type, dep.Name, err), nil
	}
	if ok {
		return Satisfied, "", nil
	}
	switch dep.Relation {
	case descriptor.RelGt, descriptor.RelGe:
		if major(have) < major(dep.Version) {
			return UpgradeMajor, failure, nil
		}
		return UpgradeMinor, failure, nil
	}
	return Conflict, failure, nil
}

func major(version string) int {
	n := 0
	for _, r := range version {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
