package depcheck

import (
	"fmt"
	"strings"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
)

// Finding is one dependency that did not check out.
type Finding struct {
	Dependency descriptor.Dependency
	Code       Code
	Message    string
}

// LegacyReport is the outcome of CheckLegacy.
type LegacyReport struct {
	Failed   []Finding
	Optional []Finding
	// Messages is the accumulated report text. Each failed entry is preceded by
	// a newline; when only optional entries failed it starts with the
	// "Optional dependencies:" header instead.
	Messages string
}

// HasFailures reports whether any required dependency failed.
func (r LegacyReport) HasFailures() bool { return len(r.Failed) > 0 }

// Err returns a DependencyError for failed required dependencies, or nil.
func (r LegacyReport) Err(pkg *descriptor.Package) error {
	if !r.HasFailures() {
		return nil
	}
	problems := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		problems = append(problems, f.Message)
	}
	return &DependencyError{Summary: fmt.Sprintf(messages.DepLegacyFailedFmt, pkg.Key()), Problems: problems}
}

// CheckLegacy checks every declared dependency of a 1.0 format descriptor.
// Required failures make the report fail; optional failures are reported
// under their own header and do not.
func (c *Checker) CheckLegacy(pkg *descriptor.Package) (LegacyReport, error) {
	var report LegacyReport
	if !pkg.HasDeps() {
		return report, nil
	}
	for _, dep := range pkg.Dependencies {
		code, msg, err := c.Check(dep)
		if err != nil {
			return report, err
		}
		if code == Satisfied {
			continue
		}
		finding := Finding{Dependency: dep, Code: code, Message: msg}
		if dep.Optional {
			report.Optional = append(report.Optional, finding)
		} else {
			report.Failed = append(report.Failed, finding)
		}
	}

	if len(report.Failed) > 0 {
		var b strings.Builder
		for _, f := range report.Failed {
			switch f.Code {
			case Missing:
				if failureClass(f) == descriptor.DepPackage {
					c.logger.Debug("missing package dependency", "name", f.Dependency.Name)
				}
			case UpgradeMinor:
				if failureClass(f) == descriptor.DepPackage {
					c.logger.Debug("package dependency needs upgrade", "name", f.Dependency.Name)
				}
			}
			b.WriteString("\n")
			b.WriteString(f.Message)
		}
		report.Messages = b.String()
		return report, nil
	}

	if len(report.Optional) > 0 {
		var b strings.Builder
		b.WriteString(messages.DepOptionalHeader)
		for _, f := range report.Optional {
			b.WriteString("\n")
			b.WriteString(f.Message)
		}
		report.Messages = b.String()
	}
	return report, nil
}

// failureClass always yields the package type; the declared dependency type
// is never consulted, so every failure is classified as a package dependency.
func failureClass(Finding) descriptor.DependencyType {
	return descriptor.DepPackage
}
