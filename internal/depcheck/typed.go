package depcheck

import (
	"fmt"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
)

// TypedReport is the outcome of CheckTyped.
type TypedReport struct {
	// Problems lists required dependencies that failed.
	Problems []string
	// Warnings lists optional dependencies that failed.
	Warnings []string
}

// Err returns a DependencyError when any required dependency failed.
func (r TypedReport) Err() error {
	if len(r.Problems) == 0 {
		return nil
	}
	return &DependencyError{Summary: messages.DepTypedFailed, Problems: r.Problems}
}

// CheckTyped checks the dependencies of a 2.0 format descriptor. Unknown
// dependency types fail. When group is non-empty the named dependency group is
// checked as well, its members as required; naming a group the package does
// not declare fails.
func (c *Checker) CheckTyped(pkg *descriptor.Package, group string) (TypedReport, error) {
	var report TypedReport
	for _, dep := range pkg.Dependencies {
		if err := c.checkTyped(dep, dep.Optional, &report); err != nil {
			return report, err
		}
	}
	if group == "" {
		return report, nil
	}
	g, ok := pkg.Group(group)
	if !ok {
		report.Problems = append(report.Problems, fmt.Sprintf(messages.DepGroupMissingFmt, group, pkg.Key()))
		return report, nil
	}
	for _, dep := range g.Dependencies {
		if err := c.checkTyped(dep, false, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (c *Checker) checkTyped(dep descriptor.Dependency, optional bool, report *TypedReport) error {
	code, msg, err := c.Check(dep)
	if err != nil {
		return err
	}
	switch {
	case code == Satisfied:
	case optional:
		report.Warnings = append(report.Warnings, msg+messages.DepOptionalSuffix)
	default:
		report.Problems = append(report.Problems, msg)
	}
	return nil
}
