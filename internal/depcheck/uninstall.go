package depcheck

import (
	"fmt"
	"strings"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
)

// UninstallReport lists installed packages that depend on a package being
// removed.
type UninstallReport struct {
	// Hard dependents require the package; removal must not proceed.
	Hard []string
	// Soft dependents declare it optional or inside a dependency group.
	Soft []string
}

// Err returns a DependencyError naming the hard dependents, or nil.
func (r UninstallReport) Err(key string) error {
	if len(r.Hard) == 0 {
		return nil
	}
	return &DependencyError{Summary: fmt.Sprintf(messages.DepUninstallFailedFmt, key), Problems: r.Hard}
}

// CheckUninstall scans the registry for packages depending on name in channel.
// Conflict declarations are not dependents.
func (c *Checker) CheckUninstall(name string, channel string) (UninstallReport, error) {
	var report UninstallReport
	if channel == "" {
		channel = descriptor.DefaultChannel
	}
	target := channel + "/" + name
	installed, err := c.registry.Packages()
	if err != nil {
		return report, fmt.Errorf(messages.DepRegistryUnavailableFmt, err)
	}
	for _, pkg := range installed {
		if strings.EqualFold(pkg.Name, name) && strings.EqualFold(pkg.ChannelOrDefault(), channel) {
			continue
		}
		hard, soft := false, false
		for _, dep := range pkg.Dependencies {
			if !dependsOn(dep, name, channel) {
				continue
			}
			if dep.Optional {
				soft = true
			} else {
				hard = true
			}
		}
		for _, group := range pkg.Groups {
			for _, dep := range group.Dependencies {
				if dependsOn(dep, name, channel) {
					soft = true
				}
			}
		}
		switch {
		case hard:
			report.Hard = append(report.Hard, fmt.Sprintf(messages.DepUninstallRequiredByFmt, pkg.Key(), target))
		case soft:
			report.Soft = append(report.Soft, fmt.Sprintf(messages.DepUninstallOptionalByFmt, pkg.Key(), target))
		}
	}
	return report, nil
}

func dependsOn(dep descriptor.Dependency, name string, channel string) bool {
	if descriptor.ParseDependencyType(string(dep.Type)) != descriptor.DepPackage || dep.Relation == descriptor.RelNot {
		return false
	}
	depChannel := dep.Channel
	if depChannel == "" {
		depChannel = descriptor.DefaultChannel
	}
	return strings.EqualFold(dep.Name, name) && strings.EqualFold(depChannel, channel)
}
