package install

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/packagexml"
	"github.com/conn-castle/pearl/internal/registry"
	"github.com/conn-castle/pearl/internal/role"
	"github.com/conn-castle/pearl/internal/transaction"
	"github.com/conn-castle/pearl/internal/warnings"
)

// Install installs or upgrades the package described by src.
//
// Dependencies and file conflicts are checked first, then every file is staged
// and the staged set is committed as one unit. Extension sources are built
// before the commit. Once files are committed the package is registered; a
// registration failure is returned as a RegistrationError together with the
// result, and the committed files stay in place.
func (i *Installer) Install(ctx context.Context, src Source, opts Options) (*Result, error) {
	pkg, sourceDir, err := load(src)
	if err != nil {
		return nil, err
	}
	pkg.RequestedGroup = opts.RequestedGroup
	key := pkg.Key()
	channel := pkg.ChannelOrDefault()
	logger := i.logger.With("package", key)
	res := &Result{Package: pkg}

	if !opts.NoDeps && (pkg.HasDeps() || opts.RequestedGroup != "") {
		if err := i.checkDependencies(pkg, opts, res); err != nil {
			return nil, err
		}
	}
	if err := i.checkConflicts(pkg, opts, res); err != nil {
		return nil, err
	}

	if err := i.tx.Begin(pkg); err != nil {
		return nil, err
	}
	exists, err := i.registry.PackageExists(pkg.Name, channel)
	if err != nil {
		return nil, err
	}
	switch {
	case !opts.Upgrade && exists && !opts.Force:
		return nil, fmt.Errorf(messages.InstallAlreadyInstalledFmt+": %w", key, ErrAlreadyInstalled)
	case opts.Upgrade && exists:
		previous, err := i.registry.Package(pkg.Name, channel)
		if err != nil {
			return nil, err
		}
		cmp, err := descriptor.CompareVersions(pkg.Version, previous.Version)
		if err != nil {
			return nil, fmt.Errorf(messages.InstallVersionCompareFmt, key, err)
		}
		if cmp <= 0 && !opts.Force {
			return nil, fmt.Errorf(messages.InstallNotNewerFmt+": %w", pkg.Version, previous.Version, ErrNotNewer)
		}
		res.Upgraded = true
		res.Previous = previous.Version
		if !opts.RegisterOnly {
			i.queueDeletes(previous, opts.InstallRoot)
		}
	}

	if !opts.RegisterOnly {
		if err := i.stagePackage(ctx, pkg, sourceDir, opts, res); err != nil {
			i.tx.Rollback()
			return nil, err
		}
	}

	logger.Debug("committing", "operations", i.tx.Len())
	if err := i.tx.Commit(); err != nil {
		i.tx.Rollback()
		return nil, err
	}
	if !opts.RegisterOnly {
		pkg.RetainInstalled()
	}

	if err := i.register(pkg, opts); err != nil {
		return res, &RegistrationError{Package: key, Err: err}
	}
	if res.Upgraded {
		logger.Info("upgraded", "from", res.Previous, "to", pkg.Version)
	} else {
		logger.Info("installed", "version", pkg.Version)
	}
	return res, nil
}

func load(src Source) (*descriptor.Package, string, error) {
	if src.Package != nil {
		if err := src.Package.Validate(); err != nil {
			return nil, "", err
		}
		return src.Package, src.Dir, nil
	}
	if strings.TrimSpace(src.DescriptorPath) == "" {
		return nil, "", errors.New(messages.InstallSourceRequired)
	}
	pkg, err := packagexml.ParseFile(src.DescriptorPath)
	if err != nil {
		return nil, "", err
	}
	return pkg, filepath.Dir(src.DescriptorPath), nil
}

func (i *Installer) checkDependencies(pkg *descriptor.Package, opts Options, res *Result) error {
	if pkg.IsLegacy() {
		report, err := i.deps.CheckLegacy(pkg)
		if err != nil {
			return err
		}
		if report.HasFailures() {
			if !opts.Soft {
				i.logger.Error(strings.TrimPrefix(report.Messages, "\n"))
			}
			return report.Err(pkg)
		}
		if !opts.Soft {
			for _, f := range report.Optional {
				res.warn(optionalWarning(pkg, f.Message))
			}
		}
		return nil
	}

	report, err := i.deps.CheckTyped(pkg, opts.RequestedGroup)
	if err != nil {
		return err
	}
	if !opts.Soft {
		for _, msg := range report.Warnings {
			res.warn(optionalWarning(pkg, msg))
		}
	}
	return report.Err()
}

func optionalWarning(pkg *descriptor.Package, msg string) warnings.Warning {
	return warnings.Warning{
		Code:              warnings.CodeOptionalDependency,
		Subject:           pkg.Key(),
		Message:           msg,
		Fix:               messages.WarningsOptionalDepFix,
		Source:            warnings.SourcePackage,
		NoiseSuppressible: true,
	}
}

// checkConflicts fails when another package owns one of pkg's destinations.
// Files owned by the same package are an upgrade, not a conflict. With Force
// the conflicts are reported as warnings instead.
func (i *Installer) checkConflicts(pkg *descriptor.Package, opts Options, res *Result) error {
	found, err := i.registry.CheckFileMap(pkg.Files)
	if err != nil {
		return err
	}
	for path, owner := range found {
		if strings.EqualFold(owner.Package, pkg.Name) && strings.EqualFold(owner.Channel, pkg.ChannelOrDefault()) {
			delete(found, path)
		}
	}
	if len(found) == 0 {
		return nil
	}
	if !opts.Force {
		return &ConflictError{Package: pkg.Key(), Conflicts: found}
	}
	for path, owner := range found {
		res.warn(warnings.Warning{
			Code:    warnings.CodeConflictForced,
			Subject: path,
			Message: fmt.Sprintf(messages.WarningsConflictForcedFmt, path, owner.String()),
			Fix:     messages.WarningsConflictForcedFix,
			Source:  warnings.SourceRegistry,
		})
	}
	return nil
}

// queueDeletes queues removal of every file prev recorded as installed.
func (i *Installer) queueDeletes(prev *descriptor.Package, root string) {
	for _, f := range prev.InstalledFiles() {
		i.tx.Append(transaction.Delete(role.PrependRoot(f.InstalledAs, root)))
	}
}

// stagePackage stages every file of pkg and, when sources were shipped, builds
// them. Nothing is committed.
func (i *Installer) stagePackage(ctx context.Context, pkg *descriptor.Package, sourceDir string, opts Options, res *Result) error {
	channel := pkg.ChannelOrDefault()
	phpDir := role.PrependRoot(i.cfg.Get(config.KeyPHPDir, channel), opts.InstallRoot)
	if info, err := i.sys.Stat(phpDir); err != nil || !info.IsDir() {
		return fsError(phpDir, messages.InstallNoDestDirFmt, nil)
	}

	resolver := role.Resolver{Lookup: i.cfg, SourceDir: sourceDir, InstallRoot: opts.InstallRoot}
	sources := 0
	for _, file := range pkg.Files {
		outcome, err := i.stageFile(pkg, file, resolver, opts, res)
		if err != nil {
			if !opts.IgnoreErrors {
				return err
			}
			i.logger.Warn(fmt.Sprintf(messages.InstallIgnoredErrorFmt, err))
			res.warn(warnings.Warning{
				Code:    warnings.CodeFileSkipped,
				Subject: file.Path,
				Message: err.Error(),
				Fix:     messages.WarningsFileSkippedFix,
				Source:  warnings.SourceFilesystem,
			})
			continue
		}
		switch outcome {
		case staged:
			pkg.MarkInstalled(file.Path)
		case sourceOnly:
			sources++
		case skippedPlatform:
			res.Skipped = append(res.Skipped, file.Path)
		}
	}

	if sources > 0 && !opts.NoBuild {
		i.logger.Info(fmt.Sprintf(messages.InstallSourceFilesFmt, sources))
		if err := i.buildExtensions(ctx, pkg, sourceDir, resolver, res); err != nil {
			return err
		}
	}
	return nil
}

// register records pkg. A forced fresh install replaces the existing record.
func (i *Installer) register(pkg *descriptor.Package, opts Options) error {
	channel := pkg.ChannelOrDefault()
	exists, err := i.registry.PackageExists(pkg.Name, channel)
	if err != nil {
		return err
	}
	if !exists {
		return i.registry.AddPackage(pkg)
	}
	if opts.Upgrade {
		return i.registry.UpdatePackage(pkg)
	}
	if err := i.registry.DeletePackage(pkg.Name, channel); err != nil && !errors.Is(err, registry.ErrNotFound) {
		return err
	}
	return i.registry.AddPackage(pkg)
}
