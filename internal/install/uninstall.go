package install

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/registry"
	"github.com/conn-castle/pearl/internal/role"
	"github.com/conn-castle/pearl/internal/transaction"
	"github.com/conn-castle/pearl/internal/warnings"
)

// Uninstall removes a registered package: its files, then any directories it
// created that are now empty, then its registry record.
//
// A package the registry does not know yields ErrNotInstalled without touching
// the filesystem, so repeating an uninstall is harmless.
func (i *Installer) Uninstall(_ context.Context, name string, channel string, opts Options) (*Result, error) {
	if strings.TrimSpace(channel) == "" {
		channel = i.defaultChannel()
	}
	pkg, err := i.registry.Package(name, channel)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, fmt.Errorf(messages.RegistryNotInstalledFmt+": %w", channel, name, ErrNotInstalled)
	}
	if err != nil {
		return nil, err
	}
	key := pkg.Key()
	logger := i.logger.With("package", key)
	res := &Result{Package: pkg}

	if !opts.NoDeps {
		report, err := i.deps.CheckUninstall(pkg.Name, channel)
		if err != nil {
			return nil, err
		}
		if err := report.Err(key); err != nil {
			return nil, err
		}
		for _, msg := range report.Soft {
			logger.Warn(msg)
			res.warn(warnings.Warning{
				Code:              warnings.CodeSoftDependent,
				Subject:           key,
				Message:           msg,
				Fix:               messages.WarningsSoftDependentFix,
				Source:            warnings.SourceRegistry,
				NoiseSuppressible: true,
			})
		}
	}

	if err := i.tx.Begin(pkg); err != nil {
		return nil, err
	}
	i.queueDeletes(pkg, opts.InstallRoot)
	if err := i.tx.Commit(); err != nil {
		i.tx.Rollback()
		return nil, fmt.Errorf("%s: %w", messages.InstallUninstallFailed, err)
	}

	if len(pkg.DirTree) > 0 {
		if err := i.removeDirtree(pkg, opts.InstallRoot); err != nil {
			logger.Warn("directories not removed", "err", err)
			res.warn(warnings.Warning{
				Code:              warnings.CodeDirectoryNotRemoved,
				Subject:           key,
				Message:           err.Error(),
				Fix:               messages.WarningsDirNotRemovedFix,
				Source:            warnings.SourceFilesystem,
				NoiseSuppressible: true,
			})
		}
	}

	if err := i.registry.DeletePackage(pkg.Name, channel); err != nil {
		return res, fmt.Errorf(messages.InstallUninstallRegistryFailedFmt, key, err)
	}
	logger.Info("uninstalled", "version", pkg.Version)
	return res, nil
}

// removeDirtree queues an rmdir for every directory the package created,
// deepest first, and commits. Directories that are not empty stay.
func (i *Installer) removeDirtree(pkg *descriptor.Package, root string) error {
	dirs := append([]string(nil), pkg.DirTree...)
	sort.Slice(dirs, func(a, b int) bool { return naturalLess(dirs[b], dirs[a]) })
	if err := i.tx.Begin(pkg); err != nil {
		return err
	}
	for _, dir := range dirs {
		i.tx.Append(transaction.Rmdir(role.PrependRoot(dir, root)))
	}
	if err := i.tx.Commit(); err != nil {
		i.tx.Rollback()
		return err
	}
	return nil
}

func (i *Installer) defaultChannel() string {
	if ch := strings.TrimSpace(i.cfg.Get(config.KeyDefaultChannel, "")); ch != "" {
		return ch
	}
	return descriptor.DefaultChannel
}
