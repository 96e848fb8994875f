package install

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/conn-castle/pearl/internal/build"
	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/role"
	"github.com/conn-castle/pearl/internal/transaction"
)

// buildExtensions compiles pkg's sources and stages every resulting module in
// the extension directory. Each module becomes an ext file entry carrying the
// API numbers the build reported.
func (i *Installer) buildExtensions(ctx context.Context, pkg *descriptor.Package, sourceDir string, resolver role.Resolver, res *Result) error {
	channel := pkg.ChannelOrDefault()
	builder := i.builder
	if builder == nil {
		builder = &build.CommandBuilder{
			Command:    i.cfg.Get(config.KeyBuildCommand, channel),
			ModulesDir: i.cfg.Get(config.KeyModulesDir, channel),
			Logger:     i.logger,
		}
	}
	built, err := builder.Build(ctx, pkg, sourceDir, i.progress)
	if err != nil {
		return err
	}

	for _, b := range built {
		name := filepath.Base(b.File)
		ext := strings.SplitN(name, ".", 2)[0]
		if _, loaded := i.runtime.ExtensionVersion(ext); loaded {
			return &build.BuildError{Package: pkg.Key(), Err: fmt.Errorf(messages.InstallExtensionLoadedFmt, ext)}
		}
		placement, err := resolver.ResolveBuilt(pkg, name)
		if err != nil {
			return err
		}
		if err := i.mkdirAll(path.Dir(placement.Final)); err != nil {
			return err
		}
		data, err := i.sys.ReadFile(b.File)
		if err != nil {
			return fsError(b.File, messages.InstallReadFailedFmt, err)
		}
		if err := i.sys.WriteFile(placement.Temp, data, stagedFileMode); err != nil {
			_ = i.sys.Remove(placement.Temp)
			return fsError(placement.Temp, messages.InstallWriteFailedFmt, err)
		}
		mode := i.cfg.Mode(placement.Executable, channel)
		i.tx.Append(transaction.Chmod(mode, placement.Temp))
		if err := i.sys.Chmod(placement.Temp, mode); err != nil {
			i.logger.Warn(fmt.Sprintf(messages.InstallChmodFailedFmt, placement.Temp), "err", err)
		}
		i.tx.Append(transaction.Rename(placement.Temp, placement.Final))

		entry := descriptor.FileEntry{Path: name, Role: descriptor.RoleExt, APIVersions: b.APIVersions}
		if existing, ok := pkg.File(name); ok {
			*existing = entry
		} else {
			pkg.Files = append(pkg.Files, entry)
		}
		pkg.MarkInstalled(name)
		i.tx.Append(transaction.InstalledAs(name, placement.InstalledAs, placement.BaseDir, placement.RelDir))
		res.Built = append(res.Built, b)
	}
	return nil
}

func (i *Installer) progress(kind string, line string) {
	switch kind {
	case build.ProgressOutput:
		i.logger.Debug(line)
	default:
		i.logger.Info(line)
	}
}
