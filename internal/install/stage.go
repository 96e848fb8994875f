package install

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/role"
	"github.com/conn-castle/pearl/internal/transaction"
	"github.com/conn-castle/pearl/internal/warnings"
)

type stageOutcome int

const (
	staged stageOutcome = iota
	sourceOnly
	skippedPlatform
)

// stagedFileMode is the mode temp copies are created with before the final
// chmod is applied.
const stagedFileMode = 0o600

// stageFile copies one file next to its destination and queues the chmod,
// rename and bookkeeping operations that put it in place on commit.
func (i *Installer) stageFile(pkg *descriptor.Package, file descriptor.FileEntry, resolver role.Resolver, opts Options, res *Result) (stageOutcome, error) {
	if file.Platform != "" && !i.platform.Match(file.Platform) {
		i.logger.Debug(fmt.Sprintf(messages.InstallSkippedPlatformFmt, file.Path, file.Platform))
		return skippedPlatform, nil
	}
	placement, err := resolver.Resolve(pkg, file)
	if errors.Is(err, role.ErrSourceOnly) {
		return sourceOnly, nil
	}
	if err != nil {
		return 0, err
	}

	if err := i.mkdirAll(path.Dir(placement.Final)); err != nil {
		return 0, err
	}
	data, err := i.sys.ReadFile(placement.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fsError(file.Path, messages.InstallSourceMissingFmt, err)
		}
		return 0, fsError(placement.Source, messages.InstallReadFailedFmt, err)
	}
	// The checksum covers the shipped contents, before substitution.
	sum := md5.Sum(data)
	if len(file.Replacements) > 0 {
		data = i.replace(pkg, file, data, res)
	}
	if err := i.sys.WriteFile(placement.Temp, data, stagedFileMode); err != nil {
		_ = i.sys.Remove(placement.Temp)
		return 0, fsError(placement.Temp, messages.InstallWriteFailedFmt, err)
	}

	if file.MD5Sum != "" {
		actual := hex.EncodeToString(sum[:])
		if !strings.EqualFold(actual, strings.TrimSpace(file.MD5Sum)) {
			if !opts.Force {
				_ = i.sys.Remove(placement.Temp)
				return 0, &ChecksumError{File: placement.Final, Expected: file.MD5Sum, Actual: actual}
			}
			res.warn(warnings.Warning{
				Code:     warnings.CodeChecksumMismatchForced,
				Subject:  placement.Final,
				Message:  fmt.Sprintf(messages.WarningsChecksumForcedFmt, placement.Final),
				Fix:      messages.WarningsChecksumForcedFix,
				Source:   warnings.SourcePackage,
				Severity: warnings.SeverityCritical,
			})
		}
	}

	mode := i.cfg.Mode(placement.Executable, pkg.ChannelOrDefault())
	i.tx.Append(transaction.Chmod(mode, placement.Temp))
	if err := i.sys.Chmod(placement.Temp, mode); err != nil {
		i.logger.Warn(fmt.Sprintf(messages.InstallChmodFailedFmt, placement.Temp), "err", err)
	}
	i.tx.Append(transaction.Rename(placement.Temp, placement.Final))
	i.tx.Append(transaction.InstalledAs(file.Path, placement.InstalledAs, placement.BaseDir, placement.RelDir))
	i.logger.Debug("staged", "file", file.Path, "dest", placement.Final)
	return staged, nil
}

// mkdirAll creates dir and its missing parents, queueing a mkdir operation for
// each one so rollback can remove them again.
func (i *Installer) mkdirAll(dir string) error {
	var missing []string
	for d := dir; ; {
		if _, err := i.sys.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
		parent := path.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	for j := len(missing) - 1; j >= 0; j-- {
		d := missing[j]
		if err := i.sys.Mkdir(d, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
			return fsError(d, messages.InstallMkdirFailedFmt, err)
		}
		i.tx.Append(transaction.Mkdir(d))
		i.logger.Debug("+ mkdir " + d)
	}
	return nil
}

// replace applies file's replacement directives in declaration order. Each
// substitution sees the output of the previous one. Invalid directives are
// logged and skipped.
func (i *Installer) replace(pkg *descriptor.Package, file descriptor.FileEntry, data []byte, res *Result) []byte {
	content := string(data)
	applied := 0
	for _, r := range file.Replacements {
		value, ok := i.replacementValue(pkg, r)
		if !ok || r.From == "" {
			msg := fmt.Sprintf(messages.InstallInvalidReplacementFmt, r.Kind, r.To)
			i.logger.Warn(msg, "file", file.Path)
			res.warn(warnings.Warning{
				Code:    warnings.CodeReplacementInvalid,
				Subject: file.Path,
				Message: msg,
				Fix:     messages.WarningsReplacementInvalidFix,
				Source:  warnings.SourcePackage,
			})
			continue
		}
		content = strings.ReplaceAll(content, r.From, value)
		applied++
	}
	i.logger.Debug("substitutions applied", "file", file.Path, "count", applied)
	return []byte(content)
}

func (i *Installer) replacementValue(pkg *descriptor.Package, r descriptor.Replacement) (string, bool) {
	switch r.Kind {
	case descriptor.ReplacePHPConst:
		if !validConstantName(r.To) {
			return "", false
		}
		value, ok := i.constants[r.To]
		return value, ok
	case descriptor.ReplacePearConfig:
		channel := pkg.ChannelOrDefault()
		if r.To == "master_server" {
			return channel, true
		}
		if _, ok := config.LookupField(r.To); !ok {
			return "", false
		}
		return i.cfg.Get(r.To, channel), true
	case descriptor.ReplacePackageInfo:
		return pkg.Field(r.To)
	default:
		return "", false
	}
}

func validConstantName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}
