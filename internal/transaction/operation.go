package transaction

import (
	"fmt"
	"os"
)

// Kind identifies a queued file operation.
type Kind string

// Operation kinds.
const (
	KindRename      Kind = "rename"
	KindChmod       Kind = "chmod"
	KindDelete      Kind = "delete"
	KindRmdir       Kind = "rmdir"
	KindMkdir       Kind = "mkdir"
	KindInstalledAs Kind = "installed_as"
)

// Operation is one deferred filesystem or bookkeeping action.
type Operation struct {
	Kind Kind
	// Path is the subject: rename source, or the chmod/delete/rmdir/mkdir target.
	Path string
	// Target is the rename destination.
	Target string
	Mode   os.FileMode

	// installed_as fields.
	File        string
	InstalledAs string
	BaseDir     string
	RelDir      string
}

// Rename moves from to to, replacing an existing destination.
func Rename(from string, to string) Operation {
	return Operation{Kind: KindRename, Path: from, Target: to}
}

// Chmod sets mode on path.
func Chmod(mode os.FileMode, path string) Operation {
	return Operation{Kind: KindChmod, Path: path, Mode: mode}
}

// Delete removes path.
func Delete(path string) Operation {
	return Operation{Kind: KindDelete, Path: path}
}

// Rmdir removes path if it is empty.
func Rmdir(path string) Operation {
	return Operation{Kind: KindRmdir, Path: path}
}

// Mkdir records that staging created path; only rollback acts on it.
func Mkdir(path string) Operation {
	return Operation{Kind: KindMkdir, Path: path}
}

// InstalledAs records that file now lives at installedAs. baseDir is the role
// directory and relDir the installed directory relative to it.
func InstalledAs(file string, installedAs string, baseDir string, relDir string) Operation {
	return Operation{Kind: KindInstalledAs, File: file, InstalledAs: installedAs, BaseDir: baseDir, RelDir: relDir}
}

func (o Operation) String() string {
	switch o.Kind {
	case KindRename:
		return fmt.Sprintf("mv %s %s", o.Path, o.Target)
	case KindChmod:
		return fmt.Sprintf("chmod %o %s", o.Mode, o.Path)
	case KindDelete:
		return "rm " + o.Path
	case KindRmdir:
		return "rmdir " + o.Path
	case KindMkdir:
		return "mkdir " + o.Path
	case KindInstalledAs:
		return fmt.Sprintf("installed_as %s %s", o.File, o.InstalledAs)
	}
	return string(o.Kind)
}
