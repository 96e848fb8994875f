// Package registry records which packages are installed and which files they
// own.
package registry

import (
	"errors"

	"github.com/conn-castle/pearl/internal/descriptor"
)

// ErrNotFound is returned when a package is not registered.
var ErrNotFound = errors.New("package not registered")

// ErrExists is returned when adding a package that is already registered.
var ErrExists = errors.New("package already registered")

// Owner identifies the package that owns a file.
type Owner struct {
	Channel string
	Package string
}

func (o Owner) String() string {
	return o.Channel + "/" + o.Package
}

// Registry is the installed-package database.
type Registry interface {
	PackageExists(name string, channel string) (bool, error)
	Package(name string, channel string) (*descriptor.Package, error)
	AddPackage(pkg *descriptor.Package) error
	UpdatePackage(pkg *descriptor.Package) error
	DeletePackage(name string, channel string) error
	// CheckFileMap returns, keyed by file path, the registered owner of every
	// entry in files whose destination is already claimed.
	CheckFileMap(files []descriptor.FileEntry) (map[string]Owner, error)
	Packages() ([]*descriptor.Package, error)
}
