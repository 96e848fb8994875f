package transaction

import (
	"os"

	"golang.org/x/sys/unix"
)

// System abstracts the filesystem calls a commit or rollback performs.
type System interface {
	Stat(name string) (os.FileInfo, error)
	Remove(name string) error
	Rename(oldpath string, newpath string) error
	Chmod(name string, mode os.FileMode) error
	Writable(path string) bool
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Remove removes a file or an empty directory.
func (RealSystem) Remove(name string) error {
	return os.Remove(name)
}

// Rename renames (moves) oldpath to newpath.
func (RealSystem) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Chmod changes the mode of the named file.
func (RealSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

// Writable reports whether the current user may write to path.
func (RealSystem) Writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}
