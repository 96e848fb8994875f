package transaction

import (
	"os"
	"path/filepath"
	"sort"
)

// faultSystem injects failures into the transaction System without relying on
// real permission bits, which root ignores.
type faultSystem struct {
	base        System
	readOnly    map[string]bool
	renameErrs  map[string]error
	removeCalls []string
}

func newFaultSystem() *faultSystem {
	return &faultSystem{
		base:       RealSystem{},
		readOnly:   map[string]bool{},
		renameErrs: map[string]error{},
	}
}

func (f *faultSystem) Stat(name string) (os.FileInfo, error) {
	return f.base.Stat(name)
}

func (f *faultSystem) Remove(name string) error {
	f.removeCalls = append(f.removeCalls, filepath.Clean(name))
	return f.base.Remove(name)
}

func (f *faultSystem) Rename(oldpath string, newpath string) error {
	if err, ok := f.renameErrs[filepath.Clean(oldpath)]; ok {
		return err
	}
	return f.base.Rename(oldpath, newpath)
}

func (f *faultSystem) Chmod(name string, mode os.FileMode) error {
	return f.base.Chmod(name, mode)
}

func (f *faultSystem) Writable(path string) bool {
	if f.readOnly[filepath.Clean(path)] {
		return false
	}
	return f.base.Writable(path)
}

// memRecorder is an in-memory Recorder.
type memRecorder struct {
	installed map[string]string
	dirs      map[string]bool
	resets    int
}

func newMemRecorder() *memRecorder {
	return &memRecorder{installed: map[string]string{}, dirs: map[string]bool{}}
}

func (m *memRecorder) SetInstalledAs(file string, installedAs string) {
	if installedAs == "" {
		delete(m.installed, file)
		return
	}
	m.installed[file] = installedAs
}

func (m *memRecorder) SetDirtree(dir string) { m.dirs[dir] = true }

func (m *memRecorder) ResetDirtree() {
	m.dirs = map[string]bool{}
	m.resets++
}

func (m *memRecorder) dirList() []string {
	out := make([]string, 0, len(m.dirs))
	for d := range m.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
