package install

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/pearl/internal/build"
	"github.com/conn-castle/pearl/internal/config"
	"github.com/conn-castle/pearl/internal/depcheck"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/platform"
	"github.com/conn-castle/pearl/internal/registry"
	"github.com/conn-castle/pearl/internal/transaction"
)

// faultSystem is a test helper that allows deterministic error injection for the
// installer System interface without chmod-based permission tricks.
type faultSystem struct {
	base      System
	readErrs  map[string]error
	writeErrs map[string]error
	mkdirErrs map[string]error
}

func newFaultSystem(base System) *faultSystem {
	return &faultSystem{
		base:      base,
		readErrs:  map[string]error{},
		writeErrs: map[string]error{},
		mkdirErrs: map[string]error{},
	}
}

func normalizePath(path string) string {
	return filepath.Clean(path)
}

func (f *faultSystem) Stat(name string) (os.FileInfo, error) {
	return f.base.Stat(name)
}

func (f *faultSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := f.readErrs[normalizePath(name)]; ok {
		return nil, err
	}
	return f.base.ReadFile(name)
}

func (f *faultSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err, ok := f.writeErrs[normalizePath(name)]; ok {
		return err
	}
	return f.base.WriteFile(name, data, perm)
}

func (f *faultSystem) Mkdir(name string, perm os.FileMode) error {
	if err, ok := f.mkdirErrs[normalizePath(name)]; ok {
		return err
	}
	return f.base.Mkdir(name, perm)
}

func (f *faultSystem) Chmod(name string, mode os.FileMode) error {
	return f.base.Chmod(name, mode)
}

func (f *faultSystem) Remove(name string) error {
	return f.base.Remove(name)
}

// readOnlyTx reports chosen directories as unwritable to the transaction.
type readOnlyTx struct {
	transaction.RealSystem
	dirs map[string]bool
}

func (r readOnlyTx) Writable(path string) bool {
	if r.dirs[filepath.Clean(path)] {
		return false
	}
	return r.RealSystem.Writable(path)
}

// failingRegistry rejects writes after files are committed.
type failingRegistry struct {
	registry.Registry
}

func (failingRegistry) AddPackage(*descriptor.Package) error {
	return errors.New("registry is read-only")
}

// fakeBuilder returns prepared modules instead of compiling.
type fakeBuilder struct {
	built []build.Built
	err   error
	calls int
}

func (b *fakeBuilder) Build(_ context.Context, _ *descriptor.Package, _ string, progress build.Progress) ([]build.Built, error) {
	b.calls++
	if progress != nil {
		progress(build.ProgressOutput, "compiling")
	}
	return b.built, b.err
}

type fixture struct {
	root    string
	src     string
	cfg     *config.Config
	reg     *registry.FileStore
	runtime *depcheck.StaticRuntime
	sys     *faultSystem
	deps    Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "usr", "share", "php"), 0o755))
	reg, err := registry.NewFileStore(filepath.Join(t.TempDir(), "registry"))
	require.NoError(t, err)
	rt := &depcheck.StaticRuntime{
		Version:    "5.1.2",
		Extensions: map[string]string{"pcre": "5.1.2"},
		Signature:  platform.Signature{OS: "linux", Release: "6.1", CPU: "x86_64"},
	}
	f := &fixture{
		root:    root,
		src:     t.TempDir(),
		cfg:     config.New("/usr"),
		reg:     reg,
		runtime: rt,
		sys:     newFaultSystem(RealSystem{}),
	}
	f.deps = Deps{
		Config:    f.cfg,
		Registry:  reg,
		Runtime:   rt,
		Constants: map[string]string{"PHP_EOL": "\n", "PEARL_TEST": "42"},
		System:    f.sys,
	}
	return f
}

func (f *fixture) installer(t *testing.T) *Installer {
	t.Helper()
	inst, err := New(f.deps)
	require.NoError(t, err)
	return inst
}

func (f *fixture) opts() Options {
	return Options{InstallRoot: f.root}
}

func (f *fixture) path(installedAs string) string {
	return filepath.Join(f.root, filepath.FromSlash(installedAs))
}

func phpPackage(name string, version string, files ...descriptor.FileEntry) *descriptor.Package {
	if len(files) == 0 {
		files = []descriptor.FileEntry{{Path: "lib.php", Role: descriptor.RolePHP}}
	}
	return &descriptor.Package{
		Name:         name,
		Summary:      name + " package",
		Version:      version,
		ReleaseState: "stable",
		Maintainers:  []descriptor.Maintainer{{Handle: "lead", Role: "lead"}},
		Files:        files,
	}
}
