package install

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/pearl/internal/build"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/testutil"
)

func extsrcPackage() *descriptor.Package {
	pkg := phpPackage("demo", "1.0",
		descriptor.FileEntry{Path: "demo.php", Role: descriptor.RolePHP},
		descriptor.FileEntry{Path: "demo.c", Role: descriptor.RoleSrc},
		descriptor.FileEntry{Path: "config.m4", Role: descriptor.RoleSrc},
	)
	pkg.ReleaseKind = descriptor.ReleaseExtSrc
	return pkg
}

func builtModule(t *testing.T) build.Built {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"modules/demo.so": "ELF"})
	return build.Built{
		File:        filepath.Join(dir, "modules", "demo.so"),
		APIVersions: map[string]string{"php_api": "20041225", "zend_mod_api": "20050617"},
	}
}

func TestInstallBuildsAndStagesExtensions(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"demo.php": "<?php\n", "demo.c": "int x;", "config.m4": "dnl"})
	builder := &fakeBuilder{built: []build.Built{builtModule(t)}}
	f.deps.Builder = builder

	res, err := f.installer(t).Install(context.Background(), FromPackage(extsrcPackage(), f.src), f.opts())
	require.NoError(t, err)
	assert.Equal(t, 1, builder.calls)
	require.Len(t, res.Built, 1)

	snap := testutil.Snapshot(t, f.root)
	assert.Equal(t, "644:ELF", snap["usr/lib/php/extensions/demo.so"])

	recorded, err := f.reg.Package("demo", "")
	require.NoError(t, err)
	require.Len(t, recorded.Files, 2)
	ext, ok := recorded.File("demo.so")
	require.True(t, ok)
	assert.Equal(t, descriptor.RoleExt, ext.Role)
	assert.Equal(t, "/usr/lib/php/extensions/demo.so", ext.InstalledAs)
	assert.Equal(t, "20041225", ext.APIVersions["php_api"])
	_, ok = recorded.File("demo.c")
	assert.False(t, ok)
}

func TestInstallNoBuildSkipsBuilder(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"demo.php": "<?php\n"})
	builder := &fakeBuilder{}
	f.deps.Builder = builder
	opts := f.opts()
	opts.NoBuild = true

	_, err := f.installer(t).Install(context.Background(), FromPackage(extsrcPackage(), f.src), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, builder.calls)
}

func TestInstallBuildFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"demo.php": "<?php\n"})
	f.deps.Builder = &fakeBuilder{err: &build.BuildError{Package: "pear.php.net/demo", Err: errors.New("make failed")}}
	before := testutil.Snapshot(t, f.root)
	inst := f.installer(t)

	_, err := inst.Install(context.Background(), FromPackage(extsrcPackage(), f.src), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, build.ErrBuild))
	assert.Equal(t, before, testutil.Snapshot(t, f.root))
	assert.Equal(t, 0, inst.Pending())
}

func TestInstallRejectsLoadedExtension(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"demo.php": "<?php\n"})
	f.runtime.Extensions["demo"] = "0.9"
	f.deps.Builder = &fakeBuilder{built: []build.Built{builtModule(t)}}
	before := testutil.Snapshot(t, f.root)

	_, err := f.installer(t).Install(context.Background(), FromPackage(extsrcPackage(), f.src), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, build.ErrBuild))
	assert.Contains(t, err.Error(), "Extension 'demo' already loaded. Please unload it in your php.ini file prior to install or upgrade it.")
	assert.Equal(t, before, testutil.Snapshot(t, f.root))
}
