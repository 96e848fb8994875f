package install

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/pearl/internal/depcheck"
	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/registry"
	"github.com/conn-castle/pearl/internal/testutil"
	"github.com/conn-castle/pearl/internal/transaction"
	"github.com/conn-castle/pearl/internal/warnings"
)

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestNewRequiresConfigAndRegistry(t *testing.T) {
	f := newFixture(t)
	_, err := New(Deps{Registry: f.reg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install config is required")

	_, err = New(Deps{Config: f.cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install registry is required")
}

func TestInstallPHPFile(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "<?php\n"})
	inst := f.installer(t)
	assert.Equal(t, 0, inst.Pending())

	res, err := inst.Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), f.opts())
	require.NoError(t, err)
	assert.Equal(t, 0, inst.Pending())
	assert.False(t, res.Upgraded)

	snap := testutil.Snapshot(t, f.root)
	assert.Equal(t, "644:<?php\n", snap["usr/share/php/lib.php"])
	for name := range snap {
		assert.NotContains(t, name, ".tmp")
	}

	recorded, err := f.reg.Package("Foo", "")
	require.NoError(t, err)
	require.Len(t, recorded.Files, 1)
	assert.Equal(t, "/usr/share/php/lib.php", recorded.Files[0].InstalledAs)
	assert.Equal(t, []string{"/usr/share/php"}, recorded.DirTree)
}

func TestInstallHonoursUmask(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cfg.Set("umask", "0027", ""))
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x", "bin/run": "#!/bin/sh\n"})
	pkg := phpPackage("Foo", "1.0",
		descriptor.FileEntry{Path: "lib.php", Role: descriptor.RolePHP},
		descriptor.FileEntry{Path: "bin/run", Role: descriptor.RoleScript, InstallAs: "run"},
	)
	require.NoError(t, os.MkdirAll(f.path("/usr/bin"), 0o755))

	_, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.NoError(t, err)

	snap := testutil.Snapshot(t, f.root)
	assert.Equal(t, "640:x", snap["usr/share/php/lib.php"])
	assert.Equal(t, "750:#!/bin/sh\n", snap["usr/bin/run"])
}

func TestInstallCreatesAndRecordsDirectories(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"Foo/Bar/Baz.php": "baz"})
	pkg := phpPackage("Foo", "1.0", descriptor.FileEntry{Path: "Foo/Bar/Baz.php", Role: descriptor.RolePHP})

	_, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.NoError(t, err)

	assert.FileExists(t, f.path("/usr/share/php/Foo/Bar/Baz.php"))
	recorded, err := f.reg.Package("Foo", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/share/php/Foo", "/usr/share/php/Foo/Bar"}, recorded.DirTree)
}

func TestInstallFromDescriptorFile(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{
		"package.xml": `<?xml version="1.0"?>
<package version="1.0">
 <name>Foo</name>
 <summary>Foo package</summary>
 <maintainers><maintainer><user>lead</user><role>lead</role></maintainer></maintainers>
 <release>
  <version>1.0</version>
  <state>stable</state>
  <filelist><file role="php" name="lib.php"/></filelist>
 </release>
</package>
`,
		"lib.php": "<?php\n",
	})
	_, err := f.installer(t).Install(context.Background(), FromFile(filepath.Join(f.src, "package.xml")), f.opts())
	require.NoError(t, err)
	assert.FileExists(t, f.path("/usr/share/php/lib.php"))

	_, err = f.installer(t).Install(context.Background(), Source{}, f.opts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package source is required")
}

func TestInstallInvalidDescriptorHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	before := testutil.Snapshot(t, f.root)
	pkg := phpPackage("Foo", "")
	_, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, descriptor.ErrInvalid))
	assert.Equal(t, before, testutil.Snapshot(t, f.root))
}

func TestInstallReplacements(t *testing.T) {
	f := newFixture(t)
	original := "v=@VER@ dir=@DIR@ c=@C@ ch=@MS@ bad=@BAD@"
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": original})
	pkg := phpPackage("Foo", "1.2.3", descriptor.FileEntry{
		Path:   "lib.php",
		Role:   descriptor.RolePHP,
		MD5Sum: md5hex(original),
		Replacements: []descriptor.Replacement{
			{From: "@VER@", Kind: descriptor.ReplacePackageInfo, To: "version"},
			{From: "@DIR@", Kind: descriptor.ReplacePearConfig, To: "php_dir"},
			{From: "@C@", Kind: descriptor.ReplacePHPConst, To: "PEARL_TEST"},
			{From: "@MS@", Kind: descriptor.ReplacePearConfig, To: "master_server"},
			{From: "@BAD@", Kind: descriptor.ReplacePHPConst, To: "no-such;const"},
		},
	})

	res, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.NoError(t, err)

	data, err := os.ReadFile(f.path("/usr/share/php/lib.php"))
	require.NoError(t, err)
	assert.Equal(t, "v=1.2.3 dir=/usr/share/php c=42 ch=pear.php.net bad=@BAD@", string(data))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, warnings.CodeReplacementInvalid, res.Warnings[0].Code)
	assert.Equal(t, "invalid php-const replacement: no-such;const", res.Warnings[0].Message)
}

func TestReplacementsApplyInOrder(t *testing.T) {
	f := newFixture(t)
	inst := f.installer(t)
	pkg := phpPackage("Foo", "2.0")
	file := descriptor.FileEntry{Path: "lib.php", Replacements: []descriptor.Replacement{
		{From: "@A@", Kind: descriptor.ReplacePackageInfo, To: "name"},
		{From: "Foo", Kind: descriptor.ReplacePackageInfo, To: "version"},
		{From: "", Kind: descriptor.ReplacePackageInfo, To: "name"},
		{From: "@X@", Kind: descriptor.ReplacePackageInfo, To: "unknown"},
		{From: "@Y@", Kind: descriptor.ReplacePearConfig, To: "unknown"},
		{From: "@Z@", Kind: "other", To: "name"},
	}}
	res := &Result{}
	out := inst.replace(pkg, file, []byte("@A@"), res)
	assert.Equal(t, "2.0", string(out))
	assert.Len(t, res.Warnings, 4)
}

func TestInstallChecksumMismatchLeavesTreeUnchanged(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"a.php": "a", "Sub/b.php": "b"})
	pkg := phpPackage("Foo", "1.0",
		descriptor.FileEntry{Path: "a.php", Role: descriptor.RolePHP},
		descriptor.FileEntry{Path: "Sub/b.php", Role: descriptor.RolePHP, MD5Sum: md5hex("not b")},
	)
	before := testutil.Snapshot(t, f.root)
	inst := f.installer(t)

	_, err := inst.Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	var sumErr *ChecksumError
	require.True(t, errors.As(err, &sumErr))
	assert.True(t, errors.Is(err, ErrChecksum))
	assert.Equal(t, "bad md5sum for file "+f.path("/usr/share/php/Sub/b.php"), err.Error())
	assert.Equal(t, md5hex("b"), sumErr.Actual)

	assert.Equal(t, before, testutil.Snapshot(t, f.root))
	assert.Equal(t, 0, inst.Pending())
	exists, err := f.reg.PackageExists("Foo", "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInstallForcedChecksumMismatchWarns(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	pkg := phpPackage("Foo", "1.0", descriptor.FileEntry{Path: "lib.php", Role: descriptor.RolePHP, MD5Sum: "deadbeef"})
	opts := f.opts()
	opts.Force = true

	res, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.NoError(t, err)
	assert.FileExists(t, f.path("/usr/share/php/lib.php"))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, warnings.CodeChecksumMismatchForced, res.Warnings[0].Code)
	assert.Equal(t, warnings.SeverityCritical, res.Warnings[0].Severity)
}

func TestInstallMissingSource(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"present.php": "p"})
	pkg := phpPackage("Foo", "1.0",
		descriptor.FileEntry{Path: "present.php", Role: descriptor.RolePHP},
		descriptor.FileEntry{Path: "gone.php", Role: descriptor.RolePHP},
	)
	before := testutil.Snapshot(t, f.root)

	_, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFilesystem))
	assert.True(t, strings.HasPrefix(err.Error(), "file gone.php in package.xml does not exist"))
	assert.Equal(t, before, testutil.Snapshot(t, f.root))

	opts := f.opts()
	opts.IgnoreErrors = true
	res, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.NoError(t, err)
	assert.FileExists(t, f.path("/usr/share/php/present.php"))
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, warnings.CodeFileSkipped, res.Warnings[0].Code)

	recorded, err := f.reg.Package("Foo", "")
	require.NoError(t, err)
	require.Len(t, recorded.Files, 1)
	assert.Equal(t, "present.php", recorded.Files[0].Path)
}

func TestInstallReadAndMkdirFailures(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x", "Dir/a.php": "a"})
	f.sys.readErrs[filepath.Join(f.src, "lib.php")] = errors.New("io error")
	pkg := phpPackage("Foo", "1.0")
	_, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read "+filepath.Join(f.src, "lib.php")+": io error")

	f.sys.mkdirErrs[f.path("/usr/share/php/Dir")] = errors.New("denied")
	pkg = phpPackage("Bar", "1.0", descriptor.FileEntry{Path: "Dir/a.php", Role: descriptor.RolePHP})
	_, err = f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to mkdir "+f.path("/usr/share/php/Dir"))
}

func TestInstallWriteFailureCleansTemp(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	f.sys.writeErrs[f.path("/usr/share/php/.tmplib.php")] = errors.New("disk full")
	before := testutil.Snapshot(t, f.root)

	_, err := f.installer(t).Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), f.opts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write")
	assert.Equal(t, before, testutil.Snapshot(t, f.root))
}

func TestInstallWithoutDestinationDirectory(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	opts := f.opts()
	opts.InstallRoot = t.TempDir()

	_, err := f.installer(t).Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), opts)
	require.Error(t, err)
	assert.Equal(t, "no installation destination directory '"+filepath.ToSlash(opts.InstallRoot)+"/usr/share/php'", err.Error())
}

func TestInstallSkipsOtherPlatforms(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x", "win.php": "w"})
	pkg := phpPackage("Foo", "1.0",
		descriptor.FileEntry{Path: "lib.php", Role: descriptor.RolePHP, Platform: "linux"},
		descriptor.FileEntry{Path: "win.php", Role: descriptor.RolePHP, Platform: "windows"},
	)
	res, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.NoError(t, err)
	assert.Equal(t, []string{"win.php"}, res.Skipped)
	assert.FileExists(t, f.path("/usr/share/php/lib.php"))
	assert.NoFileExists(t, f.path("/usr/share/php/win.php"))

	recorded, err := f.reg.Package("Foo", "")
	require.NoError(t, err)
	require.Len(t, recorded.Files, 1)
}

func TestInstallConflicts(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "other", "mine.php": "m"})
	inst := f.installer(t)
	_, err := inst.Install(context.Background(), FromPackage(phpPackage("Other", "1.0"), f.src), f.opts())
	require.NoError(t, err)
	before := testutil.Snapshot(t, f.root)

	pkg := phpPackage("Foo", "1.0",
		descriptor.FileEntry{Path: "mine.php", Role: descriptor.RolePHP},
		descriptor.FileEntry{Path: "lib.php", Role: descriptor.RolePHP},
	)
	_, err = inst.Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "pear.php.net/Foo: conflicting files found:\nlib.php (pear.php.net/Other)", err.Error())
	assert.Equal(t, before, testutil.Snapshot(t, f.root))

	opts := f.opts()
	opts.Force = true
	res, err := inst.Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, warnings.CodeConflictForced, res.Warnings[0].Code)
}

func TestConflictErrorRightAlignsPaths(t *testing.T) {
	err := &ConflictError{Package: "pear.php.net/Foo", Conflicts: map[string]registry.Owner{
		"b.php":      {Channel: "pear.php.net", Package: "B"},
		"a/long.php": {Channel: "pecl.php.net", Package: "A"},
	}}
	assert.Equal(t, "pear.php.net/Foo: conflicting files found:\n"+
		"a/long.php (pecl.php.net/A)\n"+
		"     b.php (pear.php.net/B)", err.Error())
}

func TestInstallAlreadyInstalled(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "one"})
	inst := f.installer(t)
	_, err := inst.Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), f.opts())
	require.NoError(t, err)

	_, err = inst.Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyInstalled))
	assert.Contains(t, err.Error(), "pear.php.net/Foo is already installed")
	assert.Equal(t, 0, inst.Pending())

	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "two"})
	opts := f.opts()
	opts.Force = true
	_, err = inst.Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), opts)
	require.NoError(t, err)
	data, err := os.ReadFile(f.path("/usr/share/php/lib.php"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestUpgradeRequiresNewerVersion(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	inst := f.installer(t)
	_, err := inst.Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), f.opts())
	require.NoError(t, err)
	before := testutil.Snapshot(t, f.root)

	opts := f.opts()
	opts.Upgrade = true
	_, err = inst.Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotNewer))
	assert.Contains(t, err.Error(), "upgrade to a newer version (1.0 is not newer than 1.0)")
	assert.Equal(t, 0, inst.Pending())
	assert.Equal(t, before, testutil.Snapshot(t, f.root))

	_, err = inst.Install(context.Background(), FromPackage(phpPackage("Foo", "0.9"), f.src), opts)
	assert.True(t, errors.Is(err, ErrNotNewer))
}

func TestUpgradeReplacesPreviousFiles(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"a.php": "a1", "b.php": "b1"})
	inst := f.installer(t)
	v1 := phpPackage("Foo", "1.0",
		descriptor.FileEntry{Path: "a.php", Role: descriptor.RolePHP},
		descriptor.FileEntry{Path: "b.php", Role: descriptor.RolePHP},
	)
	_, err := inst.Install(context.Background(), FromPackage(v1, f.src), f.opts())
	require.NoError(t, err)

	testutil.WriteFiles(t, f.src, map[string]string{"a.php": "a2"})
	opts := f.opts()
	opts.Upgrade = true
	res, err := inst.Install(context.Background(), FromPackage(phpPackage("Foo", "1.1", descriptor.FileEntry{Path: "a.php", Role: descriptor.RolePHP}), f.src), opts)
	require.NoError(t, err)
	assert.True(t, res.Upgraded)
	assert.Equal(t, "1.0", res.Previous)

	data, err := os.ReadFile(f.path("/usr/share/php/a.php"))
	require.NoError(t, err)
	assert.Equal(t, "a2", string(data))
	assert.NoFileExists(t, f.path("/usr/share/php/b.php"))

	recorded, err := f.reg.Package("Foo", "")
	require.NoError(t, err)
	assert.Equal(t, "1.1", recorded.Version)
}

func TestUpgradeOfMissingPackageInstalls(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	opts := f.opts()
	opts.Upgrade = true
	res, err := f.installer(t).Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), opts)
	require.NoError(t, err)
	assert.False(t, res.Upgraded)
	exists, err := f.reg.PackageExists("Foo", "")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegisterOnlyTouchesNoFiles(t *testing.T) {
	f := newFixture(t)
	before := testutil.Snapshot(t, f.root)
	opts := f.opts()
	opts.RegisterOnly = true
	_, err := f.installer(t).Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), opts)
	require.NoError(t, err)
	assert.Equal(t, before, testutil.Snapshot(t, f.root))
	exists, err := f.reg.PackageExists("Foo", "")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInstallCommitFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x", "Sub/a.php": "a"})
	f.deps.TxSystem = readOnlyTx{dirs: map[string]bool{f.path("/usr/share/php"): true}}
	pkg := phpPackage("Foo", "1.0",
		descriptor.FileEntry{Path: "Sub/a.php", Role: descriptor.RolePHP},
		descriptor.FileEntry{Path: "lib.php", Role: descriptor.RolePHP},
	)
	before := testutil.Snapshot(t, f.root)
	inst := f.installer(t)

	_, err := inst.Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	var commitErr *transaction.CommitError
	require.True(t, errors.As(err, &commitErr))
	assert.Len(t, commitErr.Problems, 1)
	assert.Equal(t, before, testutil.Snapshot(t, f.root))
	assert.Equal(t, 0, inst.Pending())
}

func TestRegistrationFailureKeepsFiles(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	f.deps.Registry = failingRegistry{Registry: f.reg}

	res, err := f.installer(t).Install(context.Background(), FromPackage(phpPackage("Foo", "1.0"), f.src), f.opts())
	require.Error(t, err)
	require.NotNil(t, res)
	assert.True(t, errors.Is(err, ErrRegistration))
	assert.Equal(t, "Adding package pear.php.net/Foo to registry failed: registry is read-only", err.Error())
	assert.FileExists(t, f.path("/usr/share/php/lib.php"))
}

func TestInstallDependencyFailure(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	pkg := phpPackage("Foo", "1.0")
	pkg.Dependencies = []descriptor.Dependency{
		{Type: descriptor.DepPackage, Relation: descriptor.RelHas, Name: "Missing"},
		{Type: descriptor.DepExtension, Relation: descriptor.RelHas, Name: "gd", Optional: true},
	}
	before := testutil.Snapshot(t, f.root)

	_, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.Error(t, err)
	assert.True(t, errors.Is(err, depcheck.ErrDependency))
	assert.True(t, strings.HasPrefix(err.Error(), "pear.php.net/Foo: Dependencies failed"))
	assert.Equal(t, before, testutil.Snapshot(t, f.root))

	opts := f.opts()
	opts.NoDeps = true
	_, err = f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.NoError(t, err)
}

func TestInstallOptionalDependencyWarns(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	pkg := phpPackage("Foo", "1.0")
	pkg.Dependencies = []descriptor.Dependency{
		{Type: descriptor.DepExtension, Relation: descriptor.RelHas, Name: "gd", Optional: true},
	}
	res, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), f.opts())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, warnings.CodeOptionalDependency, res.Warnings[0].Code)

	opts := f.opts()
	opts.Soft = true
	opts.Force = true
	res, err = f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestInstallTypedDependencyGroup(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFiles(t, f.src, map[string]string{"lib.php": "x"})
	pkg := phpPackage("Foo", "1.0")
	pkg.XSDVersion = "2.0"
	pkg.Groups = []descriptor.DependencyGroup{{
		Name:         "images",
		Dependencies: []descriptor.Dependency{{Type: descriptor.DepExtension, Relation: descriptor.RelHas, Name: "gd"}},
	}}
	opts := f.opts()

	_, err := f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.NoError(t, err)

	opts.Force = true
	opts.RequestedGroup = "images"
	_, err = f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, depcheck.ErrDependency))

	opts.RequestedGroup = "nope"
	_, err = f.installer(t).Install(context.Background(), FromPackage(pkg, f.src), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dependency group 'nope' does not exist")
}
