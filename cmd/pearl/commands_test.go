package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/pearl/internal/testutil"
	"github.com/conn-castle/pearl/internal/warnings"
)

const fooDescriptor = `<?xml version="1.0"?>
<package version="1.0">
 <name>Foo</name>
 <summary>Foo package</summary>
 <maintainers><maintainer><user>lead</user><email>lead@example.com</email><role>lead</role></maintainer></maintainers>
 <release>
  <version>%s</version>
  <state>stable</state>
  <filelist><file role="php" name="Foo.php"/></filelist>
 </release>
</package>
`

type cli struct {
	root   string
	src    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("PEARL_PREFIX", "")
	c := &cli{
		root:   t.TempDir(),
		src:    t.TempDir(),
		config: filepath.Join(t.TempDir(), "config.toml"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(c.root, "usr", "share", "php"), 0o755))
	c.writePackage(t, "1.0", "<?php // 1.0\n")
	return c
}

func (c *cli) writePackage(t *testing.T, version string, body string) {
	t.Helper()
	testutil.WriteFiles(t, c.src, map[string]string{
		"package.xml": strings.Replace(fooDescriptor, "%s", version, 1),
		"Foo.php":     body,
	})
}

func (c *cli) descriptor() string {
	return filepath.Join(c.src, "package.xml")
}

func (c *cli) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"pearl", "--config", c.config, "--install-root", c.root}, args...)
	err := execute(full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestInstallListInfoUninstall(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("install", c.descriptor())
	require.NoError(t, err)
	assert.Equal(t, "install ok: pear.php.net/Foo 1.0\n", out)
	assert.FileExists(t, filepath.Join(c.root, "usr", "share", "php", "Foo.php"))

	out, _, err = c.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "PACKAGE")
	assert.Contains(t, out, "pear.php.net/Foo  1.0")

	out, _, err = c.run("info", "Foo")
	require.NoError(t, err)
	assert.Contains(t, out, "Version        1.0")
	assert.Contains(t, out, "/usr/share/php/Foo.php")

	out, _, err = c.run("info", "--xml", c.descriptor())
	require.NoError(t, err)
	assert.Contains(t, out, "<name>Foo</name>")

	out, _, err = c.run("uninstall", "--yes", "Foo")
	require.NoError(t, err)
	assert.Equal(t, "uninstall ok: pear.php.net/Foo\n", out)
	assert.NoFileExists(t, filepath.Join(c.root, "usr", "share", "php", "Foo.php"))

	out, _, err = c.run("list")
	require.NoError(t, err)
	assert.Equal(t, "no packages installed\n", out)
}

func TestInstallTwiceFails(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("install", c.descriptor())
	require.NoError(t, err)

	_, _, err = c.run("install", c.descriptor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pear.php.net/Foo is already installed")

	_, _, err = c.run("install", "--force", c.descriptor())
	require.NoError(t, err)
}

func TestUpgradeCommand(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("install", c.descriptor())
	require.NoError(t, err)

	_, _, err = c.run("upgrade", c.descriptor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not newer than")

	c.writePackage(t, "1.1", "<?php // 1.1\n")
	out, _, err := c.run("upgrade", c.descriptor())
	require.NoError(t, err)
	assert.Equal(t, "upgrade ok: pear.php.net/Foo 1.1 (was 1.0)\n", out)
	data, err := os.ReadFile(filepath.Join(c.root, "usr", "share", "php", "Foo.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php // 1.1\n", string(data))
}

func TestUninstallNeedsConfirmation(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("install", c.descriptor())
	require.NoError(t, err)

	origTerminal, origConfirm := isTerminal, confirmFunc
	t.Cleanup(func() { isTerminal, confirmFunc = origTerminal, origConfirm })

	isTerminal = func() bool { return false }
	_, _, err = c.run("uninstall", "Foo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs confirmation")

	isTerminal = func() bool { return true }
	var asked string
	confirmFunc = func(title string) (bool, error) {
		asked = title
		return false, nil
	}
	out, _, err := c.run("uninstall", "Foo")
	require.NoError(t, err)
	assert.Equal(t, "Remove pear.php.net/Foo 1.0 and its 1 installed files?", asked)
	assert.Equal(t, "uninstall cancelled\n", out)
	assert.FileExists(t, filepath.Join(c.root, "usr", "share", "php", "Foo.php"))

	confirmFunc = func(string) (bool, error) { return false, errors.New("no tty") }
	_, _, err = c.run("uninstall", "Foo")
	require.Error(t, err)

	confirmFunc = func(string) (bool, error) { return true, nil }
	_, _, err = c.run("uninstall", "Foo")
	require.NoError(t, err)
}

func TestUninstallUnknownPackage(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("uninstall", "--yes", "Missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not installed")
}

func TestVerifyCommand(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("install", c.descriptor())
	require.NoError(t, err)

	out, _, err := c.run("verify", c.descriptor())
	require.NoError(t, err)
	assert.Contains(t, out, "package.xml: all 1 files match")

	installed := filepath.Join(c.root, "usr", "share", "php", "Foo.php")
	require.NoError(t, os.WriteFile(installed, []byte("<?php // edited\n"), 0o644))
	out, stderr, err := c.run("verify", c.descriptor())
	var silent *SilentExitError
	require.True(t, errors.As(err, &silent))
	assert.Equal(t, 1, silent.Code)
	assert.Contains(t, out, "modified")
	assert.Contains(t, out, "+<?php // edited")
	assert.Contains(t, stderr, "installed files differ from the package")
}

func TestConfigCommands(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run("config", "get", "php_dir")
	require.NoError(t, err)
	assert.Equal(t, "/usr/share/php\n", out)

	_, _, err = c.run("config", "get", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown config key "nope"`)

	out, _, err = c.run("config", "set", "--channel", "pecl.php.net", "umask", "0027")
	require.NoError(t, err)
	assert.Equal(t, "umask = 0027\n", out)

	out, _, err = c.run("config", "get", "umask")
	require.NoError(t, err)
	assert.Equal(t, "0022\n", out)
	out, _, err = c.run("config", "get", "--channel", "pecl.php.net", "umask")
	require.NoError(t, err)
	assert.Equal(t, "0027\n", out)

	_, _, err = c.run("config", "set", "umask", "not-octal")
	require.Error(t, err)

	out, _, err = c.run("config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "default_channel")
	out, _, err = c.run("config", "list", "--channel", "pecl.php.net")
	require.NoError(t, err)
	assert.NotContains(t, out, "default_channel")
	assert.Contains(t, out, "0027")
}

func TestPrintWarnings(t *testing.T) {
	items := []warnings.Warning{
		{Code: warnings.CodeSoftDependent, Message: "optional", NoiseSuppressible: true},
		{Code: warnings.CodeChecksumMismatchForced, Message: "checksum", Severity: warnings.SeverityCritical},
	}

	var out bytes.Buffer
	printWarnings(&out, items, "default", false)
	assert.Contains(t, out.String(), "UNINSTALL_SOFT_DEPENDENT")
	assert.Contains(t, out.String(), "CHECKSUM_MISMATCH_FORCED")

	out.Reset()
	printWarnings(&out, items, "reduce", false)
	assert.NotContains(t, out.String(), "UNINSTALL_SOFT_DEPENDENT")
	assert.Contains(t, out.String(), "CHECKSUM_MISMATCH_FORCED")

	out.Reset()
	printWarnings(&out, items, "default", true)
	assert.Empty(t, out.String())
}

func TestConfirmFuncAbortMeansNo(t *testing.T) {
	orig := runFormFunc
	t.Cleanup(func() { runFormFunc = orig })

	runFormFunc = func(*huh.Form) error { return huh.ErrUserAborted }
	ok, err := confirmFunc("Remove?")
	require.NoError(t, err)
	assert.False(t, ok)

	runFormFunc = func(*huh.Form) error { return errors.New("no tty") }
	_, err = confirmFunc("Remove?")
	require.Error(t, err)

	km := confirmKeyMap()
	assert.Equal(t, []string{"ctrl+c", "esc"}, km.Quit.Keys())
}
