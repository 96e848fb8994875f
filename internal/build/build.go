// Package build compiles extension sources shipped by a package and reports
// the modules produced.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
)

// Progress kinds passed to a Progress callback.
const (
	ProgressOutput = "cmdoutput"
	ProgressStage  = "build"
)

// Environment variables exported to the build command.
const (
	EnvPackage          = "PEARL_PACKAGE"
	EnvVersion          = "PEARL_VERSION"
	EnvConfigureOptions = "PEARL_CONFIGURE_OPTIONS"
)

// ErrBuild is wrapped by BuildError.
var ErrBuild = errors.New("build failed")

// BuildError reports a failed build.
type BuildError struct {
	Package string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Errorf(messages.BuildFailedFmt, e.Package, e.Err).Error()
}

// Unwrap returns both ErrBuild and the underlying cause.
func (e *BuildError) Unwrap() []error { return []error{ErrBuild, e.Err} }

// Progress receives build output one line at a time.
type Progress func(kind string, line string)

// Built is one compiled module.
type Built struct {
	// File is the absolute path of the module inside the build tree.
	File string
	// APIVersions holds the php_api, zend_mod_api and zend_ext_api numbers
	// the build reported.
	APIVersions map[string]string
}

// Builder compiles the sources of pkg found in sourceDir.
type Builder interface {
	Build(ctx context.Context, pkg *descriptor.Package, sourceDir string, progress Progress) ([]Built, error)
}

// CommandBuilder runs a shell command in the source directory and collects the
// *.so files left in ModulesDir.
type CommandBuilder struct {
	// Command is interpreted by a POSIX shell.
	Command string
	// ModulesDir is relative to the source directory unless absolute.
	ModulesDir string
	// Env is the base environment; nil uses os.Environ().
	Env    []string
	Logger *log.Logger
}

// Build implements Builder.
func (b *CommandBuilder) Build(ctx context.Context, pkg *descriptor.Package, sourceDir string, progress Progress) ([]Built, error) {
	logger := b.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if progress == nil {
		progress = func(string, string) {}
	}
	if strings.TrimSpace(b.Command) == "" {
		return nil, errors.New(messages.BuildCommandRequired)
	}
	key := pkg.Key()
	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		return nil, &BuildError{Package: key, Err: fmt.Errorf(messages.BuildSourceDirMissingFmt, sourceDir)}
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(b.Command), "build_command")
	if err != nil {
		return nil, fmt.Errorf(messages.BuildParseFailedFmt, b.Command, err)
	}

	out := &lineWriter{emit: func(line string) { progress(ProgressOutput, line) }}
	runner, err := interp.New(
		interp.Dir(sourceDir),
		interp.Env(expand.ListEnviron(b.environ(pkg)...)),
		interp.StdIO(nil, out, out),
	)
	if err != nil {
		return nil, fmt.Errorf(messages.BuildInterpreterFailedFmt, err)
	}

	progress(ProgressStage, fmt.Sprintf(messages.BuildProgressRunningFmt, b.Command))
	logger.Info("building package", "package", key, "dir", sourceDir)
	err = runner.Run(ctx, prog)
	out.Flush()
	if err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			err = fmt.Errorf(messages.BuildExitStatusFmt, int(status))
		}
		return nil, &BuildError{Package: key, Err: err}
	}

	modulesDir := b.ModulesDir
	if modulesDir == "" {
		modulesDir = "modules"
	}
	if !filepath.IsAbs(modulesDir) {
		modulesDir = filepath.Join(sourceDir, modulesDir)
	}
	matches, err := filepath.Glob(filepath.Join(modulesDir, "*.so"))
	if err != nil {
		return nil, fmt.Errorf(messages.BuildListModulesFmt, key, modulesDir, err)
	}
	if len(matches) == 0 {
		return nil, &BuildError{Package: key, Err: fmt.Errorf(messages.BuildNoModulesFmt, key, modulesDir)}
	}
	sort.Strings(matches)

	apis := out.APIVersions()
	built := make([]Built, 0, len(matches))
	for _, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			abs = m
		}
		versions := make(map[string]string, len(apis))
		for k, v := range apis {
			versions[k] = v
		}
		built = append(built, Built{File: abs, APIVersions: versions})
		progress(ProgressStage, fmt.Sprintf(messages.BuildProgressBuiltFmt, filepath.Base(abs)))
	}
	logger.Info("build finished", "package", key, "modules", len(built))
	return built, nil
}

func (b *CommandBuilder) environ(pkg *descriptor.Package) []string {
	env := b.Env
	if env == nil {
		env = os.Environ()
	}
	var opts []string
	for _, opt := range pkg.ConfigureOptions {
		if opt.Default != "" {
			opts = append(opts, "--"+opt.Name+"="+opt.Default)
		}
	}
	out := make([]string, 0, len(env)+3)
	out = append(out, env...)
	return append(out,
		EnvPackage+"="+pkg.Name,
		EnvVersion+"="+pkg.Version,
		EnvConfigureOptions+"="+strings.Join(opts, " "),
	)
}

// apiMarkers maps phpize banner prefixes onto API version keys.
var apiMarkers = map[string]string{
	"PHP Api Version:":       "php_api",
	"Zend Module Api No:":    "zend_mod_api",
	"Zend Extension Api No:": "zend_ext_api",
}

// lineWriter splits command output into lines and records the API numbers
// phpize announces. Stdout and stderr share one writer, so it is locked.
type lineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	apis map[string]string
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf.Next(idx+1)), "\r\n")
		w.line(line)
	}
	return len(p), nil
}

// Flush emits any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.line(strings.TrimRight(w.buf.String(), "\r\n"))
		w.buf.Reset()
	}
}

func (w *lineWriter) line(line string) {
	for marker, key := range apiMarkers {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), marker); ok {
			if w.apis == nil {
				w.apis = make(map[string]string)
			}
			w.apis[key] = strings.TrimSpace(rest)
		}
	}
	w.emit(line)
}

// APIVersions returns the API numbers seen so far.
func (w *lineWriter) APIVersions() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]string, len(w.apis))
	for k, v := range w.apis {
		out[k] = v
	}
	return out
}
