package install

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/registry"
)

var (
	// ErrNotInstalled is returned when uninstalling or verifying a package the
	// registry does not know.
	ErrNotInstalled = errors.New("package not installed")
	// ErrAlreadyInstalled is returned by a plain install of a registered package.
	ErrAlreadyInstalled = errors.New("package already installed")
	// ErrNotNewer is returned by an upgrade whose version does not exceed the
	// registered one.
	ErrNotNewer     = errors.New("version is not newer")
	ErrConflict     = errors.New("conflicting files")
	ErrChecksum     = errors.New("checksum mismatch")
	ErrFilesystem   = errors.New("filesystem operation failed")
	ErrRegistration = errors.New("registration failed")
)

// FilesystemError reports a staging step that could not touch Path.
type FilesystemError struct {
	Path    string
	Message string
	Err     error
}

func (e *FilesystemError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap returns ErrFilesystem and the cause.
func (e *FilesystemError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFilesystem}
	}
	return []error{ErrFilesystem, e.Err}
}

func fsError(path string, format string, err error) *FilesystemError {
	return &FilesystemError{Path: path, Message: fmt.Sprintf(format, path), Err: err}
}

// ChecksumError reports a file whose md5 sum does not match the descriptor.
type ChecksumError struct {
	File     string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf(messages.InstallBadChecksumFmt, e.File)
}

// Unwrap returns ErrChecksum.
func (e *ChecksumError) Unwrap() error { return ErrChecksum }

// ConflictError lists files another package already owns.
type ConflictError struct {
	Package   string
	Conflicts map[string]registry.Owner
}

// Error renders one line per path, sorted and right-aligned to the longest.
func (e *ConflictError) Error() string {
	paths := make([]string, 0, len(e.Conflicts))
	width := 0
	for p := range e.Conflicts {
		paths = append(paths, p)
		if len(p) > width {
			width = len(p)
		}
	}
	sort.Strings(paths)
	var b strings.Builder
	b.WriteString(fmt.Sprintf(messages.InstallConflictHeaderFmt, e.Package))
	for _, p := range paths {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(messages.InstallConflictLineFmt, width, p, e.Conflicts[p].String()))
	}
	return b.String()
}

// Unwrap returns ErrConflict.
func (e *ConflictError) Unwrap() error { return ErrConflict }

// RegistrationError reports a registry write that failed after files were
// committed. The files stay in place.
type RegistrationError struct {
	Package string
	Err     error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf(messages.InstallRegisterFailedFmt, e.Package, e.Err)
}

// Unwrap returns ErrRegistration and the cause.
func (e *RegistrationError) Unwrap() []error { return []error{ErrRegistration, e.Err} }
