package install

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/messages"
	"github.com/conn-castle/pearl/internal/registry"
	"github.com/conn-castle/pearl/internal/role"
)

const (
	// DefaultDiffMaxLines is the default maximum number of diff lines shown per file.
	DefaultDiffMaxLines = 40
	// diffLineCapFlagName is the CLI flag name used to raise per-file diff line caps.
	diffLineCapFlagName = "--diff-lines"
)

// FileState classifies an installed file during verification.
type FileState string

// File states.
const (
	FileUnchanged FileState = "ok"
	FileModified  FileState = "modified"
	FileMissing   FileState = "missing"
	// FileUnchecked marks files without a source to compare against, such as
	// compiled extensions.
	FileUnchecked FileState = "unchecked"
)

// DiffPreview compares one installed file with what the package would install
// today.
type DiffPreview struct {
	Path        string
	InstalledAs string
	State       FileState
	UnifiedDiff string
	Truncated   bool
}

// VerifyOptions control Verify.
type VerifyOptions struct {
	InstallRoot  string
	DiffMaxLines int
}

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

// Verify compares the files recorded for the package in src against the
// package contents, with replacements applied. Nothing is written.
func (i *Installer) Verify(src Source, opts VerifyOptions) ([]DiffPreview, error) {
	pkg, sourceDir, err := load(src)
	if err != nil {
		return nil, err
	}
	recorded, err := i.registry.Package(pkg.Name, pkg.ChannelOrDefault())
	if errors.Is(err, registry.ErrNotFound) {
		return nil, fmt.Errorf(messages.InstallVerifyNotRegisteredFmt+": %w", pkg.Key(), ErrNotInstalled)
	}
	if err != nil {
		return nil, err
	}

	discard := &Result{}
	out := make([]DiffPreview, 0, len(recorded.Files))
	for _, entry := range recorded.InstalledFiles() {
		preview, err := i.verifyFile(pkg, entry, sourceDir, opts, discard)
		if err != nil {
			return nil, err
		}
		out = append(out, preview)
	}
	return out, nil
}

func (i *Installer) verifyFile(pkg *descriptor.Package, entry descriptor.FileEntry, sourceDir string, opts VerifyOptions, res *Result) (DiffPreview, error) {
	relPath := filepath.ToSlash(entry.Path)
	if relPath == "" {
		return DiffPreview{}, errors.New(messages.InstallDiffPreviewPathRequired)
	}
	preview := DiffPreview{Path: relPath, InstalledAs: entry.InstalledAs}
	installed, err := i.sys.ReadFile(role.PrependRoot(entry.InstalledAs, opts.InstallRoot))
	if errors.Is(err, fs.ErrNotExist) {
		preview.State = FileMissing
		return preview, nil
	}
	if err != nil {
		return DiffPreview{}, fsError(entry.InstalledAs, messages.InstallReadFailedFmt, err)
	}

	file, ok := pkg.File(entry.Path)
	if !ok || entry.Role == descriptor.RoleExt {
		preview.State = FileUnchecked
		return preview, nil
	}
	expected, err := i.sys.ReadFile(filepath.Join(sourceDir, filepath.FromSlash(relPath)))
	if err != nil {
		preview.State = FileUnchecked
		return preview, nil
	}
	if len(file.Replacements) > 0 {
		expected = i.replace(pkg, *file, expected, res)
	}
	if string(installed) == string(expected) {
		preview.State = FileUnchanged
		return preview, nil
	}

	preview.State = FileModified
	preview.UnifiedDiff, preview.Truncated = renderTruncatedUnifiedDiff(
		relPath+" (package)",
		entry.InstalledAs+" (installed)",
		string(expected),
		string(installed),
		opts.DiffMaxLines,
	)
	return preview, nil
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := lines[:limit]
	truncated = append(truncated, fmt.Sprintf(messages.InstallDiffTruncatedFmt, limit, diffLineCapFlagName))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" {
		return ""
	}
	if strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
