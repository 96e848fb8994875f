package warnings

import (
	"fmt"
	"strings"
)

// Warning codes.
const (
	CodeOptionalDependency      = "OPTIONAL_DEPENDENCY_FAILED"
	CodeChecksumMismatchForced  = "CHECKSUM_MISMATCH_FORCED"
	CodeFileSkipped             = "FILE_SKIPPED"
	CodeReplacementInvalid      = "REPLACEMENT_INVALID"
	CodeConflictForced          = "CONFLICT_FORCED"
	CodeSoftDependent           = "UNINSTALL_SOFT_DEPENDENT"
	CodeDirectoryNotRemoved     = "DIRECTORY_NOT_REMOVED"
	CodeWarningNoiseModeInvalid = "WARNING_NOISE_MODE_INVALID"
)

// Source labels where a warning originates.
const (
	SourceInternal   = "internal"
	SourcePackage    = "package"
	SourceFilesystem = "filesystem"
	SourceRegistry   = "registry"
)

// Severity labels whether a warning should be considered critical.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Warning represents a warning message.
type Warning struct {
	Code     string
	Subject  string
	Message  string
	Fix      string
	Details  []string
	Source   string
	Severity string
	// NoiseSuppressible marks warnings that can be hidden by conservative noise controls.
	// Critical warnings are never suppressed even if this flag is true.
	NoiseSuppressible bool
}

// String renders the warning as a block of indented fields. Empty subject and
// fix lines are omitted.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString("WARNING " + w.Code + ": " + w.Message)
	fmt.Fprintf(&b, "\n  source: %s", w.sourceOrDefault())
	fmt.Fprintf(&b, "\n  severity: %s", w.severityOrDefault())
	if w.Subject != "" {
		b.WriteString("\n  subject: " + w.Subject)
	}
	if w.Fix != "" {
		b.WriteString("\n  fix: " + w.Fix)
	}
	for _, d := range w.Details {
		b.WriteString("\n  details: " + d)
	}
	return b.String()
}

func (w Warning) sourceOrDefault() string {
	if w.Source == "" {
		return SourceInternal
	}
	return w.Source
}

func (w Warning) severityOrDefault() string {
	if w.Severity == "" {
		return SeverityWarning
	}
	return w.Severity
}
