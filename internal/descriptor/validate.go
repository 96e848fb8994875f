package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/pearl/internal/messages"
)

// ErrInvalid is wrapped by every structural validation failure.
var ErrInvalid = errors.New("invalid package descriptor")

var validStates = map[string]bool{
	"stable":   true,
	"beta":     true,
	"alpha":    true,
	"devel":    true,
	"snapshot": true,
}

// Validate checks that the required fields are present and the file list is
// well formed. All problems are reported together.
func (p *Package) Validate() error {
	var problems []error
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, errors.New(messages.DescriptorMissingName))
	}
	if strings.TrimSpace(p.Version) == "" {
		problems = append(problems, errors.New(messages.DescriptorMissingVersion))
	}
	if strings.TrimSpace(p.Summary) == "" {
		problems = append(problems, errors.New(messages.DescriptorMissingSummary))
	}
	if p.ReleaseState == "" {
		problems = append(problems, errors.New(messages.DescriptorMissingState))
	} else if !validStates[p.ReleaseState] {
		problems = append(problems, fmt.Errorf(messages.DescriptorInvalidStateFmt, p.ReleaseState))
	}
	if len(p.Maintainers) == 0 {
		problems = append(problems, errors.New(messages.DescriptorMissingMaintainers))
	}
	for i, m := range p.Maintainers {
		if strings.TrimSpace(m.Handle) == "" {
			problems = append(problems, fmt.Errorf(messages.DescriptorMaintainerHandleFmt, i+1))
		}
	}
	if len(p.Files) == 0 {
		problems = append(problems, errors.New(messages.DescriptorMissingFiles))
	}
	seen := make(map[string]bool, len(p.Files))
	for _, f := range p.Files {
		if seen[f.Path] {
			problems = append(problems, fmt.Errorf(messages.DescriptorDuplicateFileFmt, f.Path))
		}
		seen[f.Path] = true
		if f.Role == "" {
			problems = append(problems, fmt.Errorf(messages.DescriptorFileRoleMissingFmt, f.Path))
		}
	}
	for _, d := range p.Dependencies {
		if d.Relation.NeedsVersion() && strings.TrimSpace(d.Version) == "" {
			problems = append(problems, fmt.Errorf(messages.DescriptorDepVersionMissingFmt, d.Type, d.Name, d.Relation))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
}
