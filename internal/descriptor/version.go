package descriptor

import (
	"fmt"

	goversion "github.com/hashicorp/go-version"

	"github.com/conn-castle/pearl/internal/messages"
)

// CompareVersions returns -1, 0 or 1 as a is lower than, equal to or higher
// than b. Release-candidate style suffixes ("1.0.0RC1", "2.0b2") sort before
// the plain release.
func CompareVersions(a string, b string) (int, error) {
	left, err := goversion.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf(messages.DescriptorInvalidVersionFmt, a, err)
	}
	right, err := goversion.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf(messages.DescriptorInvalidVersionFmt, b, err)
	}
	return left.Compare(right), nil
}

// SatisfiesRelation reports whether have relates to want as rel demands.
// Relations without a version (has, not) are satisfied by presence alone.
func SatisfiesRelation(have string, rel Relation, want string) (bool, error) {
	if !rel.NeedsVersion() {
		return true, nil
	}
	cmp, err := CompareVersions(have, want)
	if err != nil {
		return false, err
	}
	switch rel {
	case RelEq:
		return cmp == 0, nil
	case RelNe:
		return cmp != 0, nil
	case RelLt:
		return cmp < 0, nil
	case RelLe:
		return cmp <= 0, nil
	case RelGt:
		return cmp > 0, nil
	case RelGe:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf(messages.DescriptorInvalidRelationFmt, rel)
}
