// Package platform describes the host a package is installed on and matches
// the platform constraints file entries may carry.
package platform

import (
	"runtime"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/sys/unix"
)

// Signature identifies the host as sysname-release-cpu-extra.
type Signature struct {
	OS      string
	Release string
	CPU     string
	Extra   string
}

// Current returns the signature of the running host. Release falls back to
// empty when uname is unavailable.
func Current() Signature {
	sig := Signature{OS: runtime.GOOS, CPU: runtime.GOARCH}
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		sig.OS = strings.ToLower(unix.ByteSliceToString(uts.Sysname[:]))
		sig.Release = releaseMajor(unix.ByteSliceToString(uts.Release[:]))
		sig.CPU = unix.ByteSliceToString(uts.Machine[:])
	}
	return sig
}

// releaseMajor keeps the leading "major.minor" of a kernel release string.
func releaseMajor(release string) string {
	parts := strings.SplitN(release, ".", 3)
	if len(parts) >= 2 {
		return parts[0] + "." + parts[1]
	}
	return release
}

// String renders the signature with empty trailing fragments omitted.
func (s Signature) String() string {
	parts := []string{s.OS, s.Release, s.CPU, s.Extra}
	for len(parts) > 1 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "-")
}

func (s Signature) fragments() []string {
	return []string{s.OS, s.Release, s.CPU, s.Extra}
}

// Match reports whether pattern accepts the signature. The pattern is split on
// '-'; each fragment is a case-insensitive shell wildcard matched against the
// signature fragment in the same position. Fragments the pattern omits match
// anything. An empty pattern matches every host.
func (s Signature) Match(pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return true
	}
	have := s.fragments()
	for i, frag := range strings.SplitN(strings.ToLower(pattern), "-", len(have)) {
		if frag == "" || frag == "*" {
			continue
		}
		g, err := glob.Compile(frag)
		if err != nil {
			return false
		}
		if !g.Match(strings.ToLower(have[i])) {
			return false
		}
	}
	return true
}

// Matcher decides whether a file's platform constraint applies to this host.
type Matcher interface {
	Match(pattern string) bool
}
