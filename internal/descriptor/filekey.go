package descriptor

import (
	"path"
	"strings"
)

// DestinationKey identifies the location a file claims inside a directory shared
// by every package (the php, script and ext roots). Files that install under a
// per-package directory cannot collide with other packages and report false.
func (f FileEntry) DestinationKey() (string, bool) {
	switch f.Role {
	case RolePHP, RoleScript, RoleExt:
	default:
		return "", false
	}
	rel := toSlash(f.Path)
	name := f.InstallAs
	dir := ""
	if name == "" {
		name = path.Base(rel)
		dir = path.Dir(rel)
	}
	key := path.Join(string(f.Role), toSlash(f.BaseInstallDir), dir, name)
	return strings.ToLower(key), true
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
