// Package fsutil holds small filesystem helpers shared by the registry and the
// config writer.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/pearl/internal/messages"
)

var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
	osChmod      = os.Chmod
)

// WriteFileAtomic writes data to filename by writing a sibling temp file and
// renaming it into place. The parent directory is created when missing.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.FSCreateDirFmt, dir, err)
	}
	tmp, err := osCreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf(messages.FSCreateTempFileFmt, filename, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FSWriteTempFileFmt, filename, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf(messages.FSSyncTempFileFmt, filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf(messages.FSCloseTempFileFmt, filename, err)
	}
	if err := osChmod(tmpName, perm); err != nil {
		return fmt.Errorf(messages.FSChmodTempFileFmt, filename, err)
	}
	if err := osRename(tmpName, filename); err != nil {
		return fmt.Errorf(messages.FSRenameTempFileFmt, filename, err)
	}
	committed = true
	return nil
}
