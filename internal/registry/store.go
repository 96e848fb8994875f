package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/pearl/internal/descriptor"
	"github.com/conn-castle/pearl/internal/fsutil"
	"github.com/conn-castle/pearl/internal/messages"
)

const entryExt = ".toml"

// FileStore keeps one TOML document per package under
// <dir>/<channel>/<lowercased name>.toml. Lookups are case-insensitive.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on the
// first write.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New(messages.RegistryDirRequired)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store root.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) entryPath(name string, channel string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf(messages.RegistryInvalidNameFmt, name)
	}
	if channel == "" {
		channel = descriptor.DefaultChannel
	}
	channel = strings.ToLower(strings.ReplaceAll(channel, "/", "_"))
	return filepath.Join(s.dir, channel, strings.ToLower(name)+entryExt), nil
}

// PackageExists reports whether name is registered in channel.
func (s *FileStore) PackageExists(name string, channel string) (bool, error) {
	p, err := s.entryPath(name, channel)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.RegistryReadFailedFmt, p, err)
	}
	return true, nil
}

// Package loads the registered descriptor for name.
func (s *FileStore) Package(name string, channel string) (*descriptor.Package, error) {
	p, err := s.entryPath(name, channel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf(messages.RegistryNotInstalledFmt+": %w", channelOrDefault(channel), name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf(messages.RegistryReadFailedFmt, p, err)
	}
	return decodeEntry(p, data)
}

func decodeEntry(path string, data []byte) (*descriptor.Package, error) {
	var pkg descriptor.Package
	if err := toml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf(messages.RegistryDecodeFailedFmt, path, err)
	}
	return &pkg, nil
}

// AddPackage registers pkg. It fails with ErrExists when already registered.
func (s *FileStore) AddPackage(pkg *descriptor.Package) error {
	if pkg == nil {
		return errors.New(messages.RegistryPackageRequired)
	}
	exists, err := s.PackageExists(pkg.Name, pkg.ChannelOrDefault())
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf(messages.RegistryAlreadyExistsFmt+": %w", pkg.ChannelOrDefault(), pkg.Name, ErrExists)
	}
	return s.write(pkg)
}

// UpdatePackage replaces the registered record for pkg.
func (s *FileStore) UpdatePackage(pkg *descriptor.Package) error {
	if pkg == nil {
		return errors.New(messages.RegistryPackageRequired)
	}
	exists, err := s.PackageExists(pkg.Name, pkg.ChannelOrDefault())
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf(messages.RegistryNotInstalledFmt+": %w", pkg.ChannelOrDefault(), pkg.Name, ErrNotFound)
	}
	return s.write(pkg)
}

func (s *FileStore) write(pkg *descriptor.Package) error {
	p, err := s.entryPath(pkg.Name, pkg.ChannelOrDefault())
	if err != nil {
		return err
	}
	record := *pkg
	record.Channel = pkg.ChannelOrDefault()
	data, err := toml.Marshal(&record)
	if err != nil {
		return fmt.Errorf(messages.RegistryEncodeFailedFmt, pkg.Key(), err)
	}
	if err := fsutil.WriteFileAtomic(p, data, 0o644); err != nil {
		return fmt.Errorf(messages.RegistryWriteFailedFmt, p, err)
	}
	return nil
}

// DeletePackage removes the record for name.
func (s *FileStore) DeletePackage(name string, channel string) error {
	p, err := s.entryPath(name, channel)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(messages.RegistryNotInstalledFmt+": %w", channelOrDefault(channel), name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf(messages.RegistryDeleteFailedFmt, p, err)
	}
	return nil
}

// Packages returns every registered package ordered by channel then name.
func (s *FileStore) Packages() ([]*descriptor.Package, error) {
	var out []*descriptor.Package
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, os.ErrNotExist) && p == s.dir {
				return filepath.SkipDir
			}
			return walkErr
		}
		if d.IsDir() || filepath.Ext(p) != entryExt || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf(messages.RegistryReadFailedFmt, p, err)
		}
		pkg, err := decodeEntry(p, data)
		if err != nil {
			return err
		}
		out = append(out, pkg)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(messages.RegistryListFailedFmt, s.dir, err)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Key()) < strings.ToLower(out[j].Key())
	})
	return out, nil
}

// CheckFileMap reports which of files would land on a destination owned by a
// registered package.
func (s *FileStore) CheckFileMap(files []descriptor.FileEntry) (map[string]Owner, error) {
	installed, err := s.Packages()
	if err != nil {
		return nil, err
	}
	claimed := make(map[string]Owner)
	for _, pkg := range installed {
		owner := Owner{Channel: pkg.ChannelOrDefault(), Package: pkg.Name}
		for _, f := range pkg.Files {
			if key, ok := f.DestinationKey(); ok {
				claimed[key] = owner
			}
		}
	}
	conflicts := make(map[string]Owner)
	for _, f := range files {
		key, ok := f.DestinationKey()
		if !ok {
			continue
		}
		if owner, found := claimed[key]; found {
			conflicts[f.Path] = owner
		}
	}
	return conflicts, nil
}

func channelOrDefault(channel string) string {
	if channel == "" {
		return descriptor.DefaultChannel
	}
	return channel
}
