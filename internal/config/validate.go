package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/conn-castle/pearl/internal/messages"
)

var validWarningNoiseModes = map[string]struct{}{
	"":        {},
	"default": {},
	"reduce":  {},
	"quiet":   {},
}

// Validate checks value formats. path names the file in messages.
func (f *File) Validate(path string) error {
	if err := validateUmask(path, f.Umask); err != nil {
		return err
	}
	mode := strings.ToLower(strings.TrimSpace(f.Warnings.NoiseMode))
	if _, ok := validWarningNoiseModes[mode]; !ok {
		return fmt.Errorf(messages.ConfigNoiseModeInvalidFmt, path, f.Warnings.NoiseMode)
	}
	for name, ch := range f.Channels {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf(messages.ConfigChannelEmptyFmt, path)
		}
		if err := validateUmask(path, ch.Umask); err != nil {
			return err
		}
	}
	return nil
}

func validateUmask(path string, raw string) error {
	if raw == "" {
		return nil
	}
	if _, err := parseUmask(raw); err != nil {
		return fmt.Errorf(messages.ConfigUmaskInvalidFmt, path, raw)
	}
	return nil
}

func parseUmask(raw string) (os.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 8, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(v) & os.ModePerm, nil
}

// Umask returns the umask that applies to channel. An unparsable value falls
// back to 0022.
func (c *Config) Umask(channel string) os.FileMode {
	mask, err := parseUmask(c.Get(KeyUmask, channel))
	if err != nil {
		return 0o022
	}
	return mask
}

// Mode returns the permission bits for an installed file: 0666, or 0777 for
// executables, with the umask cleared.
func (c *Config) Mode(executable bool, channel string) os.FileMode {
	base := os.FileMode(0o666)
	if executable {
		base = 0o777
	}
	return base &^ c.Umask(channel)
}
