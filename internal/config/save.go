package config

import (
	"errors"
	"fmt"

	"github.com/conn-castle/pearl/internal/fsutil"
	"github.com/conn-castle/pearl/internal/messages"
)

// Set stores value for key, in the channel table when channel is non-empty.
// The edited document is re-validated before it replaces the current one.
func (c *Config) Set(key string, value string, channel string) error {
	field, ok := LookupField(key)
	if !ok || (channel != "" && !field.PerChannel) {
		return fmt.Errorf(messages.ConfigUnknownKeyFmt, key)
	}
	path := keyPath(key)
	if channel != "" {
		path = append([]string{"channels", channel}, path...)
	}

	previous := c.tree.GetPath(path)
	c.tree.SetPath(path, value)
	rendered, err := c.tree.ToTomlString()
	if err == nil {
		_, err = Parse([]byte(rendered), c.source(), "")
	}
	if err != nil {
		if previous != nil {
			c.tree.SetPath(path, previous)
		} else {
			_ = c.tree.DeletePath(path)
		}
		return err
	}
	return nil
}

// Save writes the config back to Path.
func (c *Config) Save() error {
	if c.Path == "" {
		return errors.New(messages.ConfigPathRequired)
	}
	rendered, err := c.tree.ToTomlString()
	if err != nil {
		return fmt.Errorf(messages.ConfigEncodeFailedFmt, c.Path, err)
	}
	if err := fsutil.WriteFileAtomic(c.Path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf(messages.ConfigWriteFailedFmt, c.Path, err)
	}
	return nil
}

func (c *Config) source() string {
	if c.Path == "" {
		return "config"
	}
	return c.Path
}
