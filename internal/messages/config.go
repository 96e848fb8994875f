package messages

// Config messages for loading, validating and editing the config file.
const (
	// ConfigReadFailedFmt formats config read errors.
	ConfigReadFailedFmt        = "failed to read config %s: %w"
	ConfigInvalidFmt           = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt  = "%s: unrecognized config keys: %w"
	ConfigUmaskInvalidFmt      = "%s: umask %q must be an octal number such as 0022"
	ConfigNoiseModeInvalidFmt  = "%s: warnings.noise_mode %q is invalid (allowed: default, reduce, quiet)"
	ConfigChannelEmptyFmt      = "%s: channel table names must not be empty"
	ConfigUnknownKeyFmt        = "unknown config key %q"
	ConfigWriteFailedFmt       = "failed to write config %s: %w"
	ConfigEncodeFailedFmt      = "failed to encode config %s: %w"
	ConfigPathRequired         = "config path is required"
	ConfigValidationGuidance   = "(edit the file or run `pearl config set <key> <value>`)"
	ConfigDefaultPathFailedFmt = "resolve default config path: %w"
)
