package messages

// Registry messages.
const (
	RegistryNotInstalledFmt  = "%s/%s not installed"
	RegistryAlreadyExistsFmt = "%s/%s is already registered"
	RegistryReadFailedFmt    = "failed to read registry entry %s: %w"
	RegistryDecodeFailedFmt  = "invalid registry entry %s: %w"
	RegistryEncodeFailedFmt  = "failed to encode registry entry for %s: %w"
	RegistryWriteFailedFmt   = "failed to write registry entry %s: %w"
	RegistryDeleteFailedFmt  = "failed to delete registry entry %s: %w"
	RegistryListFailedFmt    = "failed to list registry %s: %w"
	RegistryDirRequired      = "registry directory is required"
	RegistryPackageRequired  = "package is required"
	RegistryInvalidNameFmt   = "invalid package name %q"
)
