package messages

// Install and uninstall messages.
const (
	// InstallConfigRequired indicates the installer was built without config.
	InstallConfigRequired   = "install config is required"
	InstallRegistryRequired = "install registry is required"
	InstallSourceRequired   = "package source is required"

	InstallConflictHeaderFmt     = "%s: conflicting files found:"
	InstallConflictLineFmt       = "%*s (%s)"
	InstallAlreadyInstalledFmt   = "%s is already installed"
	InstallNotNewerFmt           = "upgrade to a newer version (%s is not newer than %s)"
	InstallVersionCompareFmt     = "%s: cannot compare versions: %w"
	InstallNoDestDirFmt          = "no installation destination directory '%s'"
	InstallMkdirFailedFmt        = "failed to mkdir %s"
	InstallSourceMissingFmt      = "file %s in package.xml does not exist"
	InstallReadFailedFmt         = "failed to read %s"
	InstallWriteFailedFmt        = "failed to write %s"
	InstallBadChecksumFmt        = "bad md5sum for file %s"
	InstallChmodFailedFmt        = "failed to change mode of %s"
	InstallInvalidReplacementFmt = "invalid %s replacement: %s"
	InstallSkippedPlatformFmt    = "skipped %s (meant for %s)"
	InstallExtensionLoadedFmt    = "Extension '%s' already loaded. Please unload it in your php.ini file prior to install or upgrade it."
	InstallRegisterFailedFmt     = "Adding package %s to registry failed: %v"
	InstallIgnoredErrorFmt       = "Warning: %v"
	InstallSourceFilesFmt        = "%d source files, building"

	// InstallUninstallFailed prefixes a rejected uninstall commit.
	InstallUninstallFailed            = "uninstall failed"
	InstallUninstallRegistryFailedFmt = "%s: failed to remove registry entry: %w"

	// InstallDiffPreviewPathRequired indicates a verify preview had no path.
	InstallDiffPreviewPathRequired = "diff preview path is required"
	InstallDiffTruncatedFmt        = "... (truncated to %d lines; rerun with %s <n> to see more)"
	InstallVerifyNotRegisteredFmt  = "%s is not installed; nothing to verify"
)
