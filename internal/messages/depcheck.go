package messages

// Dependency checker messages.
const (
	DepPackageMissingFmt       = "requires package `%s'"
	DepPackageVersionFmt       = "requires package `%s' %s %s"
	DepPackageConflictFmt      = "conflicts with package `%s'"
	DepExtensionMissingFmt     = "'%s' PHP extension is not installed"
	DepExtensionVersionFmt     = "'%s' PHP extension version %s %s is required"
	DepExtensionConflictFmt    = "'%s' PHP extension is installed and conflicts"
	DepPHPVersionFmt           = "PHP version %s %s is required, %s installed"
	DepProgramMissingFmt       = "'%s' program is not present in the PATH"
	DepOSUnsupportedFmt        = "'%s' operating system not supported"
	DepArchUnsupportedFmt      = "'%s' architecture not supported"
	DepUnknownTypeFmt          = "unknown dependency type '%s'"
	DepBadVersionFmt           = "%s dependency %q: %v"
	DepLegacyFailedFmt         = "%s: Dependencies failed"
	DepTypedFailed             = "Cannot install, dependencies failed"
	DepOptionalHeader          = "Optional dependencies:"
	DepOptionalSuffix          = " (optional)"
	DepGroupMissingFmt         = "Dependency group '%s' does not exist in this release of package %s"
	DepUninstallFailedFmt      = "%s: uninstall failed"
	DepUninstallRequiredByFmt  = "package %s depends on %s"
	DepUninstallOptionalByFmt  = "package %s optionally depends on %s"
	DepRegistryUnavailableFmt  = "dependency check could not read the registry: %w"
	DepRegistryLookupFailedFmt = "dependency check could not look up %s: %w"
	DepCheckerRegistryRequired = "dependency checker requires a registry"
)
