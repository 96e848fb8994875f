package messages

// Warning messages and fixes surfaced after install and uninstall.
const (
	WarningsNoiseModeInvalidFmt   = "unknown warnings noise mode %q; expected one of: %s, %s, %s"
	WarningsNoiseModeInvalidFix   = "Set warnings.noise_mode to default, reduce or quiet."
	WarningsOptionalDepFix        = "Install the optional dependency to enable the related features."
	WarningsChecksumForcedFmt     = "bad md5sum for file %s"
	WarningsChecksumForcedFix     = "Verify the package contents; the file was installed because --force was given."
	WarningsFileSkippedFix        = "Fix the package or destination and reinstall; the file was skipped because --ignore-errors was given."
	WarningsReplacementInvalidFix = "Correct the replace directive in package.xml."
	WarningsConflictForcedFmt     = "%s is also claimed by %s"
	WarningsConflictForcedFix     = "The file was overwritten because --force was given; reinstall the other package if it breaks."
	WarningsSoftDependentFix      = "The dependent package may lose optional features."
	WarningsDirNotRemovedFix      = "Remove the directory by hand if it is no longer needed."
)
