package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "pearl"
	// RootShort is the short description for the root command.
	RootShort           = "Install, upgrade and remove PHP packages described by package.xml"
	RootVersionFlag     = "Print version and exit"
	RootFlagConfig      = "Path to the config file (default $PEARL_CONFIG or ~/.config/pearl/config.toml)"
	RootFlagInstallRoot = "Install every file under this directory instead of /"
	RootFlagVerbose     = "Log each file operation"
	RootFlagQuiet       = "Suppress warnings"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	InstallUse      = "install <package.xml>"
	InstallShort    = "Install a package"
	UpgradeUse      = "upgrade <package.xml>"
	UpgradeShort    = "Upgrade an installed package to a newer version"
	UninstallUse    = "uninstall <package>"
	UninstallShort  = "Remove an installed package"
	InfoUse         = "info <package.xml|package>"
	InfoShort       = "Show a package descriptor or an installed package record"
	ListUse         = "list"
	ListShort       = "List installed packages"
	VerifyUse       = "verify <package.xml>"
	VerifyShort     = "Compare installed files with the package contents"
	ConfigUse       = "config"
	ConfigShort     = "Show or change configuration"
	ConfigGetUse    = "get <key>"
	ConfigGetShort  = "Print a configuration value"
	ConfigSetUse    = "set <key> <value>"
	ConfigSetShort  = "Change a configuration value"
	ConfigListUse   = "list"
	ConfigListShort = "Print every configuration key"

	FlagForce        = "Overwrite conflicting files, reinstall and accept checksum mismatches"
	FlagRegisterOnly = "Record the package in the registry without installing files"
	FlagSoft         = "Do not print dependency problems"
	FlagNoDeps       = "Skip dependency checks"
	FlagNoBuild      = "Do not compile extension sources"
	FlagIgnoreErrors = "Skip files that fail to install instead of aborting"
	FlagGroup        = "Validate the named dependency group"
	FlagChannel      = "Channel of the package (default: default_channel)"
	FlagYes          = "Do not ask for confirmation"
	FlagXML          = "Print the descriptor as package.xml"
	FlagDiffLines    = "Maximum diff lines shown per file"

	InstallDoneFmt        = "install ok: %s %s\n"
	UpgradeDoneFmt        = "upgrade ok: %s %s (was %s)\n"
	UninstallDoneFmt      = "uninstall ok: %s\n"
	UninstallConfirmFmt   = "Remove %s %s and its %d installed files?"
	UninstallCancelled    = "uninstall cancelled"
	UninstallNeedsConfirm = "uninstall needs confirmation; rerun in a terminal or pass --yes"
	SkippedFilesFmt       = "skipped %d file(s) for other platforms\n"
	BuiltModuleFmt        = "built %s\n"

	InfoFieldFmt   = "%-14s %s\n"
	InfoFileFmt    = "  %-10s %s\n"
	ListEmpty      = "no packages installed"
	ListHeaderFmt  = "%-*s  %-10s  %s\n"
	VerifyLineFmt  = "%-9s %s\n"
	VerifyCleanFmt = "%s: all %d files match\n"
	VerifyFailed   = "installed files differ from the package"

	ConfigListLineFmt = "%-22s %s\n"
	ConfigSavedFmt    = "%s = %s\n"
	ConfigChannelFlag = "Read or write the value for this channel"
)
