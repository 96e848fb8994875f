package messages

// Descriptor and package.xml parser messages.
const (
	// DescriptorMissingName indicates the package name is absent.
	DescriptorMissingName          = "package name is required"
	DescriptorMissingVersion       = "release version is required"
	DescriptorMissingSummary       = "package summary is required"
	DescriptorMissingState         = "release state is required"
	DescriptorInvalidStateFmt      = "release state %q must be one of stable, beta, alpha, devel, snapshot"
	DescriptorMissingMaintainers   = "at least one maintainer is required"
	DescriptorMaintainerHandleFmt  = "maintainer %d has no handle"
	DescriptorMissingFiles         = "file list is empty"
	DescriptorDuplicateFileFmt     = "file %s is listed more than once"
	DescriptorFileRoleMissingFmt   = "file %s has no role"
	DescriptorDepVersionMissingFmt = "%s dependency %q uses relation %s without a version"
	DescriptorInvalidVersionFmt    = "invalid version %q: %w"
	DescriptorInvalidRelationFmt   = "invalid dependency relation %q"

	// ParseErrorFmt formats markup errors with their line number.
	ParseErrorFmt            = "XML error: %s at line %d"
	ParseInvalidFmt          = "parsing of package.xml in %s failed: %w"
	ParseUnsupportedCharset  = "unsupported document encoding %q"
	ParseReadFailedFmt       = "failed to read package file %s: %w"
	ParseMarshalFailedFmt    = "failed to encode package %s: %w"
	ParseDescriptorNilPassed = "package descriptor is required"
)
