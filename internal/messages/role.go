package messages

// Role resolver messages.
const (
	RoleInvalidFmt       = "invalid role `%s' for file %s"
	RoleNotAllowedFmt    = "role `%s' is not allowed in a %s release (file %s)"
	RoleBaseDirEmptyFmt  = "no %s configured for role %s"
	RolePathEscapesFmt   = "file %s resolves outside %s"
	RoleLookupRequired   = "config lookup is required"
	RoleSourceOnlyReason = "source file feeds the build pipeline"
)
