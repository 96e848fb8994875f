package messages

// Build pipeline messages.
const (
	BuildCommandRequired      = "build command is required"
	BuildParseFailedFmt       = "invalid build command %q: %w"
	BuildInterpreterFailedFmt = "failed to start build shell: %w"
	BuildFailedFmt            = "%s: build failed: %w"
	BuildExitStatusFmt        = "build command exited with status %d"
	BuildNoModulesFmt         = "%s: no compiled modules found in %s"
	BuildListModulesFmt       = "%s: failed to list compiled modules in %s: %w"
	BuildSourceDirMissingFmt  = "build source directory %s does not exist"
	BuildProgressRunningFmt   = "running: %s"
	BuildProgressBuiltFmt     = "built: %s"
)
