package messages

// Filesystem helper messages.
const (
	FSCreateDirFmt      = "create directory %s: %w"
	FSCreateTempFileFmt = "create temp file for %s: %w"
	FSWriteTempFileFmt  = "write temp file for %s: %w"
	FSSyncTempFileFmt   = "sync temp file for %s: %w"
	FSCloseTempFileFmt  = "close temp file for %s: %w"
	FSChmodTempFileFmt  = "chmod temp file for %s: %w"
	FSRenameTempFileFmt = "move temp file into place for %s: %w"
)
