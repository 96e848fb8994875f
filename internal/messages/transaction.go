package messages

// File transaction messages.
const (
	// TxRenameSourceMissingFmt reports a queued rename whose source is gone.
	TxRenameSourceMissingFmt = "cannot rename file %s, doesn't exist"
	TxPermissionDeniedFmt    = "permission denied (%s): %s"
	TxChmodDeniedFmt         = "permission denied (chmod): %s %o"
	TxCommitFailedFmt        = "commit failed: %d problem(s) found"
	TxDeleteMissingFmt       = "warning: file %s doesn't exist, can't be deleted"
	TxRecorderRequired       = "transaction recorder is required"
)
