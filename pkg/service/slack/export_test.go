package slack

// Export internal functions for testing
var (
	ImportBlocks       = importBlocks
	SyncBlocks         = syncBlocks
	TruncateToMaxBytes = truncateToMaxBytes
)
