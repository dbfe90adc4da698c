package cli

var (
	PrintImportReport = printImportReport
	PrintSyncReport   = printSyncReport
	GetIndexConfig    = getIndexConfig
)
