package constants

const (
	AppName        = `sweep`
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.sweep/`
	LogFile        = `sweep.log`

	// ScanBatchSize is how many notes are read between progress updates.
	ScanBatchSize = 10
	// StartupDelay is the default pause before a run_at_startup scan.
	StartupDelay = `2s`
	// PreviewCacheSize bounds how many rendered previews are kept.
	PreviewCacheSize = 64
)

// DefaultIgnoredFolders are vault folders that never hold scan candidates.
var DefaultIgnoredFolders = []string{"archive", "trash", "templates"}
