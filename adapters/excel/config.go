package excel

// ReaderConfig holds settings for one tabular data source
type ReaderConfig struct {
	FilePath string `json:"file_path"`
	// Sheet names the xlsx worksheet to read; empty means the first sheet.
	Sheet string `json:"sheet,omitempty"`
	// SkipIncomplete drops rows with any missing cell, as dropna() would.
	SkipIncomplete bool `json:"skip_incomplete"`
}

// DefaultReaderConfig returns defaults for reading path
func DefaultReaderConfig(path string) ReaderConfig {
	return ReaderConfig{FilePath: path}
}
