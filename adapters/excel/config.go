package excel

// Config controls how score files are read
type Config struct {
	// Sheet to read from XLSX workbooks; empty reads the first sheet
	Sheet string `json:"sheet"`
	// Comma is the CSV field delimiter
	Comma rune `json:"comma"`
}

// DefaultConfig returns sensible defaults for score files
func DefaultConfig() Config {
	return Config{
		Comma: ',',
	}
}
