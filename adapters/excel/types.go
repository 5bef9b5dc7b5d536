package excel

// RawRowData represents a row of raw sheet data as header -> cell pairs
type RawRowData map[string]string

// SheetData represents the complete tabular content of a file
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
	// Lines holds the 1-based file line of each row, for error messages
	Lines []int
}
