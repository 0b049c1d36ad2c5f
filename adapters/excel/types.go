package excel

// FileType is the on-disk layout of a data file
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeTSV  FileType = "tsv"
	FileTypeXLSX FileType = "xlsx"
)

// ExcelData is a raw table: trimmed headers and string records
type ExcelData struct {
	Headers []string   // Column headers
	Records [][]string // Data rows, one entry per header at most
}
