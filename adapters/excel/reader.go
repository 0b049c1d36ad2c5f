package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hypotest/domain/dataset"
	"hypotest/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel, CSV and TSV files
type DataReader struct {
	config   ReaderConfig
	fileType FileType
}

// NewDataReader creates a data reader for path with default settings
func NewDataReader(path string) *DataReader {
	return NewDataReaderWithConfig(DefaultReaderConfig(path))
}

// NewDataReaderWithConfig creates a data reader; the file type follows the extension
func NewDataReaderWithConfig(config ReaderConfig) *DataReader {
	return &DataReader{config: config, fileType: detectFileType(config.FilePath)}
}

func detectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FileTypeCSV
	case ".tsv", ".txt":
		return FileTypeTSV
	}
	return FileTypeXLSX
}

// FileType reports how the file will be parsed
func (r *DataReader) FileType() FileType {
	return r.fileType
}

// ReadDataset loads the file into a dataset
func (r *DataReader) ReadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.FromRecords(data.Headers, data.Records)
	if err != nil {
		return nil, errors.Wrapf(err, "build dataset from %s", r.config.FilePath)
	}
	if r.config.SkipIncomplete {
		ds = ds.DropIncomplete()
	}
	return ds, nil
}

// ReadData reads the raw header and records
func (r *DataReader) ReadData() (*ExcelData, error) {
	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("data file %s", r.config.FilePath))
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case FileTypeCSV:
		rows, err = r.readDelimited(',')
	case FileTypeTSV:
		rows, err = r.readDelimited('\t')
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no header row", r.config.FilePath))
	}
	return processRows(rows)
}

// readExcel reads the configured sheet, or the first one
func (r *DataReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput(fmt.Sprintf("%s has no worksheets", r.config.FilePath))
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	return rows, nil
}

func (r *DataReader) readDelimited(comma rune) ([][]string, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open data file")
	}
	defer file.Close()
	return parseDelimited(file, comma)
}

func parseDelimited(in io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse delimited file")
	}
	return rows, nil
}

// processRows splits off the header, trims cells and drops blank lines
func processRows(rows [][]string) (*ExcelData, error) {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if headers[i] == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("header column %d is blank", i+1))
		}
	}

	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := make([]string, 0, len(row))
		for _, cell := range row {
			rec = append(rec, strings.TrimSpace(cell))
		}
		records = append(records, rec)
	}

	return &ExcelData{Headers: headers, Records: records}, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
