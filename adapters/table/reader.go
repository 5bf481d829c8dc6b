package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reader handles reading CSV and Excel score sheets
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader that handles both file types by extension
func NewReader(filePath string) *Reader {
	fileType := "csv"
	if ext := strings.ToLower(filepath.Ext(filePath)); ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a Table
func (r *Reader) Read() (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readExcel()
	}
}

func (r *Reader) readCSV() (*Table, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows surface as validation errors later
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", r.filePath, err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s must have at least a header row and one data row", r.filePath)
	}
	return r.processRows(rows)
}

func (r *Reader) readExcel() (*Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Score sheets always live on the first sheet
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s must have at least a header row and one data row", r.filePath)
	}
	return r.processRows(rows)
}

// processRows converts raw string rows into Table format
func (r *Reader) processRows(rows [][]string) (*Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]Row, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rowData := make(Row, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &Table{
		Source:  r.filePath,
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
