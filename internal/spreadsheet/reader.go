package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"codeberg.org/snonux/wortschatz/internal/apperr"
)

// Row maps a column header to the cell text. Every header is present;
// blank or missing cells are empty strings.
type Row map[string]string

// Get returns the trimmed value of a column
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// ReadRows reads all non-blank data rows of a sheet. For CSV files the
// sheet name is ignored.
func ReadRows(path, sheet string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return readWorkbook(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported spreadsheet format: %s", filepath.Ext(path))
	}
}

// SheetNames lists the sheets of a workbook in order
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

func readWorkbook(path, sheet string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if !contains(sheets, sheet) {
		return nil, fmt.Errorf("sheet %q (available: %s): %w",
			sheet, strings.Join(sheets, ", "), apperr.ErrNotFound)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return toRows(rows), nil
}

func readCSV(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV file: %w", err)
		}
		records = append(records, record)
	}

	return toRows(records), nil
}

// toRows matches data cells to headers positionally. Short rows are padded,
// cells under a blank header are dropped, blank rows are skipped.
func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []Row
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}

		row := make(Row, len(header))
		for i, column := range header {
			if column == "" {
				continue
			}
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
