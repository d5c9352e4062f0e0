package store

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/utakatalp/form-predictor/internal/league"
	"github.com/xuri/excelize/v2"
)

// LoadSpreadsheet reads matches from an xlsx workbook. An empty sheet name
// selects the first sheet.
func LoadSpreadsheet(path, sheet string) ([]league.Match, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	// raw values keep date cells as serial numbers instead of locale formatted text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	matches, err := decodeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("decoding sheet %s: %w", sheet, err)
	}
	return matches, nil
}

// LoadCSV reads matches from a CSV file with the same header layout as the workbook.
func LoadCSV(path string) ([]league.Match, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	matches, err := decodeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return matches, nil
}
