package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storysift/internal/types"

	"github.com/xuri/excelize/v2"
)

const headerSearchLimit = 20

// Read loads a single spreadsheet file into a Table
func Read(filePath string) (*types.Table, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".csv":
		return readCSV(filePath)
	case ".xlsx":
		return readXLSX(filePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// LoadAll reads every path independently. A file that fails to parse is
// reported in its LoadResult and does not stop the rest of the batch.
func LoadAll(paths []string) []types.LoadResult {
	results := make([]types.LoadResult, 0, len(paths))
	for _, p := range paths {
		t, err := Read(p)
		results = append(results, types.LoadResult{Path: p, Table: t, Err: err})
	}
	return results
}

func readCSV(filePath string) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	return &types.Table{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

func readXLSX(filePath string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	headerRowIdx := findHeaderRow(rows)
	if headerRowIdx == -1 {
		return nil, fmt.Errorf("could not find header row")
	}

	return &types.Table{
		Columns: rows[headerRowIdx],
		Rows:    rows[headerRowIdx+1:],
	}, nil
}

// findHeaderRow locates the first row that appears to be a header
// by finding the row with the most non-empty text cells
func findHeaderRow(rows [][]string) int {
	maxNonEmpty := 0
	headerIdx := -1

	searchLimit := len(rows)
	if searchLimit > headerSearchLimit {
		searchLimit = headerSearchLimit
	}

	for i := 0; i < searchLimit; i++ {
		nonEmptyCount := 0
		hasText := false

		for _, cell := range rows[i] {
			trimmed := strings.TrimSpace(cell)
			if trimmed != "" {
				nonEmptyCount++
				if containsLetters(trimmed) {
					hasText = true
				}
			}
		}

		// Header should have multiple columns AND contain text
		if nonEmptyCount >= 2 && hasText && nonEmptyCount > maxNonEmpty {
			maxNonEmpty = nonEmptyCount
			headerIdx = i
		}
	}

	return headerIdx
}

// containsLetters checks if a string contains any alphabetic characters
func containsLetters(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
