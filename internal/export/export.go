package export

import (
	"fmt"

	"storysift/internal/types"

	"github.com/xuri/excelize/v2"
)

// OutputFilename is the fixed name of the exported spreadsheet, written
// to the current working directory.
const OutputFilename = "filtered_user_stories.xlsx"

const sheetName = "Sheet1"

// Write serializes a filtered result to a single-sheet XLSX file: one
// header row of the canonical column names, then one row per record.
// Cells are written as text; no styling.
func Write(result *types.Table, outputFile string) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, name := range result.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	for i, row := range result.Rows {
		for col := range result.Columns {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("could not write %s: %w", outputFile, err)
	}
	return nil
}
