package table

import (
	"fmt"

	"storysift/internal/types"
)

// Combine concatenates tables into one, aligning columns by name rather
// than position. Column order is insertion order starting from the first
// table; columns a source table lacks become empty cells. The combined
// row count always equals the sum of the input row counts.
func Combine(tables []*types.Table) (*types.Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to combine")
	}

	var columns []string
	colIdx := make(map[string]int)

	for _, t := range tables {
		for _, name := range t.Columns {
			if _, ok := colIdx[name]; !ok {
				colIdx[name] = len(columns)
				columns = append(columns, name)
			}
		}
	}

	var rows [][]string
	for _, t := range tables {
		for i := range t.Rows {
			newRow := make([]string, len(columns))
			for j, name := range t.Columns {
				newRow[colIdx[name]] = t.Cell(i, j)
			}
			rows = append(rows, newRow)
		}
	}

	return &types.Table{Columns: columns, Rows: rows}, nil
}
