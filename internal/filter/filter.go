package filter

import (
	"fmt"
	"strings"

	"storysift/internal/types"
)

// Canonical output column names, in fixed order.
var CanonicalColumns = []string{"User Story ID", "User Story Description", "Topic Group", "No"}

// ErrNoKeywords rejects a filter request whose keyword list is empty
// after trimming.
var ErrNoKeywords = fmt.Errorf("no keywords given: enter at least one comma-separated keyword")

// Descriptions extracts the mapped description column, one value per
// row. Missing cells come back as "" so matching never faults on short
// rows.
func Descriptions(t *types.Table, col int) ([]string, error) {
	if col < 0 || col >= len(t.Columns) {
		return nil, fmt.Errorf("description column %d is not in the combined table (%d columns)", col, len(t.Columns))
	}

	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, col)
	}
	return out, nil
}

// Mask computes one bool per description. Keywords are matched as
// literal substrings, case-insensitively; characters that would be
// metacharacters in a pattern engine have no special meaning here.
// ANY requires at least one keyword to appear, ALL requires every one.
// Progress is reported non-blocking when progressChan is set.
func Mask(descriptions []string, keywords []string, mode types.MatchMode, progressChan chan<- float64) []bool {
	mask := make([]bool, len(descriptions))
	total := len(descriptions)

	for i, desc := range descriptions {
		if progressChan != nil && total > 0 {
			select {
			case progressChan <- float64(i) / float64(total):
			default:
			}
		}

		lowered := strings.ToLower(desc)
		if mode == types.MatchAll {
			matched := true
			for _, kw := range keywords {
				if !strings.Contains(lowered, kw) {
					matched = false
					break
				}
			}
			mask[i] = matched
		} else {
			for _, kw := range keywords {
				if strings.Contains(lowered, kw) {
					mask[i] = true
					break
				}
			}
		}
	}

	return mask
}

// Project selects the rows where mask is true and the four mapped
// columns in canonical order, renamed to the canonical names. Row order
// is preserved from the source table.
func Project(t *types.Table, mapping types.ColumnMapping, mask []bool) (*types.Table, error) {
	cols := []int{mapping.ID, mapping.Description, mapping.Topic, mapping.Number}
	for i, c := range cols {
		if c < 0 || c >= len(t.Columns) {
			return nil, fmt.Errorf("%s is mapped to a column that is not in the combined table", CanonicalColumns[i])
		}
	}

	var rows [][]string
	for i := range t.Rows {
		if !mask[i] {
			continue
		}
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = t.Cell(i, c)
		}
		rows = append(rows, row)
	}

	columns := make([]string, len(CanonicalColumns))
	copy(columns, CanonicalColumns)

	return &types.Table{Columns: columns, Rows: rows}, nil
}

// Run executes the full filter pipeline over a session: validate the
// spec, build the row mask against the mapped description column, then
// project the matching rows onto the canonical columns.
func Run(s *types.Session, progressChan chan<- float64) (*types.Table, error) {
	if len(s.Spec.Keywords) == 0 {
		return nil, ErrNoKeywords
	}
	if !s.Mapping.Complete() {
		return nil, fmt.Errorf("choose a column for every field before filtering")
	}

	descriptions, err := Descriptions(s.Table, s.Mapping.Description)
	if err != nil {
		return nil, err
	}

	mask := Mask(descriptions, s.Spec.Keywords, s.Spec.Mode, progressChan)
	return Project(s.Table, s.Mapping, mask)
}
