package types

// Table is a row-oriented view of one or more loaded spreadsheets.
// Cells are untyped text; rows shorter than Columns are padded with ""
// when tables are combined.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Cell returns the value at (row, col), or "" when the row is shorter
// than the column set.
func (t *Table) Cell(row, col int) string {
	if col < len(t.Rows[row]) {
		return t.Rows[row][col]
	}
	return ""
}

// ColumnMapping holds the index into Table.Columns for each canonical
// field. -1 means no column has been chosen yet.
type ColumnMapping struct {
	ID          int
	Description int
	Topic       int
	Number      int
}

// Complete reports whether every field has an explicit column choice.
func (m ColumnMapping) Complete() bool {
	return m.ID >= 0 && m.Description >= 0 && m.Topic >= 0 && m.Number >= 0
}

type MatchMode int

const (
	MatchAny MatchMode = iota
	MatchAll
)

func (m MatchMode) String() string {
	if m == MatchAll {
		return "ALL"
	}
	return "ANY"
}

// FilterSpec is one filter request: lowercased keywords plus a match mode.
type FilterSpec struct {
	Keywords []string
	Mode     MatchMode
}

// Session is the state of one interactive run, populated by the UI and
// passed through the filter pipeline.
type Session struct {
	Table   *Table
	Mapping ColumnMapping
	Spec    FilterSpec
}

// LoadResult is the outcome of reading a single uploaded file. A failed
// file carries its error here so the batch can continue without it.
type LoadResult struct {
	Path  string
	Table *Table
	Err   error
}
