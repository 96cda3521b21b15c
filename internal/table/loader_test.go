package table

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeCSVFixture(t *testing.T, path string, records [][]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := csv.NewWriter(f)
	w.WriteAll(records)
	f.Close()
}

func writeXLSXFixture(t *testing.T, path string, rows [][]string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue("Sheet1", cell, val)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestReadCSV(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "stories.csv")

	writeCSVFixture(t, inputFile, [][]string{
		{"ID", "Description", "Topic", "No"},
		{"US-1", "Enable data masking", "Data", "1"},
		{"US-2", "Fix login bug", "Auth", "2"},
	})

	tbl, err := Read(inputFile)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	expectedCols := []string{"ID", "Description", "Topic", "No"}
	if !reflect.DeepEqual(tbl.Columns, expectedCols) {
		t.Errorf("Columns = %v; want %v", tbl.Columns, expectedCols)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("got %d rows; want 2", len(tbl.Rows))
	}
	if tbl.Rows[1][1] != "Fix login bug" {
		t.Errorf("cell = %q; want %q", tbl.Rows[1][1], "Fix login bug")
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "ragged.csv")

	if err := os.WriteFile(inputFile, []byte("ID,Description\nUS-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Read(inputFile)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tbl.Cell(0, 1) != "" {
		t.Errorf("missing cell = %q; want empty string", tbl.Cell(0, 1))
	}
}

func TestReadXLSX(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "stories.xlsx")

	writeXLSXFixture(t, inputFile, [][]string{
		{"ID", "Description", "Topic", "No"},
		{"US-1", "Add privacy controls", "Data", "1"},
	})

	tbl, err := Read(inputFile)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(tbl.Columns) != 4 || tbl.Columns[1] != "Description" {
		t.Errorf("Columns = %v; want 4 with Description second", tbl.Columns)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][1] != "Add privacy controls" {
		t.Errorf("Rows = %v", tbl.Rows)
	}
}

func TestReadXLSXHeaderBelowTitle(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "titled.xlsx")

	// Title banner above the real header row
	writeXLSXFixture(t, inputFile, [][]string{
		{"Backlog Export"},
		{"ID", "Description", "Topic", "No"},
		{"US-1", "Improve UI security", "UI", "1"},
	})

	tbl, err := Read(inputFile)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if tbl.Columns[0] != "ID" {
		t.Errorf("header detection picked %v; want header row starting with ID", tbl.Columns)
	}
	if len(tbl.Rows) != 1 {
		t.Errorf("got %d data rows; want 1", len(tbl.Rows))
	}
}

func TestReadErrors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("Unsupported extension", func(t *testing.T) {
		path := filepath.Join(tmpDir, "stories.txt")
		os.WriteFile(path, []byte("hello"), 0o644)
		if _, err := Read(path); err == nil {
			t.Error("expected error for unsupported file type")
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		if _, err := Read(filepath.Join(tmpDir, "nope.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Empty CSV", func(t *testing.T) {
		path := filepath.Join(tmpDir, "empty.csv")
		os.WriteFile(path, nil, 0o644)
		if _, err := Read(path); err == nil {
			t.Error("expected error for empty file")
		}
	})

	t.Run("Corrupt XLSX", func(t *testing.T) {
		path := filepath.Join(tmpDir, "corrupt.xlsx")
		os.WriteFile(path, []byte("not a zip"), 0o644)
		if _, err := Read(path); err == nil {
			t.Error("expected error for corrupt file")
		}
	})
}

func TestLoadAllSkipsFailures(t *testing.T) {
	tmpDir := t.TempDir()

	good := filepath.Join(tmpDir, "good.csv")
	writeCSVFixture(t, good, [][]string{{"ID", "Description"}, {"US-1", "a"}})
	bad := filepath.Join(tmpDir, "bad.xlsx")
	os.WriteFile(bad, []byte("not a zip"), 0o644)

	results := LoadAll([]string{good, bad})
	if len(results) != 2 {
		t.Fatalf("got %d results; want 2", len(results))
	}
	if results[0].Err != nil || results[0].Table == nil {
		t.Errorf("good file should load: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("bad file should carry its error")
	}
}
