// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named sheet with its rows, header first.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// WriteWorkbook saves the sheets as an .xlsx file named name inside dir and
// returns its path. The first sheet replaces the default one.
func WriteWorkbook(tb testing.TB, dir, name string, sheets ...Sheet) string {
	tb.Helper()

	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			if err := file.SetSheetName("Sheet1", sheet.Name); err != nil {
				tb.Fatalf("failed to rename sheet: %v", err)
			}
		} else if _, err := file.NewSheet(sheet.Name); err != nil {
			tb.Fatalf("failed to add sheet %s: %v", sheet.Name, err)
		}
		for r, row := range sheet.Rows {
			values := row
			if err := file.SetSheetRow(sheet.Name, fmt.Sprintf("A%d", r+1), &values); err != nil {
				tb.Fatalf("failed to write row %d of %s: %v", r+1, sheet.Name, err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := file.SaveAs(path); err != nil {
		tb.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// RiskSheet returns a risk sheet with the given item headers and rows of
// match number followed by ratings.
func RiskSheet(items []string, rows ...[]interface{}) Sheet {
	return keyedSheet("Riesgo", items, rows)
}

// SecuritySheet returns a security sheet with the given item headers and rows
// of match number followed by costs.
func SecuritySheet(items []string, rows ...[]interface{}) Sheet {
	return keyedSheet("Seguridad", items, rows)
}

func keyedSheet(name string, items []string, rows [][]interface{}) Sheet {
	header := make([]interface{}, 0, len(items)+1)
	header = append(header, "NUMERO_PARTIDO")
	for _, item := range items {
		header = append(header, item)
	}
	return Sheet{Name: name, Rows: append([][]interface{}{header}, rows...)}
}
