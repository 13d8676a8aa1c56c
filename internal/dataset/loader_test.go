package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/matchday-dashboard/pkg/testutil"
)

func riskSource(path string) Source {
	return Source{Path: path, Sheet: "Riesgo", KeyColumn: "NUMERO_PARTIDO"}
}

func TestLoadRiskWorkbook(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "riesgo.xlsx",
		testutil.RiskSheet([]string{"Hinchas", "Clima", "Rivalidad", "Transporte", "Estadio"},
			[]interface{}{2, 1, 1, 1, 1, 1},
			[]interface{}{1, 0, 2, 3, 3, 5},
		),
	)

	table, err := Load(riskSource(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if matches := table.Matches(); matches[0] != 1 || matches[1] != 2 {
		t.Errorf("expected ascending match order, got %v", matches)
	}
	if items := table.Items(); len(items) != 5 || items[0] != "Hinchas" || items[4] != "Estadio" {
		t.Errorf("unexpected items %v", items)
	}

	cells, ok := table.Cells(1)
	if !ok {
		t.Fatal("Cells(1) not found")
	}
	expected := []float64{0, 2, 3, 3, 5}
	for i, cell := range cells {
		if cell.Value != expected[i] {
			t.Errorf("cell %s = %v, expected %v", cell.Item, cell.Value, expected[i])
		}
	}

	if _, ok := table.Cells(3); ok {
		t.Error("Cells(3) should not exist")
	}
}

func TestLoadSecurityWorkbookWithDecimals(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "seguridad.xlsx",
		testutil.SecuritySheet([]string{"Cámaras", "Guardias"},
			[]interface{}{1, 2.0, 10.25},
			[]interface{}{2, 3.5, 0.75},
		),
	)

	table, err := Load(Source{Path: path, Sheet: "Seguridad"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cells, _ := table.Cells(1)
	if cells[1].Item != "Guardias" || cells[1].Value != 10.25 {
		t.Errorf("unexpected cell %+v", cells[1])
	}
	cells, _ = table.Cells(2)
	if cells[0].Value != 3.5 {
		t.Errorf("unexpected cell %+v", cells[0])
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	items := []string{"Hinchas", "Clima"}

	tests := []struct {
		name    string
		sheets  []testutil.Sheet
		sheet   string
		wantErr error
		message string
	}{
		{
			name:    "Missing sheet",
			sheets:  []testutil.Sheet{testutil.SecuritySheet(items, []interface{}{1, 1, 1})},
			sheet:   "Riesgo",
			wantErr: ErrResourceNotFound,
			message: "sheet Riesgo",
		},
		{
			name:    "Empty sheet",
			sheets:  []testutil.Sheet{{Name: "Riesgo"}},
			sheet:   "Riesgo",
			wantErr: ErrMalformedResource,
			message: "sheet is empty",
		},
		{
			name: "Key column absent",
			sheets: []testutil.Sheet{{Name: "Riesgo", Rows: [][]interface{}{
				{"PARTIDO", "Hinchas"},
				{1, 2},
			}}},
			sheet:   "Riesgo",
			wantErr: ErrMalformedResource,
			message: "key column NUMERO_PARTIDO is absent",
		},
		{
			name:    "No item columns",
			sheets:  []testutil.Sheet{testutil.RiskSheet(nil, []interface{}{1})},
			sheet:   "Riesgo",
			wantErr: ErrMalformedResource,
			message: "no item columns",
		},
		{
			name: "Blank item header",
			sheets: []testutil.Sheet{{Name: "Riesgo", Rows: [][]interface{}{
				{"NUMERO_PARTIDO", "Hinchas", "", "Clima"},
				{1, 2, 3, 4},
			}}},
			sheet:   "Riesgo",
			wantErr: ErrMalformedResource,
			message: "column 3 has no header",
		},
		{
			name: "Duplicate item header",
			sheets: []testutil.Sheet{{Name: "Riesgo", Rows: [][]interface{}{
				{"NUMERO_PARTIDO", "Clima", "Clima"},
				{1, 2, 3},
			}}},
			sheet:   "Riesgo",
			wantErr: ErrMalformedResource,
			message: "duplicate column",
		},
		{
			name:    "Duplicate match number",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{1, 1, 1}, []interface{}{1, 2, 2})},
			sheet:   "Riesgo",
			wantErr: ErrMalformedResource,
			message: "duplicate match number 1",
		},
		{
			name:    "Value beyond last header",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{1, 1, 1, 9})},
			sheet:   "Riesgo",
			wantErr: ErrMalformedResource,
			message: "beyond the last header",
		},
		{
			name:    "Text rating",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{1, "alto", 1})},
			sheet:   "Riesgo",
			wantErr: ErrSchemaMismatch,
			message: "column Hinchas value \"alto\" is not numeric",
		},
		{
			name:    "Blank rating",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{1, 1})},
			sheet:   "Riesgo",
			wantErr: ErrSchemaMismatch,
			message: "column Clima is empty",
		},
		{
			name:    "Text match number",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{"uno", 1, 1})},
			sheet:   "Riesgo",
			wantErr: ErrSchemaMismatch,
			message: "is not numeric",
		},
		{
			name:    "Fractional match number",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{1.5, 1, 1})},
			sheet:   "Riesgo",
			wantErr: ErrSchemaMismatch,
			message: "is not an integer",
		},
		{
			name:    "Overflowing match number",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{1, 1, 1}, []interface{}{1e20, 1, 1})},
			sheet:   "Riesgo",
			wantErr: ErrSchemaMismatch,
			message: "row 3: match number \"100000000000000000000\" is out of range",
		},
		{
			name:    "Zero match number",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{0, 1, 1})},
			sheet:   "Riesgo",
			wantErr: ErrSchemaMismatch,
			message: "row 2: match number \"0\" is out of range",
		},
		{
			name:    "Negative match number",
			sheets:  []testutil.Sheet{testutil.RiskSheet(items, []interface{}{-3, 1, 1})},
			sheet:   "Riesgo",
			wantErr: ErrSchemaMismatch,
			message: "row 2: match number \"-3\" is out of range",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := filepath.Join("case", strings.ReplaceAll(tt.name, " ", "_")) + ".xlsx"
			if err := os.MkdirAll(filepath.Join(dir, "case"), 0755); err != nil {
				t.Fatal(err)
			}
			path := testutil.WriteWorkbook(t, dir, name, tt.sheets...)

			_, err := Load(Source{Path: path, Sheet: tt.sheet})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("case %d: Load() error = %v, expected %v", i, err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.message)
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error %q does not name the resource", err.Error())
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")
	_, err := Load(riskSource(path))
	if !errors.Is(err, ErrResourceNotFound) {
		t.Fatalf("Load() error = %v, expected ErrResourceNotFound", err)
	}
	if !strings.Contains(err.Error(), "missing.xlsx (sheet Riesgo)") {
		t.Errorf("error %q does not name resource and sheet", err.Error())
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	for _, name := range []string{"upload.xlsx", "upload.xls"} {
		_, err := Read(bytes.NewReader([]byte("definitely not a workbook")), riskSource(name))
		if !errors.Is(err, ErrMalformedResource) {
			t.Errorf("Read(%s) error = %v, expected ErrMalformedResource", name, err)
		}
	}
}

func TestLoadLegacyWorkbookMatchesXLSX(t *testing.T) {
	legacy, err := Load(riskSource(filepath.Join("testdata", "riesgo.xls")))
	if err != nil {
		t.Fatalf("Load(riesgo.xls) error = %v", err)
	}

	path := testutil.WriteWorkbook(t, t.TempDir(), "riesgo.xlsx",
		testutil.RiskSheet([]string{"Hinchas", "Clima", "Rivalidad", "Transporte", "Estadio"},
			[]interface{}{1, 0, 2, 3, 3, 5},
			[]interface{}{2, 1, 1, 1, 1, 1},
			[]interface{}{3, 4, 0, 1, 2, 5},
		),
	)
	modern, err := Load(riskSource(path))
	if err != nil {
		t.Fatalf("Load(riesgo.xlsx) error = %v", err)
	}

	if got, want := legacy.Items(), modern.Items(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("items = %v, expected %v", got, want)
	}
	if got, want := legacy.Matches(), modern.Matches(); len(got) != len(want) {
		t.Fatalf("matches = %v, expected %v", got, want)
	}
	for _, match := range modern.Matches() {
		want, _ := modern.Cells(match)
		got, ok := legacy.Cells(match)
		if !ok {
			t.Errorf("match %d missing from .xls table", match)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("match %d cell %d = %+v, expected %+v", match, i, got[i], want[i])
			}
		}
	}
}

func TestLoadLegacyWorkbookErrors(t *testing.T) {
	path := filepath.Join("testdata", "riesgo.xls")

	tests := []struct {
		name    string
		sheet   string
		wantErr error
		message string
	}{
		{name: "Missing sheet", sheet: "Seguridad", wantErr: ErrResourceNotFound, message: "sheet does not exist"},
		{name: "Formula cell", sheet: "Formulas", wantErr: ErrSchemaMismatch, message: "row 2: column Hinchas value \"FormulaCol\" is not numeric"},
		{name: "Custom date format", sheet: "Fechas", wantErr: ErrSchemaMismatch, message: "row 2: column Hinchas value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Source{Path: path, Sheet: tt.sheet})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, expected %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.message)
			}
		})
	}
}

func TestReadSkipsBlankRowsAndKeyCase(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "riesgo.xlsx", testutil.Sheet{
		Name: "Riesgo",
		Rows: [][]interface{}{
			{"numero_partido", "Hinchas"},
			{3, 4},
			{},
			{1, 2},
		},
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	table, err := Read(bytes.NewReader(data), riskSource("upload.xlsx"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Len() != 2 || !table.Has(1) || !table.Has(3) {
		t.Errorf("unexpected matches %v", table.Matches())
	}
	if table.Source().Path != "upload.xlsx" {
		t.Errorf("unexpected source %v", table.Source())
	}
}

func TestNewTableCopiesInput(t *testing.T) {
	values := []float64{1, 2}
	table, err := NewTable(Source{Path: "mem", Sheet: "Riesgo"}, []string{"a", "b"}, []Row{{Match: 1, Values: values}})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	values[0] = 99

	rows := table.Rows()
	if rows[0].Values[0] != 1 {
		t.Errorf("table shares caller storage: %v", rows[0].Values)
	}
	rows[0].Values[1] = 42
	if cells, _ := table.Cells(1); cells[1].Value != 2 {
		t.Errorf("table shares Rows() storage: %v", cells)
	}

	if _, err := NewTable(Source{}, []string{"a"}, []Row{{Match: 1, Values: []float64{1, 2}}}); !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("expected ErrSchemaMismatch for ragged row, got %v", err)
	}
}
