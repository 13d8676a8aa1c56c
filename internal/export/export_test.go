package export

import (
	"testing"

	"github.com/iwvelando/matchday-dashboard/internal/dashboard"
	"github.com/iwvelando/matchday-dashboard/internal/dataset"
	"github.com/iwvelando/matchday-dashboard/internal/fixture"
	"github.com/iwvelando/matchday-dashboard/internal/risk"
	"go.uber.org/zap"
)

func newDashboard(t *testing.T, policy risk.Policy, ratings []float64) *dashboard.Dashboard {
	t.Helper()
	riskTable, err := dataset.NewTable(dataset.Source{Path: "r.xlsx", Sheet: "Riesgo"},
		[]string{"Hinchas", "Clima", "Rivalidad", "Transporte", "Estadio"},
		[]dataset.Row{{Match: 1, Values: ratings}, {Match: 2, Values: []float64{5, 5, 5, 5, 5}}})
	if err != nil {
		t.Fatal(err)
	}
	securityTable, err := dataset.NewTable(dataset.Source{Path: "s.xlsx", Sheet: "Seguridad"},
		[]string{"Guardias", "Cámaras"},
		[]dataset.Row{{Match: 1, Values: []float64{1, 2}}, {Match: 2, Values: []float64{1, 3.5}}})
	if err != nil {
		t.Fatal(err)
	}

	d, err := dashboard.New(zap.NewNop(), dashboard.Tables{
		Schedule: fixture.DefaultSchedule(),
		Spend:    fixture.DefaultSpend(),
		Risk:     riskTable,
		Security: securityTable,
	}, policy)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestWorkbook(t *testing.T) {
	f, err := Workbook(newDashboard(t, risk.PolicySkip, []float64{0, 2, 3, 3, 5}))
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != SpendSheet || sheets[1] != SecuritySheet || sheets[2] != RiskSheet {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	spend, err := f.GetRows(SpendSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(spend) != 14 || spend[1][0] != "UNIVERSIDAD DE CHILE" || spend[1][1] != "35.5" {
		t.Errorf("unexpected spend rows %v", spend[:2])
	}

	sec, err := f.GetRows(SecuritySheet)
	if err != nil {
		t.Fatal(err)
	}
	// Items are sorted by name and followed by a total row.
	if len(sec) != 4 || sec[1][0] != "Cámaras" || sec[1][1] != "5.5" || sec[3][0] != "TOTAL" || sec[3][1] != "7.5" {
		t.Errorf("unexpected security rows %v", sec)
	}

	rows, err := f.GetRows(RiskSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %v", rows)
	}
	if rows[0][3] != "Muy Bajo" || rows[0][8] != "PROMEDIO_RIESGO" {
		t.Errorf("unexpected header %v", rows[0])
	}
	want := []string{"1", "2025-03-27", "PALESTINO", "1", "1", "2", "0", "1", "2.6", "0"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("risk row cell %d = %q, expected %q", i, rows[1][i], cell)
		}
	}
}

func TestWorkbookRoundsRiskMean(t *testing.T) {
	// Two ratings are skipped, leaving 1, 1 and 2.
	f, err := Workbook(newDashboard(t, risk.PolicySkip, []float64{1, 1, 2, 9, 9}))
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(RiskSheet)
	if err != nil {
		t.Fatal(err)
	}
	if rows[1][8] != "1.3" || rows[1][9] != "2" {
		t.Errorf("mean and rejected = %q, %q, expected \"1.3\", \"2\"", rows[1][8], rows[1][9])
	}
}

func TestWorkbookRejectPolicyFails(t *testing.T) {
	if _, err := Workbook(newDashboard(t, risk.PolicyReject, []float64{0, 2, 3, 3, 9})); err == nil {
		t.Error("expected error when a rating is invalid under the reject policy")
	}
}
