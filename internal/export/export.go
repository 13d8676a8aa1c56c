// Package export writes the dashboard tables and derived summaries to an
// .xlsx workbook.
package export

import (
	"fmt"

	"github.com/iwvelando/matchday-dashboard/internal/dashboard"
	"github.com/iwvelando/matchday-dashboard/internal/risk"
	"github.com/iwvelando/matchday-dashboard/pkg/mathutil"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SpendSheet    = "Gastos"
	SecuritySheet = "Seguridad"
	RiskSheet     = "Riesgo"
)

// Workbook builds a workbook with the spend table, the security totals and
// one risk summary row per match. The caller must Close the returned file.
func Workbook(d *dashboard.Dashboard) (*excelize.File, error) {
	summaries, err := d.RiskSummaries()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SpendSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{SecuritySheet, RiskSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := writeSpend(f, d); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeSecurity(f, d); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeRisk(f, d, summaries); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	return f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values)
}

func writeSpend(f *excelize.File, d *dashboard.Dashboard) error {
	if err := setRow(f, SpendSheet, 1, []interface{}{"EQUIPO", "GASTOS_MM"}); err != nil {
		return err
	}
	for i, s := range d.SpendByTeam() {
		if err := setRow(f, SpendSheet, i+2, []interface{}{s.Team, s.AmountMillions}); err != nil {
			return err
		}
	}
	return nil
}

func writeSecurity(f *excelize.File, d *dashboard.Dashboard) error {
	totals := d.SecurityTotals()
	if err := setRow(f, SecuritySheet, 1, []interface{}{"ITEM", "COSTO_MM", "PORCENTAJE"}); err != nil {
		return err
	}
	for i, total := range totals.Items {
		if err := setRow(f, SecuritySheet, i+2, []interface{}{total.Item, total.Cost, total.Share}); err != nil {
			return err
		}
	}
	return setRow(f, SecuritySheet, len(totals.Items)+2, []interface{}{"TOTAL", totals.Grand, 100.0})
}

func writeRisk(f *excelize.File, d *dashboard.Dashboard, summaries []risk.Summary) error {
	header := []interface{}{"NUMERO_PARTIDO", "FECHA", "EQUIPO_RIVAL"}
	for _, level := range risk.Levels {
		header = append(header, level.String())
	}
	header = append(header, "PROMEDIO_RIESGO", "RECHAZADOS")
	if err := setRow(f, RiskSheet, 1, header); err != nil {
		return err
	}

	for i, summary := range summaries {
		date, opponent := "", ""
		if match, ok := d.Match(summary.Match); ok {
			date, opponent = match.FormattedDate(), match.Opponent
		}
		row := []interface{}{summary.Match, date, opponent}
		for _, c := range summary.Counts {
			row = append(row, c.Count)
		}
		row = append(row, mathutil.Round(summary.Mean), len(summary.Rejected))
		if err := setRow(f, RiskSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
