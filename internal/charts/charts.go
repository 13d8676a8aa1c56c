// Package charts renders the dashboard figures as PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/iwvelando/matchday-dashboard/internal/fixture"
	"github.com/iwvelando/matchday-dashboard/internal/risk"
	"github.com/iwvelando/matchday-dashboard/internal/security"
	"github.com/iwvelando/matchday-dashboard/pkg/format"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a figure would have nothing to draw.
var ErrNoData = errors.New("no data to chart")

const (
	width    = 1024
	height   = 512
	barWidth = 50
)

// Gauge band colors, lowest level first.
var levelColors = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorYellow,
	chart.ColorOrange,
	chart.ColorRed,
}

func barStyle(col drawing.Color) chart.Style {
	return chart.Style{
		FillColor:   col,
		StrokeColor: col,
		StrokeWidth: 1,
	}
}

func render(w io.Writer, title string, bars []chart.Value) error {
	if len(bars) == 0 {
		return ErrNoData
	}

	top := 0.0
	for _, bar := range bars {
		if bar.Value > top {
			top = bar.Value
		}
	}
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", title, err)
	}
	return nil
}

// SpendByTeam draws logistics spend per team.
func SpendByTeam(w io.Writer, spend []fixture.Spend) error {
	bars := make([]chart.Value, 0, len(spend))
	for _, s := range spend {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s\n%s", s.Team, format.Millions(s.AmountMillions)),
			Value: s.AmountMillions,
			Style: barStyle(chart.ColorBlue),
		})
	}
	return render(w, "Gastos Logísticos por Partido", bars)
}

// SecurityTotals draws the total invested per security item.
func SecurityTotals(w io.Writer, totals security.Totals) error {
	bars := make([]chart.Value, 0, len(totals.Items))
	for _, total := range totals.Items {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s\n%s", total.Item, format.Millions(total.Cost)),
			Value: total.Cost,
			Style: barStyle(chart.ColorCyan),
		})
	}
	return render(w, "Inversión Total en Seguridad", bars)
}

// SecurityShare draws how the security investment splits across items.
func SecurityShare(w io.Writer, totals security.Totals) error {
	if len(totals.Items) == 0 || totals.Grand <= 0 {
		return ErrNoData
	}

	values := make([]chart.Value, 0, len(totals.Items))
	for _, total := range totals.Items {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", total.Item, total.Share),
			Value: total.Cost,
		})
	}

	pie := chart.PieChart{
		Title:  "Distribución de Inversión en Seguridad",
		Width:  height,
		Height: height,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render security share: %w", err)
	}
	return nil
}

// RiskLevels draws the level histogram of one match, colored like the gauge bands.
func RiskLevels(w io.Writer, summary risk.Summary) error {
	bars := make([]chart.Value, 0, len(summary.Counts))
	for _, c := range summary.Counts {
		bars = append(bars, chart.Value{
			Label: c.Level.String(),
			Value: float64(c.Count),
			Style: barStyle(levelColors[c.Level]),
		})
	}
	return render(w, fmt.Sprintf("Indicadores de Riesgo - Partido %d (promedio %.2f)", summary.Match, summary.Mean), bars)
}
