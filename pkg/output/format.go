// Package output provides utilities for formatting and displaying a dashboard report.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/matchday-dashboard/internal/dashboard"
	"github.com/iwvelando/matchday-dashboard/internal/fixture"
	"github.com/iwvelando/matchday-dashboard/internal/security"
	"github.com/iwvelando/matchday-dashboard/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is everything printed for one selected date.
type Report struct {
	View     dashboard.View
	Spend    []fixture.Spend
	Security security.Totals
}

// NewReport derives the report for the match played on date.
func NewReport(d *dashboard.Dashboard, date string) (Report, error) {
	view, err := d.View(date)
	if err != nil {
		return Report{}, err
	}
	return Report{
		View:     view,
		Spend:    d.SpendByTeam(),
		Security: d.SecurityTotals(),
	}, nil
}

// printer writes through a message printer and keeps the first error.
type printer struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func (pr *printer) printf(format string, args ...interface{}) {
	if pr.err != nil {
		return
	}
	_, pr.err = pr.p.Fprintf(pr.w, format, args...)
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report Report) error {
	pr := &printer{p: message.NewPrinter(language.English), w: w}
	view := report.View

	pr.printf("--- Match %d: %s (%s) ---\n", view.Match, view.Opponent, view.Date)
	pr.printf("Level    | Items\n")
	pr.printf("_____    | _____\n")
	for _, c := range view.Risk.Counts {
		pr.printf("%-8s | %d\n", c.Level.String(), c.Count)
	}
	pr.printf("Mean rating: %.1f (%s)\n", view.Risk.Mean, view.Risk.Band.String())
	for _, r := range view.Risk.Rejected {
		pr.printf("Rejected rating: %s = %v\n", r.Item, r.Rating)
	}

	pr.printf("\n--- Logistics spend by team ---\n")
	pr.printf("Team | Amount\n")
	pr.printf("____ | ______\n")
	for _, s := range report.Spend {
		pr.printf("%s | %s\n", s.Team, format.Millions(s.AmountMillions))
	}

	pr.printf("\n--- Security spending ---\n")
	pr.printf("Item | Cost | Share\n")
	pr.printf("____ | ____ | _____\n")
	for _, total := range report.Security.Items {
		pr.printf("%s | %s | %.1f%%\n", total.Item, format.Millions(total.Cost), total.Share)
	}
	pr.printf("Total | %s\n", format.Millions(report.Security.Grand))

	return pr.err
}

// CsvFormat writes the report in comma-separated value format, one
// section,name,value record per figure.
func CsvFormat(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)
	view := report.View
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	records := [][]string{
		{"section", "name", "value"},
		{"match", "number", strconv.Itoa(view.Match)},
		{"match", "date", view.Date},
		{"match", "opponent", view.Opponent},
	}
	for _, c := range view.Risk.Counts {
		records = append(records, []string{"risk", c.Level.String(), strconv.Itoa(c.Count)})
	}
	records = append(records,
		[]string{"risk", "mean", num(view.Risk.Mean)},
		[]string{"risk", "band", view.Risk.Band.String()},
	)
	for _, r := range view.Risk.Rejected {
		records = append(records, []string{"rejected", r.Item, num(r.Rating)})
	}
	for _, s := range report.Spend {
		records = append(records, []string{"spend", s.Team, num(s.AmountMillions)})
	}
	for _, total := range report.Security.Items {
		records = append(records, []string{"security", total.Item, num(total.Cost)})
	}
	records = append(records, []string{"security", "total", num(report.Security.Grand)})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv report: %w", err)
	}
	return nil
}
