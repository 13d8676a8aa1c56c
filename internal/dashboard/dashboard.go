// Package dashboard binds the fixture, spend, risk and security tables into
// one immutable handle and answers the per-selection queries over it.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/iwvelando/matchday-dashboard/internal/config"
	"github.com/iwvelando/matchday-dashboard/internal/dataset"
	"github.com/iwvelando/matchday-dashboard/internal/fixture"
	"github.com/iwvelando/matchday-dashboard/internal/risk"
	"github.com/iwvelando/matchday-dashboard/internal/security"
	"go.uber.org/zap"
)

// Tables are the inputs of a dashboard. Every table is read-only once the
// dashboard is built.
type Tables struct {
	Schedule *fixture.Schedule
	Spend    []fixture.Spend
	Risk     *dataset.Table
	Security *dataset.Table
}

// Dashboard answers queries over tables loaded once at startup. It holds no
// mutable state and is safe for concurrent use.
type Dashboard struct {
	logger     *zap.Logger
	schedule   *fixture.Schedule
	spend      []fixture.Spend
	summarizer *risk.Summarizer
	security   *dataset.Table
	totals     security.Totals
}

// View is everything derived for one selected date.
type View struct {
	Date     string       `json:"date"`
	Match    int          `json:"match"`
	Opponent string       `json:"opponent"`
	Risk     risk.Summary `json:"risk"`
}

// New builds a dashboard from tables already in memory.
func New(logger *zap.Logger, tables Tables, policy risk.Policy) (*Dashboard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tables.Schedule == nil {
		return nil, errors.New("fixture schedule is nil")
	}
	if tables.Security == nil {
		return nil, errors.New("security table is nil")
	}

	summarizer, err := risk.NewSummarizer(logger, tables.Risk, policy)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		logger:     logger,
		schedule:   tables.Schedule,
		spend:      append([]fixture.Spend(nil), tables.Spend...),
		summarizer: summarizer,
		security:   tables.Security,
		totals:     security.Aggregate(tables.Security),
	}

	d.warnUnscheduled(tables.Risk, "risk")
	d.warnUnscheduled(tables.Security, "security")
	for _, match := range d.schedule.Matches() {
		if !tables.Risk.Has(match.Number) {
			logger.Warn("scheduled match has no risk ratings",
				zap.String("op", "dashboard.New"),
				zap.Int("match", match.Number),
				zap.String("date", match.FormattedDate()),
			)
		}
	}

	logger.Info("dashboard ready",
		zap.String("op", "dashboard.New"),
		zap.Int("matches", d.schedule.Len()),
		zap.Int("riskRows", tables.Risk.Len()),
		zap.Int("securityRows", tables.Security.Len()),
		zap.Int("securityItems", len(d.totals.Items)),
		zap.String("policy", string(summarizer.Policy())),
	)
	return d, nil
}

func (d *Dashboard) warnUnscheduled(table *dataset.Table, kind string) {
	for _, match := range table.Matches() {
		if _, ok := d.schedule.Match(match); !ok {
			d.logger.Warn("row references a match that is not scheduled",
				zap.String("op", "dashboard.New"),
				zap.String("resource", kind),
				zap.Int("match", match),
			)
		}
	}
}

// Load reads both workbooks named by the configuration and builds the dashboard.
// Errors name the resource and sheet that failed.
func Load(logger *zap.Logger, conf config.Configuration) (*Dashboard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	schedule, err := conf.Schedule()
	if err != nil {
		return nil, fmt.Errorf("failed to build fixture schedule: %w", err)
	}

	riskTable, err := dataset.Load(conf.RiskSource())
	if err != nil {
		return nil, fmt.Errorf("failed to load risk ratings: %w", err)
	}
	logger.Debug("loaded risk ratings",
		zap.String("op", "dashboard.Load"),
		zap.Stringer("resource", conf.RiskSource()),
		zap.Int("rows", riskTable.Len()),
		zap.Strings("items", riskTable.Items()),
	)

	securityTable, err := dataset.Load(conf.SecuritySource())
	if err != nil {
		return nil, fmt.Errorf("failed to load security spending: %w", err)
	}
	logger.Debug("loaded security spending",
		zap.String("op", "dashboard.Load"),
		zap.Stringer("resource", conf.SecuritySource()),
		zap.Int("rows", securityTable.Len()),
		zap.Strings("items", securityTable.Items()),
	)

	return New(logger, Tables{
		Schedule: schedule,
		Spend:    conf.SpendTable(),
		Risk:     riskTable,
		Security: securityTable,
	}, conf.RatingPolicy())
}

// Policy returns the invalid-rating policy the dashboard summarizes with.
func (d *Dashboard) Policy() risk.Policy {
	return d.summarizer.Policy()
}

// SelectMatch resolves a formatted date to its match number.
func (d *Dashboard) SelectMatch(date string) (int, error) {
	return d.schedule.SelectMatch(date)
}

// Dates returns the selectable match dates in date order.
func (d *Dashboard) Dates() []string {
	return d.schedule.Dates()
}

// Match returns the fixture with the given number.
func (d *Dashboard) Match(number int) (fixture.Match, bool) {
	return d.schedule.Match(number)
}

// Matches returns the fixtures in date order.
func (d *Dashboard) Matches() []fixture.Match {
	return d.schedule.Matches()
}

// RiskSummary returns the risk histogram and mean rating of a match.
func (d *Dashboard) RiskSummary(match int) (risk.Summary, error) {
	return d.summarizer.Summarize(match)
}

// RiskSummaries returns the summary of every match with risk ratings.
func (d *Dashboard) RiskSummaries() ([]risk.Summary, error) {
	return d.summarizer.SummarizeAll()
}

// SecurityTotals returns the per-item security spending summed over all matches.
func (d *Dashboard) SecurityTotals() security.Totals {
	out := d.totals
	out.Items = append([]security.Total(nil), d.totals.Items...)
	return out
}

// SecurityEntries returns the security table in long format.
func (d *Dashboard) SecurityEntries() []security.Entry {
	return security.Flatten(d.security)
}

// SpendByTeam returns the logistics spend table.
func (d *Dashboard) SpendByTeam() []fixture.Spend {
	return append([]fixture.Spend(nil), d.spend...)
}

// View derives the risk view of the match played on date.
func (d *Dashboard) View(date string) (View, error) {
	number, err := d.schedule.SelectMatch(date)
	if err != nil {
		return View{}, err
	}
	match, _ := d.schedule.Match(number)

	summary, err := d.summarizer.Summarize(number)
	if err != nil {
		return View{}, err
	}

	return View{
		Date:     date,
		Match:    number,
		Opponent: match.Opponent,
		Risk:     summary,
	}, nil
}
