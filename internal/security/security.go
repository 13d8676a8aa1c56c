// Package security aggregates the per-match security spending table.
package security

import (
	"sort"

	"github.com/iwvelando/matchday-dashboard/internal/dataset"
	"github.com/iwvelando/matchday-dashboard/pkg/mathutil"
)

// Entry is one security cost of one match, in millions.
type Entry struct {
	Match int     `json:"match"`
	Item  string  `json:"item"`
	Cost  float64 `json:"cost"`
}

// Total is the cost of one item summed across all matches.
type Total struct {
	Item  string  `json:"item"`
	Cost  float64 `json:"cost"`
	Share float64 `json:"share"`
}

// Totals holds the per-item sums and their grand total.
type Totals struct {
	Items []Total `json:"items"`
	Grand float64 `json:"grand"`
}

// Flatten turns the wide table into long format, one entry per cell, in
// ascending match order and then column order.
func Flatten(table *dataset.Table) []Entry {
	items := table.Items()
	rows := table.Rows()
	entries := make([]Entry, 0, len(rows)*len(items))
	for _, row := range rows {
		for j, item := range items {
			entries = append(entries, Entry{Match: row.Match, Item: item, Cost: row.Values[j]})
		}
	}
	return entries
}

// Aggregate sums cost per item across every match. Items are sorted by name.
// Entries are always visited in match order, so the result does not depend on
// the row order of the sheet.
func Aggregate(table *dataset.Table) Totals {
	return Sum(Flatten(table))
}

// Sum groups entries by item and adds their costs in the order given.
func Sum(entries []Entry) Totals {
	byItem := make(map[string]float64)
	for _, entry := range entries {
		byItem[entry.Item] += entry.Cost
	}

	names := make([]string, 0, len(byItem))
	for name := range byItem {
		names = append(names, name)
	}
	sort.Strings(names)

	totals := Totals{Items: make([]Total, 0, len(names))}
	costs := make([]float64, 0, len(names))
	for _, name := range names {
		totals.Items = append(totals.Items, Total{Item: name, Cost: byItem[name]})
		costs = append(costs, byItem[name])
	}
	totals.Grand = mathutil.Sum(costs)
	for i := range totals.Items {
		totals.Items[i].Share = mathutil.CalculatePercentage(totals.Items[i].Cost, totals.Grand)
	}
	return totals
}

// Cost returns the total of one item.
func (t Totals) Cost(item string) (float64, bool) {
	i := sort.Search(len(t.Items), func(i int) bool { return t.Items[i].Item >= item })
	if i < len(t.Items) && t.Items[i].Item == item {
		return t.Items[i].Cost, true
	}
	return 0, false
}

// Map returns the totals keyed by item.
func (t Totals) Map() map[string]float64 {
	out := make(map[string]float64, len(t.Items))
	for _, total := range t.Items {
		out[total.Item] = total.Cost
	}
	return out
}
