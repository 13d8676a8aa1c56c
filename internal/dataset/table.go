// Package dataset loads the per-match workbooks (risk ratings, security
// costs) into immutable in-memory tables keyed by match number.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/matchday-dashboard/pkg/constants"
)

// Load-time error taxonomy. Errors returned by this package wrap exactly one of these.
var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrMalformedResource = errors.New("malformed resource")
	ErrSchemaMismatch    = errors.New("schema mismatch")
)

// Source names a sheet inside a workbook.
type Source struct {
	Path      string
	Sheet     string
	KeyColumn string
}

func (s Source) keyColumn() string {
	if strings.TrimSpace(s.KeyColumn) == "" {
		return constants.DefaultKeyColumn
	}
	return strings.TrimSpace(s.KeyColumn)
}

func (s Source) String() string {
	return fmt.Sprintf("%s (sheet %s)", s.Path, s.Sheet)
}

func (s Source) errorf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", s, kind, fmt.Sprintf(format, args...))
}

// Row is one match worth of item values in column order.
type Row struct {
	Match  int
	Values []float64
}

// Cell is a single item value of a match.
type Cell struct {
	Item  string
	Value float64
}

// Table is an immutable wide table: one row per match, one column per item.
type Table struct {
	source Source
	items  []string
	rows   []Row
	index  map[int]int
}

// NewTable validates and indexes rows that were already parsed. Rows are
// stored in ascending match order.
func NewTable(src Source, items []string, rows []Row) (*Table, error) {
	if len(items) == 0 {
		return nil, src.errorf(ErrMalformedResource, "no item columns")
	}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			return nil, src.errorf(ErrMalformedResource, "column %d has no header", i+2)
		}
		if _, dup := seen[item]; dup {
			return nil, src.errorf(ErrMalformedResource, "duplicate column %q", item)
		}
		seen[item] = struct{}{}
	}

	t := &Table{
		source: src,
		items:  append([]string(nil), items...),
		rows:   make([]Row, 0, len(rows)),
		index:  make(map[int]int, len(rows)),
	}
	for _, row := range rows {
		if len(row.Values) != len(items) {
			return nil, src.errorf(ErrSchemaMismatch, "match %d has %d values for %d columns", row.Match, len(row.Values), len(items))
		}
		if _, dup := t.index[row.Match]; dup {
			return nil, src.errorf(ErrMalformedResource, "duplicate match number %d", row.Match)
		}
		t.index[row.Match] = 0
		t.rows = append(t.rows, Row{Match: row.Match, Values: append([]float64(nil), row.Values...)})
	}

	sort.Slice(t.rows, func(i, j int) bool { return t.rows[i].Match < t.rows[j].Match })
	for i, row := range t.rows {
		t.index[row.Match] = i
	}
	return t, nil
}

// Source returns where the table was read from.
func (t *Table) Source() Source {
	return t.source
}

// Items returns the item column names in sheet order.
func (t *Table) Items() []string {
	return append([]string(nil), t.items...)
}

// Matches returns the match numbers in ascending order.
func (t *Table) Matches() []int {
	matches := make([]int, len(t.rows))
	for i, row := range t.rows {
		matches[i] = row.Match
	}
	return matches
}

// Len returns the number of match rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the table has a row for match.
func (t *Table) Has(match int) bool {
	_, ok := t.index[match]
	return ok
}

// Cells returns the item values of one match in column order.
func (t *Table) Cells(match int) ([]Cell, bool) {
	i, ok := t.index[match]
	if !ok {
		return nil, false
	}
	cells := make([]Cell, len(t.items))
	for j, item := range t.items {
		cells[j] = Cell{Item: item, Value: t.rows[i].Values[j]}
	}
	return cells, true
}

// Rows returns a copy of every row in ascending match order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, row := range t.rows {
		out[i] = Row{Match: row.Match, Values: append([]float64(nil), row.Values...)}
	}
	return out
}
