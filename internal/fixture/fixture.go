// Package fixture holds the home fixture schedule and the logistics spend
// table, and resolves a selected date to its match number.
package fixture

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/matchday-dashboard/pkg/datetime"
)

// ErrDateNotFound is returned when no fixture is played on the selected date.
var ErrDateNotFound = errors.New("date not found")

// Match is one home fixture.
type Match struct {
	Number   int
	Date     time.Time
	Opponent string
}

// FormattedDate returns the date the way it is offered for selection.
func (m Match) FormattedDate() string {
	return datetime.FormatDate(m.Date)
}

// Spend is the logistics cost attributed to one team, in millions.
type Spend struct {
	Team           string
	AmountMillions float64
}

// Schedule is an immutable, validated fixture list.
type Schedule struct {
	matches  []Match
	byNumber map[int]int
	byDate   map[string]int
}

// NewSchedule validates the fixture list and indexes it by number and date.
// Matches are kept in date order.
func NewSchedule(matches []Match) (*Schedule, error) {
	if len(matches) == 0 {
		return nil, errors.New("fixture list is empty")
	}

	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	s := &Schedule{
		matches:  sorted,
		byNumber: make(map[int]int, len(sorted)),
		byDate:   make(map[string]int, len(sorted)),
	}
	for i, match := range sorted {
		if match.Number <= 0 {
			return nil, fmt.Errorf("match number must be positive, got %d", match.Number)
		}
		if match.Date.IsZero() {
			return nil, fmt.Errorf("match %d has no date", match.Number)
		}
		if strings.TrimSpace(match.Opponent) == "" {
			return nil, fmt.Errorf("match %d has no opponent", match.Number)
		}
		if _, dup := s.byNumber[match.Number]; dup {
			return nil, fmt.Errorf("duplicate match number %d", match.Number)
		}
		date := match.FormattedDate()
		if other, dup := s.byDate[date]; dup {
			return nil, fmt.Errorf("matches %d and %d share date %s", sorted[other].Number, match.Number, date)
		}
		s.byNumber[match.Number] = i
		s.byDate[date] = i
	}
	return s, nil
}

// SelectMatch resolves a formatted date (2006-01-02) to its match number.
func (s *Schedule) SelectMatch(date string) (int, error) {
	i, ok := s.byDate[date]
	if !ok {
		return 0, fmt.Errorf("no match on %q: %w", date, ErrDateNotFound)
	}
	return s.matches[i].Number, nil
}

// Match returns the fixture with the given number.
func (s *Schedule) Match(number int) (Match, bool) {
	i, ok := s.byNumber[number]
	if !ok {
		return Match{}, false
	}
	return s.matches[i], true
}

// Matches returns a copy of the fixture list in date order.
func (s *Schedule) Matches() []Match {
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// Dates returns the selectable dates in date order.
func (s *Schedule) Dates() []string {
	dates := make([]string, len(s.matches))
	for i, match := range s.matches {
		dates[i] = match.FormattedDate()
	}
	return dates
}

// Len returns the number of fixtures.
func (s *Schedule) Len() int {
	return len(s.matches)
}
