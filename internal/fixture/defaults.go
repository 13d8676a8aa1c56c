package fixture

import (
	"github.com/iwvelando/matchday-dashboard/pkg/datetime"
)

var defaultFixtures = []struct {
	date     string
	opponent string
}{
	{"27-03-2025", "PALESTINO"},
	{"27-04-2025", "COQUIMBO UNIDO"},
	{"18-05-2025", "ÑUBLENSE"},
	{"25-05-2025", "UNION ESPAÑOLA"},
	{"15-06-2025", "COBRESAL"},
	{"20-07-2025", "LA SERENA"},
	{"03-08-2025", "HUACHIPATO"},
	{"17-08-2025", "UNIVERSIDAD CATÓLICA"},
	{"31-08-2025", "UNIVERSIDAD DE CHILE"},
	{"14-09-2025", "DEPORTES IQUIQUE"},
	{"26-10-2025", "DEPORTES LIMACHE"},
	{"23-11-2025", "UNION LA CALERA"},
	{"07-12-2025", "AUDAX ITALIANO"},
}

var defaultSpend = []Spend{
	{Team: "UNIVERSIDAD DE CHILE", AmountMillions: 35.5},
	{Team: "LA SERENA", AmountMillions: 11.4},
	{Team: "UNIVERSIDAD CATOLICA", AmountMillions: 48.1},
	{Team: "O'HIGGINS", AmountMillions: 67.3},
	{Team: "DEPORTES IQUIQUE", AmountMillions: 34.4},
	{Team: "COBRESAL", AmountMillions: 43.1},
	{Team: "UNION ESPAÑOLA", AmountMillions: 32.5},
	{Team: "AUDAX ITALIANO", AmountMillions: 11.7},
	{Team: "EVERTON CD", AmountMillions: 13.3},
	{Team: "PALESTINO", AmountMillions: 19.3},
	{Team: "HUACHIPATO", AmountMillions: 24.8},
	{Team: "DEPORTES LIMACHE", AmountMillions: 36.7},
	{Team: "COQUIMBO UNIDO", AmountMillions: 12.7},
}

// DefaultMatches returns the season's home fixtures, numbered in schedule order.
func DefaultMatches() []Match {
	matches := make([]Match, len(defaultFixtures))
	for i, f := range defaultFixtures {
		matches[i] = Match{
			Number:   i + 1,
			Date:     datetime.MustParseTime(datetime.SourceDateLayout, f.date),
			Opponent: f.opponent,
		}
	}
	return matches
}

// DefaultSchedule returns the validated default fixture list.
func DefaultSchedule() *Schedule {
	s, err := NewSchedule(DefaultMatches())
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSpend returns a copy of the logistics spend table.
func DefaultSpend() []Spend {
	out := make([]Spend, len(defaultSpend))
	copy(out, defaultSpend)
	return out
}
