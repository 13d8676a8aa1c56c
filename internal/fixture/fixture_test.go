package fixture

import (
	"errors"
	"testing"
	"time"

	"github.com/iwvelando/matchday-dashboard/pkg/datetime"
)

func TestDefaultScheduleSelectMatchIsBijective(t *testing.T) {
	s := DefaultSchedule()

	if s.Len() != 13 {
		t.Fatalf("expected 13 fixtures, got %d", s.Len())
	}

	seen := make(map[int]string)
	for _, date := range s.Dates() {
		number, err := s.SelectMatch(date)
		if err != nil {
			t.Fatalf("SelectMatch(%q) error = %v", date, err)
		}
		if other, dup := seen[number]; dup {
			t.Fatalf("dates %s and %s both resolve to match %d", other, date, number)
		}
		seen[number] = date

		match, ok := s.Match(number)
		if !ok {
			t.Fatalf("Match(%d) not found", number)
		}
		if match.FormattedDate() != date {
			t.Errorf("match %d date = %s, expected %s", number, match.FormattedDate(), date)
		}
	}

	for n := 1; n <= 13; n++ {
		if _, ok := seen[n]; !ok {
			t.Errorf("match %d is not reachable from any date", n)
		}
	}
}

func TestSelectMatch(t *testing.T) {
	s := DefaultSchedule()

	tests := []struct {
		name     string
		date     string
		expected int
		wantErr  error
	}{
		{name: "First match", date: "2025-03-27", expected: 1},
		{name: "Day-first source date", date: "2025-08-03", expected: 7},
		{name: "Last match", date: "2025-12-07", expected: 13},
		{name: "No match that day", date: "2025-03-28", wantErr: ErrDateNotFound},
		{name: "Source layout is not a selection key", date: "27-03-2025", wantErr: ErrDateNotFound},
		{name: "Empty", date: "", wantErr: ErrDateNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SelectMatch(tt.date)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SelectMatch(%q) error = %v, expected %v", tt.date, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectMatch(%q) error = %v", tt.date, err)
			}
			if got != tt.expected {
				t.Errorf("SelectMatch(%q) = %d, expected %d", tt.date, got, tt.expected)
			}
		})
	}
}

func TestNewScheduleValidation(t *testing.T) {
	day := func(s string) time.Time { return datetime.MustParseTime(datetime.DateLayout, s) }

	tests := []struct {
		name    string
		matches []Match
	}{
		{name: "Empty", matches: nil},
		{name: "Zero number", matches: []Match{{Number: 0, Date: day("2025-01-01"), Opponent: "A"}}},
		{name: "Missing date", matches: []Match{{Number: 1, Opponent: "A"}}},
		{name: "Missing opponent", matches: []Match{{Number: 1, Date: day("2025-01-01"), Opponent: " "}}},
		{name: "Duplicate number", matches: []Match{
			{Number: 1, Date: day("2025-01-01"), Opponent: "A"},
			{Number: 1, Date: day("2025-01-08"), Opponent: "B"},
		}},
		{name: "Duplicate date", matches: []Match{
			{Number: 1, Date: day("2025-01-01"), Opponent: "A"},
			{Number: 2, Date: day("2025-01-01"), Opponent: "B"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchedule(tt.matches); err == nil {
				t.Error("NewSchedule() expected error but got none")
			}
		})
	}
}

func TestScheduleOrdersByDateAndCopies(t *testing.T) {
	day := func(s string) time.Time { return datetime.MustParseTime(datetime.DateLayout, s) }
	s, err := NewSchedule([]Match{
		{Number: 2, Date: day("2025-02-01"), Opponent: "B"},
		{Number: 1, Date: day("2025-01-01"), Opponent: "A"},
	})
	if err != nil {
		t.Fatalf("NewSchedule() error = %v", err)
	}

	dates := s.Dates()
	if dates[0] != "2025-01-01" || dates[1] != "2025-02-01" {
		t.Fatalf("Dates() = %v, expected date order", dates)
	}

	matches := s.Matches()
	matches[0].Opponent = "changed"
	if m, _ := s.Match(1); m.Opponent != "A" {
		t.Errorf("schedule was mutated through Matches(): %+v", m)
	}
}

func TestDefaultSpend(t *testing.T) {
	spend := DefaultSpend()
	if len(spend) != 13 {
		t.Fatalf("expected 13 spend rows, got %d", len(spend))
	}
	if spend[0].Team != "UNIVERSIDAD DE CHILE" || spend[0].AmountMillions != 35.5 {
		t.Errorf("unexpected first spend row %+v", spend[0])
	}

	spend[0].AmountMillions = 0
	if DefaultSpend()[0].AmountMillions != 35.5 {
		t.Error("DefaultSpend() returned shared storage")
	}
}
