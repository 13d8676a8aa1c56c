package risk

import (
	"errors"
	"fmt"

	"github.com/iwvelando/matchday-dashboard/internal/dataset"
	"github.com/iwvelando/matchday-dashboard/pkg/constants"
	"github.com/iwvelando/matchday-dashboard/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrMatchNotFound is returned when the risk table has no row for a match.
var ErrMatchNotFound = errors.New("match not found")

// Policy decides what happens to a rating cell that cannot be classified.
type Policy string

const (
	// PolicySkip drops the cell from counts and mean and reports it in Summary.Rejected.
	PolicySkip Policy = constants.RatingPolicySkip
	// PolicyReject fails the whole summary.
	PolicyReject Policy = constants.RatingPolicyReject
)

// LevelCount is the number of items of a match at one level.
type LevelCount struct {
	Level Level `json:"level"`
	Count int   `json:"count"`
}

// Rejection is a rating cell that could not be classified.
type Rejection struct {
	Item   string  `json:"item"`
	Rating float64 `json:"rating"`
}

// Summary is the risk histogram and mean rating of one match.
type Summary struct {
	Match    int          `json:"match"`
	Counts   []LevelCount `json:"counts"`
	Mean     float64      `json:"mean"`
	Band     Level        `json:"band"`
	Items    int          `json:"items"`
	Rejected []Rejection  `json:"rejected,omitempty"`
}

// Count returns the number of items at level.
func (s Summary) Count(level Level) int {
	for _, c := range s.Counts {
		if c.Level == level {
			return c.Count
		}
	}
	return 0
}

// Total returns the number of classified items.
func (s Summary) Total() int {
	total := 0
	for _, c := range s.Counts {
		total += c.Count
	}
	return total
}

// Summarizer computes summaries over one risk table.
type Summarizer struct {
	logger *zap.Logger
	table  *dataset.Table
	policy Policy
}

// NewSummarizer binds a summarizer to a risk table. An empty policy means PolicySkip.
func NewSummarizer(logger *zap.Logger, table *dataset.Table, policy Policy) (*Summarizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		return nil, errors.New("risk table is nil")
	}
	switch policy {
	case "":
		policy = PolicySkip
	case PolicySkip, PolicyReject:
	default:
		return nil, fmt.Errorf("unknown rating policy %q", policy)
	}
	return &Summarizer{logger: logger, table: table, policy: policy}, nil
}

// Policy returns the invalid-rating policy in effect.
func (s *Summarizer) Policy() Policy {
	return s.policy
}

// Summarize tallies the ratings of match per level and averages the raw
// ratings. The mean is taken over the accepted ratings, not the counts.
func (s *Summarizer) Summarize(match int) (Summary, error) {
	cells, ok := s.table.Cells(match)
	if !ok {
		return Summary{}, fmt.Errorf("risk summary for match %d: %w", match, ErrMatchNotFound)
	}

	counts := make([]int, len(Levels))
	accepted := make([]float64, 0, len(cells))
	var rejected []Rejection
	for _, cell := range cells {
		level, err := Classify(cell.Value)
		if err != nil {
			if s.policy == PolicyReject {
				return Summary{}, fmt.Errorf("risk summary for match %d, item %s: %w", match, cell.Item, err)
			}
			s.logger.Warn("skipping invalid rating",
				zap.String("op", "risk.Summarize"),
				zap.Int("match", match),
				zap.String("item", cell.Item),
				zap.Float64("rating", cell.Value),
			)
			rejected = append(rejected, Rejection{Item: cell.Item, Rating: cell.Value})
			continue
		}
		counts[level]++
		accepted = append(accepted, cell.Value)
	}

	summary := Summary{
		Match:    match,
		Counts:   make([]LevelCount, len(Levels)),
		Mean:     mathutil.Mean(accepted),
		Items:    len(cells),
		Rejected: rejected,
	}
	for i, level := range Levels {
		summary.Counts[i] = LevelCount{Level: level, Count: counts[level]}
	}
	summary.Band = Band(summary.Mean)
	return summary, nil
}

// SummarizeAll summarizes every match of the table in ascending match order.
func (s *Summarizer) SummarizeAll() ([]Summary, error) {
	matches := s.table.Matches()
	summaries := make([]Summary, 0, len(matches))
	for _, match := range matches {
		summary, err := s.Summarize(match)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
