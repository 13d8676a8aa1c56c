// Package risk classifies per-item risk ratings into levels and summarizes
// the ratings of a match.
package risk

import (
	"errors"
	"fmt"

	"github.com/iwvelando/matchday-dashboard/pkg/constants"
	"github.com/iwvelando/matchday-dashboard/pkg/mathutil"
)

// ErrInvalidRating is returned for a rating outside [0,5] or not a whole number.
var ErrInvalidRating = errors.New("invalid rating")

// Level is one of the five ordered risk categories.
type Level int

const (
	VeryLow Level = iota
	Low
	Medium
	High
	VeryHigh
)

// Levels lists every level from lowest to highest.
var Levels = []Level{VeryLow, Low, Medium, High, VeryHigh}

var labels = [...]string{
	VeryLow:  "Muy Bajo",
	Low:      "Bajo",
	Medium:   "Medio",
	High:     "Alto",
	VeryHigh: "Muy Alto",
}

// String returns the label shown for the level.
func (l Level) String() string {
	if l < VeryLow || l > VeryHigh {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return labels[l]
}

// MarshalText encodes the level as its label.
func (l Level) MarshalText() ([]byte, error) {
	if l < VeryLow || l > VeryHigh {
		return nil, fmt.Errorf("unknown risk level %d", int(l))
	}
	return []byte(labels[l]), nil
}

// UnmarshalText decodes a level from its label.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel returns the level with the given label.
func ParseLevel(label string) (Level, error) {
	for _, l := range Levels {
		if labels[l] == label {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown risk level %q", label)
}

// Classify maps a rating to its level: {0,1} Muy Bajo, 2 Bajo, 3 Medio,
// 4 Alto, 5 Muy Alto.
func Classify(rating float64) (Level, error) {
	if !mathutil.IsInteger(rating) || rating < constants.MinRating || rating > constants.MaxRating {
		return 0, fmt.Errorf("%w: %v is not a whole number in [%d,%d]", ErrInvalidRating, rating, constants.MinRating, constants.MaxRating)
	}
	switch int(rating) {
	case 0, 1:
		return VeryLow, nil
	case 2:
		return Low, nil
	case 3:
		return Medium, nil
	case 4:
		return High, nil
	default:
		return VeryHigh, nil
	}
}

// Band returns the gauge band a mean rating falls in. Bands are [0,1) [1,2)
// [2,3) [3,4) and [4,5], named after the level of the same rank. Means
// outside [0,5] are clamped.
func Band(mean float64) Level {
	switch {
	case mean < 1:
		return VeryLow
	case mean < 2:
		return Low
	case mean < 3:
		return Medium
	case mean < 4:
		return High
	default:
		return VeryHigh
	}
}
