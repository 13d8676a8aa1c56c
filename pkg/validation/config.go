// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName normalizes a team name for comparison: accents are stripped, case is
// folded and surrounding whitespace is removed.
func FoldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

// ValidateSpendAmount flags logistics amounts that cannot be right.
func ValidateSpendAmount(team string, amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("Spend for team '%s' is negative (%.1f)", team, amount)
	}
	return ""
}

// ConfigValidator cross-checks the fixture schedule against the spend table.
type ConfigValidator struct {
	Fixtures []FixtureConfig
	Spend    []SpendConfig
}

type FixtureConfig struct {
	Number   int
	Date     string
	Opponent string
}

type SpendConfig struct {
	Team   string
	Amount float64
}

// ValidateAll validates the fixture and spend tables and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	exact := make(map[string]struct{}, len(cv.Spend))
	folded := make(map[string]string, len(cv.Spend))
	for _, spend := range cv.Spend {
		exact[spend.Team] = struct{}{}
		folded[FoldName(spend.Team)] = spend.Team
		if warning := ValidateSpendAmount(spend.Team, spend.Amount); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	// Check every opponent has a spend row
	for _, fixture := range cv.Fixtures {
		if _, ok := exact[fixture.Opponent]; ok {
			continue
		}
		if team, ok := folded[FoldName(fixture.Opponent)]; ok {
			warnings = append(warnings, fmt.Sprintf("Match %d opponent '%s' only matches spend team '%s' after folding accents or case",
				fixture.Number, fixture.Opponent, team))
			continue
		}
		warnings = append(warnings, fmt.Sprintf("Match %d opponent '%s' has no logistics spend row",
			fixture.Number, fixture.Opponent))
	}

	return warnings
}
