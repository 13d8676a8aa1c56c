package format

import (
	"fmt"
	"math"
	"strings"
)

// Millions returns an amount in millions with one decimal and the MM$ suffix (e.g., "1,234.5 MM$").
func Millions(amount float64) string {
	return NumericMillions(amount) + " MM$"
}

// NumericMillions returns an amount in millions with one decimal and separators but no suffix (e.g., "-1,234.5").
func NumericMillions(amount float64) string {
	sign := ""
	if amount < 0 && math.Abs(amount) >= 0.05 {
		sign = "-"
	}
	return sign + formatPositive(math.Abs(amount))
}

func formatPositive(value float64) string {
	formatted := fmt.Sprintf("%.1f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "0"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
