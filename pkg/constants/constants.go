// Package constants provides shared constants for the matchday-dashboard application.
package constants

import "time"

// DateLayout is the format used to present and select fixture dates.
const DateLayout = "2006-01-02"

// SourceDateLayout is the day-first format the fixture list is written in.
const SourceDateLayout = "02-01-2006"

// Rating constants
const (
	// MinRating is the lowest valid risk rating
	MinRating = 0

	// MaxRating is the highest valid risk rating
	MaxRating = 5

	// DecimalPrecision is the precision for amount rounding (1 decimal place)
	DecimalPrecision = 10
)

// Resource constants
const (
	// DefaultKeyColumn is the header of the match-number column in both workbooks
	DefaultKeyColumn = "NUMERO_PARTIDO"

	// DefaultRiskFile is the default risk workbook
	DefaultRiskFile = "riesgo_partidos.xlsx"

	// DefaultRiskSheet is the sheet holding risk ratings
	DefaultRiskSheet = "Riesgo"

	// DefaultSecurityFile is the default security spending workbook
	DefaultSecurityFile = "seguridad_partidos.xlsx"

	// DefaultSecuritySheet is the sheet holding security costs
	DefaultSecuritySheet = "Seguridad"
)

// Rating policy constants
const (
	// RatingPolicySkip drops invalid rating cells and reports them with the summary
	RatingPolicySkip = "skip"

	// RatingPolicyReject fails the whole summary on the first invalid rating cell
	RatingPolicyReject = "reject"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for workbook previews (4 MB)
	DefaultMaxUploadSizeBytes int64 = 4 * 1024 * 1024

	// DefaultShutdownTimeout bounds how long in-flight requests may run after a shutdown signal
	DefaultShutdownTimeout = 10 * time.Second
)

// Validation constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
