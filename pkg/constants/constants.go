// Package constants provides shared constants for the carescore application.
package constants

// Facility types understood by the market scoring engine.
const (
	// FacilityTypeSNF is a skilled nursing facility.
	FacilityTypeSNF = "SNF"

	// FacilityTypeALF is an assisted living facility.
	FacilityTypeALF = "ALF"
)

// Score bounds
const (
	// MinScore is the lower bound of every sub-score and weighted score.
	MinScore = 0.0

	// MaxScore is the upper bound of every sub-score and weighted score.
	MaxScore = 100.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ToleranceForComparison is the tolerance used when comparing scores in tests and warnings.
	ToleranceForComparison = 0.0001

	// WeightSumTolerance is how far a weight set may drift from 1.0 before validation fails.
	WeightSumTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the indented JSON output format
	OutputFormatJSON = "json"

	// OutputFormatMarkdown is a markdown report
	OutputFormatMarkdown = "markdown"

	// OutputFormatHTML is the markdown report rendered to HTML
	OutputFormatHTML = "html"
)

// OutputFormats lists every supported output format in display order.
var OutputFormats = []string{
	OutputFormatPretty,
	OutputFormatCSV,
	OutputFormatJSON,
	OutputFormatMarkdown,
	OutputFormatHTML,
}

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (CARESCORE_LOGGING_LEVEL, ...)
	EnvPrefix = "CARESCORE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (1 MB)
	DefaultMaxBodySizeBytes int64 = 1024 * 1024

	// DefaultRateLimitPerSecond is the default sustained request rate for the API
	DefaultRateLimitPerSecond = 50

	// DefaultBatchConcurrency is the default number of markets scored in parallel
	DefaultBatchConcurrency = 8

	// MaxBatchSize caps the number of markets accepted in one batch request
	MaxBatchSize = 1000
)
