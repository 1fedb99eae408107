// Package format renders currency, percentages and scores for reports.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a dollar amount with cents and thousands separators
// (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return signed(amount, printer.Sprintf("%.2f", math.Abs(amount)))
}

// Dollars returns a whole-dollar amount (e.g., "$10,000,000"). Used for
// purchase prices and T12M totals where cents are noise.
func Dollars(amount float64) string {
	return signed(amount, printer.Sprintf("%.0f", math.Abs(amount)))
}

func signed(amount float64, digits string) string {
	if amount < 0 && strings.Trim(digits, "0.,") != "" {
		return "-$" + digits
	}
	return "$" + digits
}

// Percent formats a fraction as a percentage with one decimal (0.125 -> "12.5%").
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// PercentPtr formats an optional fraction, returning "n/a" when nil.
func PercentPtr(fraction *float64) string {
	if fraction == nil {
		return "n/a"
	}
	return Percent(*fraction)
}

// Multiple formats a ratio with an "x" suffix (e.g., "1.25x").
func Multiple(ratio float64) string {
	return fmt.Sprintf("%.2fx", ratio)
}

// Score formats a 0-100 score with one decimal.
func Score(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// ScorePtr formats an optional score, returning "n/a" when nil.
func ScorePtr(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return Score(*score)
}
