// Package normalize turns messy spreadsheet text into typed values.
// Every function here is total: unparsable input degrades to zero (or an
// open bound) instead of returning an error, so the matching pipeline
// never has to handle a parse failure mid-sort.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumeric    = regexp.MustCompile(`[^\d.-]`)
	digitsAndDots = regexp.MustCompile(`[^\d.]`)
	firstDigits   = regexp.MustCompile(`\d+`)
)

// CleanNumber strips everything that is not a digit, dot or minus sign
// and parses the remainder as a decimal. Null-ish cells ("", "N/A")
// and parse failures yield 0.
func CleanNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return 0
	}
	n, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(value, ""), 64)
	if err != nil {
		return 0
	}
	return n
}

// LoanRange parses "min-max" text into numeric bounds. Empty text means
// fully open; a missing or unparsable upper segment means unbounded.
func LoanRange(text string) (min, max float64) {
	if strings.TrimSpace(text) == "" {
		return 0, math.Inf(1)
	}
	parts := strings.Split(text, "-")
	min = CleanNumber(parts[0])
	max = math.Inf(1)
	if len(parts) >= 2 {
		if upper := CleanNumber(parts[1]); upper != 0 {
			max = upper
		}
	}
	return min, max
}

// TermYears extracts the first run of digits anywhere in a term
// descriptor ("5 years", "up to 7yrs"). Subsequent digit groups are
// ignored; no digits means 0.
func TermYears(text string) int {
	if text == "" {
		return 0
	}
	match := firstDigits.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// LoanAmount parses loan amount text such as "£15k", "15,000" or
// "15000\nGBP". The "k" suffix check must run against the lower-cased
// original text, before the digit strip removes the letter itself.
func LoanAmount(text string) float64 {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)

	amount, err := strconv.ParseFloat(digitsAndDots.ReplaceAllString(text, ""), 64)
	if err != nil {
		amount = 0
	}
	if strings.Contains(text, "k") {
		amount *= 1000
	}
	return amount
}
