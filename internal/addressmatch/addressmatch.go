// Package addressmatch builds the comparison key used by the do-not-mail list.
// Two addresses are considered the same iff their keys are equal.
package addressmatch

import (
	"strings"
	"unicode"
)

var abbreviations = map[string]string{
	"STREET":    "ST",
	"AVENUE":    "AVE",
	"ROAD":      "RD",
	"DRIVE":     "DR",
	"BOULEVARD": "BLVD",
	"LANE":      "LN",
	"COURT":     "CT",
	"PLACE":     "PL",
	"NORTH":     "N",
	"SOUTH":     "S",
	"EAST":      "E",
	"WEST":      "W",
	"APARTMENT": "APT",
	"SUITE":     "STE",
}

const postalPrefixLen = 5

// NormalizeLine upper-cases the line, turns punctuation into spaces, collapses
// whitespace and abbreviates street suffixes and directionals.
func NormalizeLine(line string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return ' '
	}, line)
	words := strings.Fields(cleaned)
	for i, w := range words {
		if abbr, ok := abbreviations[w]; ok {
			words[i] = abbr
		}
	}
	return strings.Join(words, " ")
}

// NormalizePostal keeps the first five letters or digits, upper-cased.
// "12345-6789" and "12345" compare equal.
func NormalizePostal(postal string) string {
	var b strings.Builder
	n := 0
	for _, r := range postal {
		if n == postalPrefixLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			n++
		}
	}
	return b.String()
}

// Key returns the match key for an address.
func Key(line1, postal string) string {
	return NormalizeLine(line1) + "|" + NormalizePostal(postal)
}
