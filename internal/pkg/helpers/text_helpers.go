package helpers

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeSpaces trims s and collapses inner whitespace runs into one space.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TitleName title-cases a proper name: "ana  DE souza" becomes "Ana De Souza".
func TitleName(s string) string {
	// a Caser keeps state and must not be shared between goroutines
	return cases.Title(language.BrazilianPortuguese).String(NormalizeSpaces(s))
}

// NormalizeEmail trims and lower-cases an e-mail address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SafeReturnURL accepts only local absolute paths as redirect targets.
func SafeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}
