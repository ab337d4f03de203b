package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Rule bounds
var (
	PasswordMinLength = 6
	PasswordMaxLength = 20

	NameTokenMinLength = 2
	NameTokenMaxLength = 40
	NameMinTokens      = 2
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	ProjectName *regexp.Regexp
}{
	// starts with a letter; letters, digits, spaces and - ' . afterwards
	ProjectName: regexp.MustCompile(`^\p{L}[\p{L}\p{N} '.\-]*$`),
}

var validate = validator.New()

// StringValidation checks one string value against length and pattern bounds.
// Lengths count runes, not bytes.
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithLength sets the rune length bounds; zero disables a bound
func (v *StringValidation) WithLength(min, max int) *StringValidation {
	v.MinLen = min
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	n := utf8.RuneCountInString(v.Value)
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}

	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}

	return true
}

// isEmail delegates to go-playground/validator's email rule
func isEmail(value string) bool {
	return validate.Var(value, "email") == nil
}

// isFullName requires at least two tokens of letters (apostrophes allowed)
func isFullName(value string) bool {
	tokens := strings.Fields(value)
	if len(tokens) < NameMinTokens {
		return false
	}
	for _, token := range tokens {
		n := utf8.RuneCountInString(token)
		if n < NameTokenMinLength || n > NameTokenMaxLength {
			return false
		}
		for _, r := range token {
			if !unicode.IsLetter(r) && r != '\'' {
				return false
			}
		}
	}
	return true
}
