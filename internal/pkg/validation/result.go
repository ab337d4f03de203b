package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Result accumulates field errors. Every method returns a new Result and
// leaves the receiver untouched; the first message recorded for a field wins.
type Result struct {
	errs  map[string]string
	order []string
}

// New returns an empty, valid Result
func New() Result {
	return Result{}
}

// Add records msg for field unless the field already failed
func (r Result) Add(field, msg string) Result {
	if r.Has(field) {
		return r
	}

	errs := make(map[string]string, len(r.errs)+1)
	for k, v := range r.errs {
		errs[k] = v
	}
	errs[field] = msg

	order := make([]string, len(r.order), len(r.order)+1)
	copy(order, r.order)

	return Result{errs: errs, order: append(order, field)}
}

// Has reports whether field already failed
func (r Result) Has(field string) bool {
	_, ok := r.errs[field]
	return ok
}

// Valid reports whether no error was recorded
func (r Result) Valid() bool {
	return len(r.errs) == 0
}

// Error returns the message recorded for field, or ""
func (r Result) Error(field string) string {
	return r.errs[field]
}

// Fields returns the failed fields in the order they failed
func (r Result) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Errors returns a copy of the field → message map
func (r Result) Errors() map[string]string {
	out := make(map[string]string, len(r.errs))
	for k, v := range r.errs {
		out[k] = v
	}
	return out
}

// String renders the errors in failure order, for logs
func (r Result) String() string {
	parts := make([]string, 0, len(r.order))
	for _, field := range r.order {
		parts = append(parts, field+": "+r.errs[field])
	}
	return strings.Join(parts, "; ")
}

// Required fails when value is blank
func (r Result) Required(field, value, label string) Result {
	if strings.TrimSpace(value) == "" {
		return r.Add(field, fmt.Sprintf("O campo %s é obrigatório.", label))
	}
	return r
}

// FullName fails when value is not at least a first and last name
func (r Result) FullName(field, value, label string) Result {
	if value != "" && !isFullName(value) {
		return r.Add(field, fmt.Sprintf("O campo %s deve conter nome e sobrenome.", label))
	}
	return r
}

// Email fails when value is not a syntactically valid address
func (r Result) Email(field, value, label string) Result {
	if value != "" && !isEmail(value) {
		return r.Add(field, fmt.Sprintf("O campo %s deve conter um e-mail válido.", label))
	}
	return r
}

// PasswordLength fails when value is outside PasswordMinLength..PasswordMaxLength
func (r Result) PasswordLength(field, value, label string) Result {
	return r.Length(field, value, label, PasswordMinLength, PasswordMaxLength)
}

// Length fails when the rune count of value is outside min..max
func (r Result) Length(field, value, label string, min, max int) Result {
	v := NewStringValidation(value).WithRequired(false).WithLength(min, max)
	if !v.Validate() {
		return r.Add(field, fmt.Sprintf("O campo %s deve ter entre %d e %d caracteres.", label, min, max))
	}
	return r
}

// Matches fails when value differs from other
func (r Result) Matches(field, value, label, other, otherLabel string) Result {
	if value != other {
		return r.Add(field, fmt.Sprintf("O campo %s deve ser igual ao campo %s.", label, otherLabel))
	}
	return r
}

// ProjectName fails when value contains characters not allowed in project names
func (r Result) ProjectName(field, value, label string) Result {
	v := NewStringValidation(value).WithRequired(false).WithPattern(CompiledPatterns.ProjectName)
	if !v.Validate() {
		return r.Add(field, fmt.Sprintf("O campo %s contém caracteres inválidos.", label))
	}
	return r
}

// SelectedID fails unless raw is a positive integer present in options.
// It returns the parsed id so callers can persist it.
func (r Result) SelectedID(field, raw, label string, options []int64) (Result, int64) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err == nil && id > 0 {
		for _, option := range options {
			if option == id {
				return r, id
			}
		}
	}
	return r.Add(field, fmt.Sprintf("Selecione um valor válido para o campo %s.", label)), 0
}
