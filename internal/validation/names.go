package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/jinzhu/inflection"

	"github.com/tordrt/schemacheck/internal/filter"
)

// NameRules selects which checks of the name chain apply to a value
type NameRules struct {
	// Required rejects empty or whitespace-only values
	Required bool
	// Charset applies the identifier grammar
	Charset bool
	// Duplicate reports whether a sibling already uses the name. Nil skips the check.
	Duplicate func() bool
}

// CheckName runs the name chain and returns the first violation:
// required, leading digit, length, character set, uniqueness.
func CheckName(value string, rules NameRules, maxLen int) ErrorKind {
	if rules.Required && nameEmpty(value) {
		return NameRequired
	}
	if startsWithNumber(value) {
		return NameStartsWithNumber
	}
	if longerThan(value, maxLen) {
		return NameTooLong
	}
	if rules.Charset && value != "" && !filter.ModelInfo.Check(value) {
		return NameHasSpecialChar
	}
	if rules.Duplicate != nil && rules.Duplicate() {
		return NameNotUnique
	}
	return NoError
}

// CheckThroughTable validates a many-to-many join table name. Length is
// checked ahead of presence for this field.
func CheckThroughTable(value string, maxLen int) ErrorKind {
	if longerThan(value, maxLen) {
		return NameTooLong
	}
	if nameEmpty(value) {
		return NameRequired
	}
	if startsWithNumber(value) {
		return NameStartsWithNumber
	}
	if !filter.ModelInfo.Check(value) {
		return NameHasSpecialChar
	}
	return NoError
}

func nameEmpty(value string) bool {
	return strings.TrimSpace(value) == ""
}

func startsWithNumber(value string) bool {
	return value != "" && value[0] >= '0' && value[0] <= '9'
}

func longerThan(value string, maxLen int) bool {
	return maxLen > 0 && utf8.RuneCountInString(value) > maxLen
}

// namesEqual compares names case-insensitively
func namesEqual(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}

// singularKey normalizes a model name so that singular and plural forms of
// the same word compare equal, e.g. "Order" and "orders".
func singularKey(name string) string {
	return inflection.Singular(strings.ToLower(name))
}

// NamesEqualSingular reports whether two names match after singularization
func NamesEqualSingular(a, b string) bool {
	return singularKey(a) == singularKey(b)
}
