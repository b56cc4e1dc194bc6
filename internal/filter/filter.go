// Package filter implements the input grammars used by the schema editor.
//
// Every filter answers two questions about a string: Check reports whether it
// belongs to the grammar, and Fix rewrites it into the closest string that
// does. The empty string always passes Check; emptiness is a separate rule.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownFilter is returned by ByName for an unregistered filter name
var ErrUnknownFilter = errors.New("unknown filter")

// Filter is a string grammar with a membership test and a coercion
type Filter interface {
	Check(value string) bool
	Fix(value string) string
}

var (
	integerRegex       = regexp.MustCompile(`^-?\d*$`)
	unsignedRegex      = regexp.MustCompile(`^\d*$`)
	floatRegex         = regexp.MustCompile(`^-?\d*[.,]?\d*$`)
	currencyRegex      = regexp.MustCompile(`^-?\d*[.,]?\d{0,2}$`)
	latinRegex         = regexp.MustCompile(`^[a-zA-Z]*$`)
	hexRegex           = regexp.MustCompile(`(?i)^[0-9a-f]*$`)
	nonWhitespaceRegex = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9_-]*)?$`)
	identifierRegex    = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9_]*)?$`)

	nonDigitRegex         = regexp.MustCompile(`\D`)
	nonNumericRegex       = regexp.MustCompile(`[^0-9.,-]`)
	nonLatinRegex         = regexp.MustCompile(`[^a-zA-Z]`)
	nonHexRegex           = regexp.MustCompile(`[^0-9a-fA-F]`)
	nonWhitespaceStrip    = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	nonIdentifierStrip    = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	leadingNonLetterRegex = regexp.MustCompile(`^[^a-zA-Z]+`)
)

type regexFilter struct {
	check *regexp.Regexp
	fix   func(string) string
}

func (f regexFilter) Check(value string) bool { return f.check.MatchString(value) }
func (f regexFilter) Fix(value string) string { return f.fix(value) }

var (
	// Integer accepts an optional leading minus followed by digits
	Integer Filter = regexFilter{check: integerRegex, fix: fixInteger}

	// UnsignedInteger accepts digits only
	UnsignedInteger Filter = regexFilter{check: unsignedRegex, fix: stripWith(nonDigitRegex)}

	// Float accepts an optional minus, digits and at most one decimal separator
	Float Filter = regexFilter{check: floatRegex, fix: func(v string) string { return fixDecimal(v, -1) }}

	// Currency is Float limited to two fractional digits
	Currency Filter = regexFilter{check: currencyRegex, fix: func(v string) string { return fixDecimal(v, 2) }}

	// Latin accepts ASCII letters only
	Latin Filter = regexFilter{check: latinRegex, fix: stripWith(nonLatinRegex)}

	// Hex accepts hexadecimal digits in either case
	Hex Filter = regexFilter{check: hexRegex, fix: stripWith(nonHexRegex)}

	// NonWhitespace accepts a letter followed by letters, digits, '_' or '-'
	NonWhitespace Filter = regexFilter{check: nonWhitespaceRegex, fix: fixLeadingLetter(nonWhitespaceStrip)}

	// ModelInfo is the identifier grammar: a letter followed by letters, digits or '_'
	ModelInfo Filter = regexFilter{check: identifierRegex, fix: fixLeadingLetter(nonIdentifierStrip)}
)

// LimitedInteger accepts digits whose numeric value does not exceed limit
func LimitedInteger(limit uint64) Filter {
	return limitedInteger{max: limit}
}

type limitedInteger struct {
	max uint64
}

func (f limitedInteger) Check(value string) bool {
	if !unsignedRegex.MatchString(value) {
		return false
	}
	if value == "" {
		return true
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		// only overflow is possible here, and anything that overflows exceeds max
		return false
	}
	return n <= f.max
}

func (f limitedInteger) Fix(value string) string {
	cleaned := nonDigitRegex.ReplaceAllString(value, "")
	if cleaned == "" {
		return ""
	}
	n, err := strconv.ParseUint(cleaned, 10, 64)
	if err != nil || n > f.max {
		return strconv.FormatUint(f.max, 10)
	}
	return cleaned
}

// IsIdentifier reports whether value is a non-empty identifier
func IsIdentifier(value string) bool {
	return value != "" && ModelInfo.Check(value)
}

var registry = map[string]Filter{
	"integer":         Integer,
	"unsignedInteger": UnsignedInteger,
	"float":           Float,
	"currency":        Currency,
	"latin":           Latin,
	"hex":             Hex,
	"nonWhitespace":   NonWhitespace,
	"modelInfo":       ModelInfo,
}

// ByName resolves a filter by name. "limitedInteger:<max>" builds a LimitedInteger.
func ByName(name string) (Filter, error) {
	if f, ok := registry[name]; ok {
		return f, nil
	}

	if rest, ok := strings.CutPrefix(name, "limitedInteger:"); ok {
		limit, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid limitedInteger bound %q", ErrUnknownFilter, rest)
		}
		return LimitedInteger(limit), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
}

// Names lists the registered filter names
func Names() []string {
	return []string{
		"integer", "unsignedInteger", "limitedInteger:<max>", "float", "currency",
		"latin", "hex", "nonWhitespace", "modelInfo",
	}
}

func stripWith(re *regexp.Regexp) func(string) string {
	return func(value string) string {
		return re.ReplaceAllString(value, "")
	}
}

func fixLeadingLetter(strip *regexp.Regexp) func(string) string {
	return func(value string) string {
		value = strip.ReplaceAllString(value, "")
		return leadingNonLetterRegex.ReplaceAllString(value, "")
	}
}

// fixInteger keeps digits and a minus sign only when it leads the result
func fixInteger(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fixDecimal keeps a leading minus, digits and the first separator. A
// non-negative fraction limit truncates the digits after the separator.
func fixDecimal(value string, fraction int) string {
	value = nonNumericRegex.ReplaceAllString(value, "")

	var b strings.Builder
	separator := false
	digits := 0
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			if separator && fraction >= 0 {
				if digits >= fraction {
					continue
				}
				digits++
			}
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		case (r == '.' || r == ',') && !separator:
			separator = true
			b.WriteRune(r)
		}
	}
	return b.String()
}
