package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		valid   []string
		invalid []string
	}{
		{
			name:    "integer",
			filter:  Integer,
			valid:   []string{"", "0", "42", "-7", "-"},
			invalid: []string{"1.5", "a1", "--1", "1-"},
		},
		{
			name:    "unsigned integer",
			filter:  UnsignedInteger,
			valid:   []string{"", "0", "123"},
			invalid: []string{"-1", "1a", " 1"},
		},
		{
			name:    "limited integer",
			filter:  LimitedInteger(255),
			valid:   []string{"", "0", "255", "0255"},
			invalid: []string{"256", "-1", "99999999999999999999999"},
		},
		{
			name:    "float",
			filter:  Float,
			valid:   []string{"", "1", "-1.5", "1,25", ".5", "3."},
			invalid: []string{"1.2.3", "1..2", "a"},
		},
		{
			name:    "currency",
			filter:  Currency,
			valid:   []string{"", "10", "10.5", "-10,99"},
			invalid: []string{"10.999", "1.2.3"},
		},
		{
			name:    "latin",
			filter:  Latin,
			valid:   []string{"", "abc", "ABC"},
			invalid: []string{"ab1", "é", "a b"},
		},
		{
			name:    "hex",
			filter:  Hex,
			valid:   []string{"", "deadBEEF", "0123"},
			invalid: []string{"xyz", "0x12"},
		},
		{
			name:    "non whitespace",
			filter:  NonWhitespace,
			valid:   []string{"", "a", "my-name_1"},
			invalid: []string{"1abc", "-abc", "a b", "a.b"},
		},
		{
			name:    "model info",
			filter:  ModelInfo,
			valid:   []string{"", "User", "order_item", "a1"},
			invalid: []string{"1abc", "_abc", "my-name", "a b", "naïve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.valid {
				assert.True(t, tt.filter.Check(v), "expected %q to be valid", v)
			}
			for _, v := range tt.invalid {
				assert.False(t, tt.filter.Check(v), "expected %q to be invalid", v)
			}
		})
	}
}

func TestFix(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		input  string
		want   string
	}{
		{"integer strips letters", Integer, "a-1b2", "-12"},
		{"integer drops inner minus", Integer, "1-2", "12"},
		{"unsigned strips minus", UnsignedInteger, "-12x", "12"},
		{"limited clamps", LimitedInteger(100), "5000", "100"},
		{"limited keeps in range", LimitedInteger(100), "a42", "42"},
		{"limited empty", LimitedInteger(100), "abc", ""},
		{"float first separator", Float, "1.2.3", "1.23"},
		{"currency truncates fraction", Currency, "$12.3456", "12.34"},
		{"currency comma", Currency, "-7,129", "-7,12"},
		{"latin", Latin, "ab1-c", "abc"},
		{"hex", Hex, "0xFFg", "0FF"},
		{"non whitespace", NonWhitespace, "12 my-name!", "my-name"},
		{"model info", ModelInfo, "1st order-item", "storderitem"},
		{"model info leading underscore", ModelInfo, "__user_id", "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Fix(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.filter.Check(got), "fixed value %q should pass check", got)
		})
	}
}

func TestFixIsIdempotent(t *testing.T) {
	inputs := []string{
		"", "abc", "-1.2,3", "--9", "  hello world  ", "12.345.6", "0xFEED", "__a__b",
		"über_ß", "-", ".", "1e10", strings.Repeat("9", 40),
	}
	filters := map[string]Filter{
		"integer":         Integer,
		"unsignedInteger": UnsignedInteger,
		"limitedInteger":  LimitedInteger(1000),
		"float":           Float,
		"currency":        Currency,
		"latin":           Latin,
		"hex":             Hex,
		"nonWhitespace":   NonWhitespace,
		"modelInfo":       ModelInfo,
	}

	for name, f := range filters {
		for _, in := range inputs {
			once := f.Fix(in)
			assert.Equal(t, once, f.Fix(once), "%s: fix not idempotent for %q", name, in)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("name"))
	assert.False(t, IsIdentifier(""))
	assert.False(t, IsIdentifier("9name"))
}

func TestByName(t *testing.T) {
	f, err := ByName("modelInfo")
	require.NoError(t, err)
	assert.True(t, f.Check("user"))

	f, err = ByName("limitedInteger:10")
	require.NoError(t, err)
	assert.Equal(t, "10", f.Fix("11"))

	_, err = ByName("limitedInteger:ten")
	assert.True(t, errors.Is(err, ErrUnknownFilter))

	_, err = ByName("nope")
	assert.ErrorIs(t, err, ErrUnknownFilter)
}
