package validation

import "fmt"

// ErrorKind is a single naming violation. The zero value means no error.
type ErrorKind int

const (
	NoError ErrorKind = iota
	NameRequired
	NameStartsWithNumber
	NameTooLong
	NameHasSpecialChar
	NameNotUnique
)

var kindCodes = map[ErrorKind]string{
	NameRequired:         "NameRequired",
	NameStartsWithNumber: "NameStartsWithNumber",
	NameTooLong:          "NameTooLong",
	NameHasSpecialChar:   "NameHasSpecialChar",
	NameNotUnique:        "NameNotUnique",
}

// String returns the stable code of the kind, or "" for NoError
func (k ErrorKind) String() string {
	return kindCodes[k]
}

// Message returns the text shown next to the offending form field
func (k ErrorKind) Message(maxLen int) string {
	switch k {
	case NameRequired:
		return "Name is required."
	case NameStartsWithNumber:
		return "Name cannot start with a number."
	case NameTooLong:
		return fmt.Sprintf("Name cannot be more than %d characters.", maxLen)
	case NameHasSpecialChar:
		return "Name can only contain letters, numbers, and underscores."
	case NameNotUnique:
		return "Name must be unique."
	default:
		return ""
	}
}

// MarshalText encodes the kind as its code
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind code; the empty string is NoError
func (k *ErrorKind) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = NoError
		return nil
	}
	for kind, code := range kindCodes {
		if code == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", text)
}
