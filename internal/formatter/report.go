package formatter

import (
	"errors"
	"fmt"
	"io"

	"github.com/tordrt/schemacheck/internal/schema"
	"github.com/tordrt/schemacheck/internal/validation"
)

// Output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// ErrUnsupportedFormat is returned for report formats other than text, markdown and json
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Entry is one validated schema
type Entry struct {
	// Source is the file or database the schema was read from
	Source string
	Schema *schema.Schema
	Errors validation.SchemaErrors
}

// Issues flattens the entry's error tree in display order
func (e Entry) Issues() []validation.Issue {
	return e.Errors.Issues(e.Schema)
}

// Report is the result of validating one or more schemas
type Report struct {
	MaxIdentifierLength int
	Entries             []Entry
}

// Count returns the number of violations across all entries
func (r *Report) Count() int {
	n := 0
	for _, e := range r.Entries {
		n += e.Errors.Count()
	}
	return n
}

// Valid reports whether no entry has errors
func (r *Report) Valid() bool {
	return r.Count() == 0
}

// Formatter renders a report
type Formatter interface {
	Format(r *Report) error
}

// New returns the single-stream formatter for format. color only affects text output.
func New(format string, w io.Writer, color bool) (Formatter, error) {
	switch format {
	case FormatText, "":
		return NewTextFormatter(w, color), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// subject describes what an issue points at, e.g. "field Order.email"
func subject(issue validation.Issue) string {
	switch issue.Entity {
	case validation.EntitySchema:
		return "schema " + issue.Name
	case validation.EntityModel:
		return "model " + issue.Name
	case validation.EntityField:
		return fmt.Sprintf("field %s.%s", issue.ModelName, issue.Name)
	case validation.EntityAssociation:
		return fmt.Sprintf("association %s → %s", issue.ModelName, issue.Name)
	default:
		return string(issue.Entity)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
