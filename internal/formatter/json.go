package formatter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tordrt/schemacheck/internal/validation"
)

// JSONFormatter writes the report as a single JSON document
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

type jsonReport struct {
	Valid      bool         `json:"valid"`
	ErrorCount int          `json:"errorCount"`
	Schemas    []jsonSchema `json:"schemas"`
}

type jsonSchema struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Source     string                  `json:"source,omitempty"`
	ErrorCount int                     `json:"errorCount"`
	Errors     validation.SchemaErrors `json:"errors"`
	Issues     []jsonIssue             `json:"issues"`
}

type jsonIssue struct {
	validation.Issue
	Message string `json:"message"`
}

// Format writes the report
func (f *JSONFormatter) Format(r *Report) error {
	out := jsonReport{
		Valid:      r.Valid(),
		ErrorCount: r.Count(),
		Schemas:    make([]jsonSchema, 0, len(r.Entries)),
	}

	for _, entry := range r.Entries {
		issues := entry.Issues()
		s := jsonSchema{
			ID:         entry.Schema.ID,
			Name:       entry.Schema.Name,
			Source:     entry.Source,
			ErrorCount: len(issues),
			Errors:     entry.Errors,
			Issues:     make([]jsonIssue, 0, len(issues)),
		}
		for _, issue := range issues {
			s.Issues = append(s.Issues, jsonIssue{Issue: issue, Message: issue.Kind.Message(r.MaxIdentifierLength)})
		}
		out.Schemas = append(out.Schemas, s)
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
