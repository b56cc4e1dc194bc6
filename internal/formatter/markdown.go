package formatter

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter writes the report as markdown tables
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the report
func (f *MarkdownFormatter) Format(r *Report) error {
	_, _ = fmt.Fprintf(f.writer, "# Validation Report\n\n")
	if r.Valid() {
		_, _ = fmt.Fprintf(f.writer, "All %s valid.\n", plural(len(r.Entries), "schema"))
	} else {
		_, _ = fmt.Fprintf(f.writer, "%s in %s.\n", plural(r.Count(), "error"), plural(len(r.Entries), "schema"))
	}

	for _, entry := range r.Entries {
		_, _ = fmt.Fprintln(f.writer)
		f.formatEntry(entry, r.MaxIdentifierLength)
	}
	return nil
}

func (f *MarkdownFormatter) formatEntry(entry Entry, maxLen int) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", escapeMarkdown(entry.Schema.Name))
	if entry.Source != "" {
		_, _ = fmt.Fprintf(f.writer, "Source: `%s`\n\n", entry.Source)
	}

	issues := entry.Issues()
	if len(issues) == 0 {
		_, _ = fmt.Fprintf(f.writer, "No errors.\n")
		return
	}

	_, _ = fmt.Fprintf(f.writer, "| Entity | Attribute | Code | Message |\n")
	_, _ = fmt.Fprintf(f.writer, "|--------|-----------|------|---------|\n")
	for _, issue := range issues {
		_, _ = fmt.Fprintf(f.writer, "| %s | %s | `%s` | %s |\n",
			escapeMarkdown(subject(issue)),
			issue.Attribute,
			issue.Kind,
			issue.Kind.Message(maxLen))
	}
}

// escapeMarkdown keeps user supplied names from breaking table cells
func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
