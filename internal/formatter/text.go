package formatter

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// TextFormatter writes a compact, optionally colored report
type TextFormatter struct {
	writer io.Writer
	fail   *color.Color
	ok     *color.Color
	dim    *color.Color
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer, colorize bool) *TextFormatter {
	f := &TextFormatter{
		writer: w,
		fail:   color.New(color.FgRed, color.Bold),
		ok:     color.New(color.FgGreen, color.Bold),
		dim:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{f.fail, f.ok, f.dim} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format writes one block per schema followed by a summary line
func (f *TextFormatter) Format(r *Report) error {
	for i, entry := range r.Entries {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer)
		}
		f.formatEntry(entry, r.MaxIdentifierLength)
	}

	if len(r.Entries) > 1 {
		_, _ = fmt.Fprintln(f.writer)
		if r.Valid() {
			_, _ = f.ok.Fprintf(f.writer, "%s valid\n", plural(len(r.Entries), "schema"))
		} else {
			_, _ = f.fail.Fprintf(f.writer, "%s in %s\n", plural(r.Count(), "error"), plural(len(r.Entries), "schema"))
		}
	}
	return nil
}

func (f *TextFormatter) formatEntry(entry Entry, maxLen int) {
	source := ""
	if entry.Source != "" {
		source = f.dim.Sprintf(" (%s)", entry.Source)
	}

	count := entry.Errors.Count()
	if count == 0 {
		_, _ = fmt.Fprintf(f.writer, "SCHEMA %s%s %s\n", entry.Schema.Name, source, f.ok.Sprint("OK"))
		return
	}
	_, _ = fmt.Fprintf(f.writer, "SCHEMA %s%s %s\n", entry.Schema.Name, source, f.fail.Sprintf("FAIL %s", plural(count, "error")))

	for _, issue := range entry.Issues() {
		_, _ = fmt.Fprintf(f.writer, "  %s: %s %s %s\n",
			subject(issue),
			issue.Attribute,
			issue.Kind.Message(maxLen),
			f.dim.Sprintf("[%s]", issue.Kind))
	}
}
