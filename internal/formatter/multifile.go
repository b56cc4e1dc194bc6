package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tordrt/schemacheck/internal/filter"
)

const overviewName = "_overview"

// MultiFileFormatter writes an overview plus one report file per schema
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the report files, creating the directory if needed
func (f *MultiFileFormatter) Format(r *Report) error {
	if _, err := New(f.OutputFormat, io.Discard, false); err != nil {
		return err
	}

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	names := FileNames(r)
	if err := f.writeFile(overviewName, f.overview(r, names)); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i, entry := range r.Entries {
		single := &Report{MaxIdentifierLength: r.MaxIdentifierLength, Entries: []Entry{entry}}
		write := func(w io.Writer) error {
			formatter, err := New(f.OutputFormat, w, false)
			if err != nil {
				return err
			}
			return formatter.Format(single)
		}
		if err := f.writeFile(names[i], write); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", entry.Schema.Name, err)
		}
	}
	return nil
}

// overview renders the summary file. Markdown and text overviews list the
// per-schema files; JSON carries the whole report.
func (f *MultiFileFormatter) overview(r *Report, names []string) func(io.Writer) error {
	return func(w io.Writer) error {
		switch f.OutputFormat {
		case FormatJSON:
			return NewJSONFormatter(w).Format(r)
		case FormatMarkdown:
			_, _ = fmt.Fprintf(w, "# Validation Overview\n\n")
			_, _ = fmt.Fprintf(w, "Each schema has a corresponding file: `<schema_name>%s`\n\n", f.extension())
			for i, entry := range r.Entries {
				_, _ = fmt.Fprintf(w, "- **%s** (`%s%s`): %s\n", escapeMarkdown(entry.Schema.Name), names[i], f.extension(), status(entry))
			}
		default:
			_, _ = fmt.Fprintf(w, "VALIDATION OVERVIEW\n")
			_, _ = fmt.Fprintf(w, "Each schema has a file: <schema_name>%s\n\n", f.extension())
			for i, entry := range r.Entries {
				_, _ = fmt.Fprintf(w, "%s %s%s %s\n", entry.Schema.Name, names[i], f.extension(), status(entry))
			}
		}
		return nil
	}
}

func (f *MultiFileFormatter) writeFile(name string, write func(io.Writer) error) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name+f.extension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return write(file)
}

func (f *MultiFileFormatter) extension() string {
	switch f.OutputFormat {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// FileNames returns a distinct file base name per entry. Names are the
// schema name reduced to identifier characters; clashes, compared without
// case so they also hold on case-insensitive filesystems, get a numeric suffix.
func FileNames(r *Report) []string {
	names := make([]string, len(r.Entries))
	used := map[string]bool{strings.ToLower(overviewName): true}

	for i, entry := range r.Entries {
		base := filter.ModelInfo.Fix(entry.Schema.Name)
		if base == "" {
			base = "schema"
		}

		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func status(entry Entry) string {
	if count := entry.Errors.Count(); count > 0 {
		return "FAIL " + plural(count, "error")
	}
	return "OK"
}
