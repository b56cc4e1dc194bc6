package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tordrt/schemacheck"
	"github.com/tordrt/schemacheck/internal/config"
	"github.com/tordrt/schemacheck/internal/document"
	"github.com/tordrt/schemacheck/internal/filter"
	"github.com/tordrt/schemacheck/internal/logger"
)

// errValidationFailed makes the process exit non-zero without printing usage
var errValidationFailed = errors.New("validation failed")

type app struct {
	cfg *config.Config
	log *slog.Logger

	maxLength  int
	format     string
	outputFile string
	outputDir  string
	noColor    bool
	logLevel   string
	logFormat  string

	dbURL      string
	mysqlURL   string
	sqlitePath string
	tables     string
	exclude    string
	schemaName string
	exportPath string

	fix bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "schemacheck",
		Short:         "Validate data-model schemas",
		Long:          `schemacheck validates data-model schemas (models, fields and associations) read from JSON or YAML documents or inspected from PostgreSQL, MySQL or SQLite, and reports naming and consistency errors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&a.maxLength, "max-length", 0, "Maximum identifier length (default: 63, or the database limit for inspect)")
	pf.StringVarP(&a.format, "format", "f", "", "Report format: text, markdown or json (default: text)")
	pf.StringVarP(&a.outputFile, "output", "o", "", "Output file (default: stdout)")
	pf.StringVarP(&a.outputDir, "output-dir", "d", "", "Output directory for multi-file reports")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(a.validateCmd(), a.inspectCmd(), a.filterCmd())
	return rootCmd
}

// setup loads the environment configuration and lets explicitly set flags override it
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("max-length") {
		cfg.MaxIdentifierLength = a.maxLength
	}
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if a.noColor {
		cfg.NoColor = "1"
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(
		logger.WithLevel(level),
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithOutput(cmd.ErrOrStderr()),
	)
	return nil
}

func (a *app) options() *schemacheck.Options {
	return &schemacheck.Options{MaxIdentifierLength: a.cfg.MaxIdentifierLength, Logger: a.log}
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate schema documents",
		Long:  `Validate one or more JSON or YAML schema documents. Each document holds a single schema or an array of schemas. Use "-" to read JSON from stdin.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report *schemacheck.Report
			var err error
			if len(args) == 1 && args[0] == "-" {
				report, err = schemacheck.ValidateDocument(cmd.InOrStdin(), document.JSON, a.options())
			} else {
				report, err = schemacheck.ValidateFiles(args, a.options())
			}
			if err != nil {
				return err
			}
			return a.writeReport(cmd, report)
		},
	}
}

func (a *app) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate the data model of a live database",
		Long:  `Inspect a PostgreSQL, MySQL or SQLite database, convert its tables into a schema and validate it. The converted schema can be exported as a JSON or YAML document.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(a.dbURL, a.mysqlURL, a.sqlitePath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			inspectOpts := &schemacheck.InspectOptions{
				Tables:        parseTableList(a.tables),
				ExcludeTables: parseTableList(a.exclude),
				SchemaName:    a.schemaName,
			}
			report, err := schemacheck.ValidateDatabase(ctx, url, a.options(), inspectOpts)
			if err != nil {
				return err
			}

			if a.exportPath != "" {
				if err := document.WriteFile(a.exportPath, []schemacheck.Schema{*report.Entries[0].Schema}); err != nil {
					return err
				}
				a.log.Info("exported schema", "path", a.exportPath)
			}
			return a.writeReport(cmd, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.dbURL, "db-url", "", "PostgreSQL connection string")
	f.StringVar(&a.mysqlURL, "mysql-url", "", "MySQL connection string")
	f.StringVar(&a.sqlitePath, "sqlite", "", "SQLite database file path")
	f.StringVarP(&a.tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	f.StringVar(&a.exclude, "exclude", "", "Tables to skip (comma-separated, optional)")
	f.StringVarP(&a.schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the URL database for MySQL)")
	f.StringVar(&a.exportPath, "export", "", "Write the converted schema to this .json, .yaml or .yml file")
	return cmd
}

func (a *app) filterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <name> <value>",
		Short: "Check or fix a value against an input filter",
		Long:  "Check a value against one of the input filters (" + strings.Join(filter.Names(), ", ") + "). With --fix, print the sanitized value instead.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filter.ByName(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.fix {
				_, _ = fmt.Fprintln(out, f.Fix(args[1]))
				return nil
			}
			if !f.Check(args[1]) {
				_, _ = fmt.Fprintf(out, "%q does not match %s\n", args[1], args[0])
				return errValidationFailed
			}
			_, _ = fmt.Fprintf(out, "%q matches %s\n", args[1], args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&a.fix, "fix", false, "Print the fixed value")
	return cmd
}

func (a *app) writeReport(cmd *cobra.Command, report *schemacheck.Report) error {
	if a.outputDir != "" && a.outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	opts := &schemacheck.OutputOptions{
		Writer:    cmd.OutOrStdout(),
		OutputDir: a.outputDir,
		Format:    a.cfg.Format,
		Color:     a.cfg.Color() && a.outputFile == "" && isTerminal(cmd.OutOrStdout()),
	}

	if a.outputFile != "" {
		f, err := os.Create(a.outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				a.log.Warn("failed to close output file", "error", err)
			}
		}()
		opts.Writer = f
	}

	if err := schemacheck.WriteReport(report, opts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if !report.Valid() {
		return errValidationFailed
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// databaseURL turns the mutually exclusive connection flags into a URL
func databaseURL(dbURL, mysqlURL, sqlitePath string) (string, error) {
	var urls []string
	if dbURL != "" {
		urls = append(urls, dbURL)
	}
	if mysqlURL != "" {
		urls = append(urls, "mysql://"+strings.TrimPrefix(mysqlURL, "mysql://"))
	}
	if sqlitePath != "" {
		urls = append(urls, "sqlite://"+sqlitePath)
	}

	switch len(urls) {
	case 0:
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	case 1:
		return urls[0], nil
	default:
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
}

func parseTableList(tablesStr string) []string {
	if tablesStr == "" {
		return nil
	}
	tableList := strings.Split(tablesStr, ",")
	for i, t := range tableList {
		tableList[i] = strings.TrimSpace(t)
	}
	return tableList
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errValidationFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
