package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/tabular/internal/cli/config"
	"github.com/conduit-lang/tabular/internal/cli/ui"
	"github.com/conduit-lang/tabular/internal/coerce"
	"github.com/conduit-lang/tabular/internal/collection"
	"github.com/conduit-lang/tabular/internal/frame"
	"github.com/conduit-lang/tabular/internal/source"
)

type recordsOptions struct {
	csv              string
	delimiter        string
	noHeader         bool
	driver           string
	dsn              string
	query            string
	where            []string
	columns          []string
	head             int
	format           string
	includeTransient bool
	extra            map[string]string
}

func (a *app) newRecordsCommand() *cobra.Command {
	opts := &recordsOptions{}

	cmd := &cobra.Command{
		Use:   "records <schema>",
		Short: "Load a table and print it as typed records",
		Long: `Load a table from a CSV file or a SQL query, wrap it as a collection of
the named schema and print one record per row. Values are converted to the
declared field types; missing values take the field defaults.`,
		Example: `  tabular records Player --csv players.csv
  tabular records Player --csv players.csv --where "score>=10" --head 5
  tabular records Player --driver sqlite --dsn players.db --query "SELECT * FROM players" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.mergeRecordsFlags(cmd, opts)
			return a.runRecords(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.csv, "csv", "", "CSV file to load")
	flags.StringVar(&opts.delimiter, "delimiter", ",", "CSV field delimiter")
	flags.BoolVar(&opts.noHeader, "no-header", false, "CSV file has no header row")
	flags.StringVar(&opts.driver, "driver", "", "database driver (sqlite, postgres, pgx, mysql)")
	flags.StringVar(&opts.dsn, "dsn", "", "database connection string")
	flags.StringVar(&opts.query, "query", "", "SQL query producing the table")
	flags.StringArrayVarP(&opts.where, "where", "w", nil, "row condition such as score>=10 or note IS NULL (repeatable)")
	flags.StringSliceVar(&opts.columns, "select", nil, "columns to keep")
	flags.IntVarP(&opts.head, "head", "n", 0, "print at most n records")
	flags.StringVarP(&opts.format, "format", "f", "", "output format (table, json, yaml)")
	flags.BoolVar(&opts.includeTransient, "include-transient", false, "print transient fields")
	flags.StringToStringVar(&opts.extra, "set", nil, "constant value added to every row, as column=value")

	return cmd
}

// mergeRecordsFlags fills options not given on the command line from the
// configuration file
func (a *app) mergeRecordsFlags(cmd *cobra.Command, opts *recordsOptions) {
	flags := cmd.Flags()
	src := a.cfg.Source

	fromFlags := flags.Changed("csv") || flags.Changed("driver") || flags.Changed("dsn") || flags.Changed("query")
	if !fromFlags {
		opts.csv = src.CSV
		opts.driver = src.Driver
		opts.dsn = src.DSN
		opts.query = src.Query
	}
	if !flags.Changed("delimiter") && src.Delimiter != "" {
		opts.delimiter = src.Delimiter
	}
	if !flags.Changed("no-header") {
		opts.noHeader = src.NoHeader
	}
	if !flags.Changed("format") {
		opts.format = a.cfg.Output.Format
	}
	if !flags.Changed("include-transient") {
		opts.includeTransient = a.cfg.Output.IncludeTransient
	}
}

func (a *app) runRecords(cmd *cobra.Command, name string, opts *recordsOptions) error {
	noColor := a.cfg.Output.NoColor

	base, err := a.lookup(name)
	if err != nil {
		return err
	}

	table, err := a.loadTable(cmd.Context(), opts)
	if err != nil {
		return &renderedError{err: err, message: ui.SourceError(err.Error(), nil, noColor)}
	}

	extra := make(map[string]any, len(opts.extra))
	for k, v := range opts.extra {
		extra[k] = v
	}

	c, err := collection.New(base,
		collection.WithTable(table),
		collection.WithLogger(a.logger),
		collection.WithExtraArguments(extra),
	)
	if err != nil {
		return err
	}

	conditions := make([]frame.Condition, 0, len(opts.where))
	for _, expr := range opts.where {
		cond, err := frame.ParseCondition(expr)
		if err != nil {
			return err
		}
		conditions = append(conditions, cond)
	}
	if len(conditions) > 0 {
		if c, err = c.Where(conditions...); err != nil {
			return err
		}
	}
	if len(opts.columns) > 0 {
		if c, err = c.Select(opts.columns...); err != nil {
			return err
		}
	}
	if opts.head > 0 {
		c = c.Head(opts.head)
	}

	records, err := c.Records()
	if err != nil {
		if errors.Is(err, coerce.ErrTypeConversion) {
			return &renderedError{err: err, message: ui.ConversionError(err, noColor)}
		}
		return err
	}
	a.logger.Debug("records built",
		zap.String("schema", base.Name()),
		zap.Int("count", len(records)),
	)

	columns := opts.columns
	if len(columns) == 0 {
		columns = ui.OutputColumns(base, opts.includeTransient)
	}
	return writeRecords(cmd.OutOrStdout(), opts.format, columns, records, noColor)
}

func (a *app) loadTable(ctx context.Context, opts *recordsOptions) (*frame.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.csv != "" && (opts.driver != "" || opts.query != ""):
		return nil, fmt.Errorf("--csv cannot be combined with --driver or --query")
	case opts.csv != "":
		delimiter := config.SourceConfig{Delimiter: opts.delimiter}.DelimiterRune()
		return source.ReadCSVFile(opts.csv, source.CSVOptions{Delimiter: delimiter, NoHeader: opts.noHeader})
	case opts.query != "":
		if opts.driver == "" {
			return nil, fmt.Errorf("--query requires --driver and --dsn")
		}
		return source.Load(ctx, opts.driver, opts.dsn, opts.query)
	}
	return nil, fmt.Errorf("no source given: use --csv or --driver/--dsn/--query")
}
