package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/tabular/internal/cli/config"
	"github.com/conduit-lang/tabular/internal/cli/ui"
	"github.com/conduit-lang/tabular/internal/coerce"
	"github.com/conduit-lang/tabular/internal/logging"
	"github.com/conduit-lang/tabular/internal/schema"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// app holds the state shared by every command of one invocation
type app struct {
	registry *schema.Registry
	cfg      *config.Config
	logger   *zap.Logger

	configFile string
	logLevel   string
	noColor    bool
}

// Option configures the root command
type Option func(*app)

// WithRegistry serves schemas from r in addition to the ones declared in the
// configuration file
func WithRegistry(r *schema.Registry) Option {
	return func(a *app) {
		a.registry = r
	}
}

// NewRootCommand creates the root command
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = schema.NewRegistry()
	}

	rootCmd := &cobra.Command{
		Use:   "tabular",
		Short: "Typed records over tabular data",
		Long: color.CyanString(`tabular - typed records over tabular data

Declare schemas of typed fields, load tables from CSV files or SQL
queries, and read them back as records whose values are converted to
the declared types.`),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default: nearest tabular.yml in this or a parent directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(a.newSchemaCommand())
	rootCmd.AddCommand(a.newRecordsCommand())

	return rootCmd
}

// setup loads the configuration, builds the logger and declares the
// configured schemas
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return &renderedError{err: err, message: ui.ConfigError(err.Error(), a.noColor)}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("no-color") {
		cfg.Output.NoColor = a.noColor
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return &renderedError{err: err, message: ui.ConfigError(err.Error(), cfg.Output.NoColor)}
	}
	a.logger = logger

	if err := a.registry.Declare(cfg.Schemas); err != nil {
		return &renderedError{err: err, message: ui.ConfigError(err.Error(), cfg.Output.NoColor)}
	}
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configFile),
		zap.Strings("schemas", a.registry.List()),
	)
	return nil
}

// lookup returns a registered schema or a rendered not-found error
func (a *app) lookup(name string) (*schema.Schema, error) {
	s, err := a.registry.MustGet(name)
	if err != nil {
		return nil, &renderedError{
			err:     err,
			message: ui.SchemaNotFoundError(name, ui.Suggest(name, a.registry.List()), a.cfg.Output.NoColor),
		}
	}
	return s, nil
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the tabular version, Git commit, build date, and Go version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			for _, line := range [][2]string{
				{"tabular version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(out, line[0])
				fmt.Fprintln(out, line[1])
			}
		},
	}
}

// renderedError carries a message already formatted for the terminal
type renderedError struct {
	err     error
	message string
}

func (e *renderedError) Error() string {
	return e.err.Error()
}

func (e *renderedError) Unwrap() error {
	return e.err
}

// Execute runs the root command
func Execute(opts ...Option) error {
	rootCmd := NewRootCommand(opts...)
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func printError(w io.Writer, err error) {
	var rendered *renderedError
	switch {
	case errors.As(err, &rendered):
		fmt.Fprint(w, rendered.message)
	case errors.Is(err, coerce.ErrTypeConversion):
		fmt.Fprint(w, ui.ConversionError(err, color.NoColor))
	default:
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(w, "Error: %v\n", err)
	}
}
