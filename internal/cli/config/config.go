package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conduit-lang/tabular/internal/logging"
	"github.com/conduit-lang/tabular/internal/schema"
	"github.com/conduit-lang/tabular/internal/source"
)

// Config represents the tabular configuration
type Config struct {
	Logging logging.Config       `mapstructure:"logging"`
	Source  SourceConfig         `mapstructure:"source"`
	Output  OutputConfig         `mapstructure:"output"`
	Schemas []schema.Declaration `mapstructure:"schemas"`
}

// SourceConfig selects where records are loaded from
type SourceConfig struct {
	CSV       string `mapstructure:"csv"`
	Delimiter string `mapstructure:"delimiter"`
	NoHeader  bool   `mapstructure:"no_header"`
	Driver    string `mapstructure:"driver"`
	DSN       string `mapstructure:"dsn"`
	Query     string `mapstructure:"query"`
}

// OutputConfig represents rendering configuration
type OutputConfig struct {
	Format           string `mapstructure:"format"`
	NoColor          bool   `mapstructure:"no_color"`
	IncludeTransient bool   `mapstructure:"include_transient"`
}

// Formats lists the accepted output formats
var Formats = []string{"table", "json", "yaml"}

var configNames = []string{"tabular.yml", "tabular.yaml"}

// Load loads the configuration from file. When file is empty, the nearest
// tabular.yml or tabular.yaml in the working directory or one of its parents
// is used, if any.
func Load(file string) (*Config, error) {
	v := viper.New()
	explicit := file != ""
	if !explicit {
		if found, err := FindConfigFile(); err == nil {
			file = found
		}
	}

	// Set defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("source.csv", "")
	v.SetDefault("source.delimiter", ",")
	v.SetDefault("source.no_header", false)
	v.SetDefault("source.driver", "")
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.query", "")
	v.SetDefault("output.format", "table")
	v.SetDefault("output.no_color", false)
	v.SetDefault("output.include_transient", false)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("tabular")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment variables such as TABULAR_SOURCE_DSN override the file
	v.SetEnvPrefix("TABULAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// FindConfigFile walks up from the working directory looking for a
// configuration file
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no tabular.yml found")
		}
		dir = parent
	}
}

// DelimiterRune returns the configured CSV delimiter
func (s SourceConfig) DelimiterRune() rune {
	for _, r := range s.Delimiter {
		return r
	}
	return ','
}

// UsesDatabase reports whether records are loaded with a query
func (s SourceConfig) UsesDatabase() bool {
	return s.Driver != "" || s.DSN != "" || s.Query != ""
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got: %s", cfg.Logging.Format)
	}

	if !isFormat(cfg.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got: %s", strings.Join(Formats, ", "), cfg.Output.Format)
	}

	if len([]rune(cfg.Source.Delimiter)) > 1 {
		return fmt.Errorf("source.delimiter must be a single character, got: %q", cfg.Source.Delimiter)
	}
	if cfg.Source.CSV != "" && cfg.Source.UsesDatabase() {
		return fmt.Errorf("source.csv cannot be combined with source.driver, source.dsn or source.query")
	}
	if cfg.Source.Driver != "" {
		if _, err := source.DriverName(cfg.Source.Driver); err != nil {
			return fmt.Errorf("source.driver: %w", err)
		}
	}

	seen := make(map[string]bool, len(cfg.Schemas))
	for i, decl := range cfg.Schemas {
		if decl.Name == "" {
			return fmt.Errorf("schemas[%d]: name is required", i)
		}
		if seen[decl.Name] {
			return fmt.Errorf("schemas[%d]: schema %s is declared more than once", i, decl.Name)
		}
		seen[decl.Name] = true
		for j, field := range decl.Fields {
			if _, err := schema.ParseValueType(field.Type); err != nil {
				return fmt.Errorf("schemas[%d].fields[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

func isFormat(format string) bool {
	for _, f := range Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
