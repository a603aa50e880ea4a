package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level represents the severity of a message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

type levelStyle struct {
	symbol string
	attr   color.Attribute
}

var levelStyles = map[Level]levelStyle{
	LevelError:   {"✗", color.FgRed},
	LevelWarning: {"!", color.FgYellow},
	LevelInfo:    {"i", color.FgCyan},
}

// MessageOptions configures message formatting
type MessageOptions struct {
	Level       Level
	Context     string
	Problem     string
	Details     []string
	Suggestions []string
	Hints       []string
	NoColor     bool
}

// FormatMessage renders a message with optional details, suggestions and
// hint commands
//
// Example output:
//
//	✗ SCHEMA NOT FOUND: Plyer
//	   Cannot find schema 'Plyer'.
//
//	   Did you mean: Player?
//
//	   → See all schemas: tabular schema
func FormatMessage(opts MessageOptions) string {
	var b strings.Builder

	style := levelStyles[opts.Level]
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if opts.NoColor {
			c.DisableColor()
		}
		return c
	}
	header := paint(style.attr, color.Bold)
	body := paint(style.attr)

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s\n", style.symbol, strings.ToUpper(opts.Context))
		body.Fprintf(&b, "   %s\n", opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", style.symbol, opts.Problem)
	}

	for _, detail := range opts.Details {
		body.Fprintf(&b, "   %s\n", detail)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		paint(color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.Hints) > 0 {
		b.WriteString("\n")
		cyan := paint(color.FgCyan)
		for _, hint := range opts.Hints {
			cyan.Fprintf(&b, "   → %s\n", hint)
		}
	}

	return b.String()
}

// WriteMessage writes a formatted message to the writer
func WriteMessage(w io.Writer, opts MessageOptions) {
	fmt.Fprint(w, FormatMessage(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// SchemaNotFoundError reports an unknown schema name
func SchemaNotFoundError(name string, suggestions []string, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:       LevelError,
		Context:     "schema not found",
		Problem:     fmt.Sprintf("Cannot find schema '%s'.", name),
		Suggestions: suggestions,
		Hints: []string{
			"See all schemas: tabular schema",
			"Declare schemas under 'schemas:' in tabular.yml",
		},
		NoColor: noColor,
	})
}

// ConversionError reports a value that could not be coerced while building
// records
func ConversionError(err error, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:   LevelError,
		Context: "record conversion failed",
		Problem: err.Error(),
		Hints: []string{
			"Inspect the declared types: tabular schema <name>",
			"Declare a default for fields that may be empty",
		},
		NoColor: noColor,
	})
}

// SourceError reports a failure to load a table
func SourceError(message string, details []string, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:   LevelError,
		Context: "source failed",
		Problem: message,
		Details: details,
		Hints: []string{
			"Load a CSV file: tabular records <schema> --csv path",
			"Run a query: tabular records <schema> --driver sqlite --dsn file.db --query 'SELECT ...'",
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:   LevelError,
		Context: "configuration error",
		Problem: message,
		Hints: []string{
			"View config: cat tabular.yml",
			"Get help: tabular --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, details []string, noColor bool) string {
	return FormatMessage(MessageOptions{
		Level:   LevelWarning,
		Problem: message,
		Details: details,
		NoColor: noColor,
	})
}
