package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected default level 'warn', got %s", cfg.Logging.Level)
	}

	if cfg.Output.Format != "table" {
		t.Errorf("expected default format 'table', got %s", cfg.Output.Format)
	}

	if cfg.Source.DelimiterRune() != ',' {
		t.Errorf("expected default delimiter ',', got %q", cfg.Source.DelimiterRune())
	}

	if cfg.Source.UsesDatabase() {
		t.Error("expected no database source by default")
	}

	if len(cfg.Schemas) != 0 {
		t.Errorf("expected no schemas, got %d", len(cfg.Schemas))
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	configContent := `
logging:
  level: debug
  format: json
source:
  driver: sqlite
  dsn: ":memory:"
  query: SELECT * FROM players
output:
  format: yaml
  include_transient: true
schemas:
  - name: Person
    fields:
      - name: id
        type: int
      - name: name
        type: string
        default: unknown
  - name: Player
    extends: Person
    fields:
      - name: score
        column: points
        type: float
      - name: note
        type: text
        transient: true
`
	if err := os.WriteFile("tabular.yml", []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}

	if !cfg.Source.UsesDatabase() || cfg.Source.DSN != ":memory:" {
		t.Errorf("unexpected source config: %+v", cfg.Source)
	}

	if cfg.Output.Format != "yaml" || !cfg.Output.IncludeTransient {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}

	if len(cfg.Schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(cfg.Schemas))
	}

	player := cfg.Schemas[1]
	if player.Extends != "Person" {
		t.Errorf("expected Player to extend Person, got %q", player.Extends)
	}
	if player.Fields[0].Column != "points" {
		t.Errorf("expected column override 'points', got %q", player.Fields[0].Column)
	}
	if !player.Fields[1].Transient {
		t.Error("expected note to be transient")
	}
	if cfg.Schemas[0].Fields[1].Default != "unknown" {
		t.Errorf("expected default 'unknown', got %v", cfg.Schemas[0].Fields[1].Default)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("source:\n  csv: players.csv\n  delimiter: \";\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Source.CSV != "players.csv" {
		t.Errorf("expected csv 'players.csv', got %q", cfg.Source.CSV)
	}
	if cfg.Source.DelimiterRune() != ';' {
		t.Errorf("expected delimiter ';', got %q", cfg.Source.DelimiterRune())
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TABULAR_OUTPUT_FORMAT", "json")
	t.Setenv("TABULAR_SOURCE_CSV", "env.csv")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected format from env 'json', got %s", cfg.Output.Format)
	}
	if cfg.Source.CSV != "env.csv" {
		t.Errorf("expected csv from env 'env.csv', got %s", cfg.Source.CSV)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad log format", "logging:\n  format: xml\n", "logging.format"},
		{"bad output format", "output:\n  format: html\n", "output.format"},
		{"long delimiter", "source:\n  delimiter: ';;'\n", "source.delimiter"},
		{"csv and query", "source:\n  csv: a.csv\n  query: SELECT 1\n", "cannot be combined"},
		{"bad driver", "source:\n  driver: oracle\n", "source.driver"},
		{"unnamed schema", "schemas:\n  - fields: []\n", "name is required"},
		{"duplicate schema", "schemas:\n  - name: A\n  - name: A\n", "declared more than once"},
		{"bad field type", "schemas:\n  - name: A\n    fields:\n      - name: x\n        type: blob\n", "schemas[0].fields[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			if err := os.WriteFile("tabular.yaml", []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load("")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "tabular.yml"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, nested)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("expected to find config, got %v", err)
	}
	if filepath.Base(path) != "tabular.yml" {
		t.Errorf("expected tabular.yml, got %s", path)
	}
}

func TestLoadFromParentDirectory(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "reports", "weekly")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	content := "output:\n  format: json\nlogging:\n  level: error\n"
	if err := os.WriteFile(filepath.Join(root, "tabular.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, nested)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected parent config to load, got %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected format 'json' from parent config, got %s", cfg.Output.Format)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level 'error' from parent config, got %s", cfg.Logging.Level)
	}
}
