package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	erdErrors "github.com/cybertec-postgresql/erdfix/internal/errors"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Passes) != 3 || cfg.Passes[0] != "table" || cfg.Passes[2] != "column" {
		t.Errorf("expected default passes [table index column], got %v", cfg.Passes)
	}
	if cfg.MaxCommentLength != 1024 {
		t.Errorf("expected default max comment length 1024, got %d", cfg.MaxCommentLength)
	}
	if cfg.Parallelism != 1 {
		t.Errorf("expected default parallelism 1, got %d", cfg.Parallelism)
	}
	if cfg.ResultsFile != ".erdfix/results.json" {
		t.Errorf("expected default results file '.erdfix/results.json', got '%s'", cfg.ResultsFile)
	}
	if cfg.Verbose != false {
		t.Errorf("expected default verbose false, got %v", cfg.Verbose)
	}
}

func TestLoadConfig_DefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfig(t, DefaultConfigFile, "passes: [table]\nparallelism: 4\n")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Passes) != 1 || cfg.Passes[0] != "table" {
		t.Errorf("expected passes from file [table], got %v", cfg.Passes)
	}
	if cfg.Parallelism != 4 {
		t.Errorf("expected parallelism from file 4, got %d", cfg.Parallelism)
	}
	if cfg.MaxCommentLength != 1024 {
		t.Errorf("expected default max comment length to survive, got %d", cfg.MaxCommentLength)
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	writeConfig(t, path, `
max_comment_length: 255
output_dir: out
results_file: results.json
catalog_file: comments.db
connection: "postgres://localhost/erd"
verbose: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MaxCommentLength != 255 {
		t.Errorf("expected max comment length 255, got %d", cfg.MaxCommentLength)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got '%s'", cfg.OutputDir)
	}
	if cfg.ResultsFile != "results.json" {
		t.Errorf("expected results file 'results.json', got '%s'", cfg.ResultsFile)
	}
	if cfg.CatalogFile != "comments.db" {
		t.Errorf("expected catalog file 'comments.db', got '%s'", cfg.CatalogFile)
	}
	if cfg.ConnectionString != "postgres://localhost/erd" {
		t.Errorf("expected connection string from file, got '%s'", cfg.ConnectionString)
	}
	if !cfg.Verbose {
		t.Error("expected verbose true")
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	writeConfig(t, path, "passes: [column\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_DoesNotMutateDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfig(t, DefaultConfigFile, "passes: [index]\n")

	if _, err := LoadConfig(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if DefaultConfig.Passes[0] != "table" {
		t.Errorf("DefaultConfig was modified: %v", DefaultConfig.Passes)
	}
}

func TestApplyFlagsToConfig(t *testing.T) {
	cfg := NewConfig()

	ApplyFlagsToConfig(cfg, Flags{
		Passes:           []string{"index"},
		MaxCommentLength: 100,
		Parallelism:      8,
		OutputDir:        "out",
		ResultsFile:      "/tmp/results.json",
		CatalogFile:      "comments.db",
		Connection:       "host=db",
		Verbose:          true,
	})

	if len(cfg.Passes) != 1 || cfg.Passes[0] != "index" {
		t.Errorf("expected passes [index], got %v", cfg.Passes)
	}
	if cfg.MaxCommentLength != 100 {
		t.Errorf("expected max comment length 100, got %d", cfg.MaxCommentLength)
	}
	if cfg.Parallelism != 8 {
		t.Errorf("expected parallelism 8, got %d", cfg.Parallelism)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("expected output dir 'out', got '%s'", cfg.OutputDir)
	}
	if cfg.ResultsFile != "/tmp/results.json" {
		t.Errorf("expected results file '/tmp/results.json', got '%s'", cfg.ResultsFile)
	}
	if cfg.CatalogFile != "comments.db" {
		t.Errorf("expected catalog file 'comments.db', got '%s'", cfg.CatalogFile)
	}
	if cfg.ConnectionString != "host=db" {
		t.Errorf("expected connection 'host=db', got '%s'", cfg.ConnectionString)
	}
	if !cfg.Verbose {
		t.Error("expected verbose true")
	}
}

func TestApplyFlagsToConfig_ZeroValues(t *testing.T) {
	cfg := NewConfig()
	cfg.Parallelism = 3
	cfg.Verbose = true

	ApplyFlagsToConfig(cfg, Flags{})

	if cfg.Parallelism != 3 {
		t.Errorf("expected parallelism to remain 3, got %d", cfg.Parallelism)
	}
	if !cfg.Verbose {
		t.Error("expected verbose to remain true")
	}
	if len(cfg.Passes) != 3 {
		t.Errorf("expected default passes to remain, got %v", cfg.Passes)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"defaults", func(*Config) {}, ""},
		{"plural pass names", func(c *Config) { c.Passes = []string{"Columns", "tables"} }, ""},
		{"no passes", func(c *Config) { c.Passes = nil }, "passes"},
		{"unknown pass", func(c *Config) { c.Passes = []string{"view"} }, "passes"},
		{"max too small", func(c *Config) { c.MaxCommentLength = 3 }, "max_comment_length"},
		{"minimum max", func(c *Config) { c.MaxCommentLength = 4 }, ""},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }, "parallelism"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := ValidateConfig(cfg)
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var cfgErr *erdErrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestNewAnnotator(t *testing.T) {
	cfg := NewConfig()
	cfg.Passes = []string{"table", "column"}

	a, err := NewAnnotator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	passes := a.Passes()
	if len(passes) != 2 || passes[0].String() != "table" || passes[1].String() != "column" {
		t.Errorf("expected passes in table, column order, got %v", passes)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}
