package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/errors"
	"github.com/cybertec-postgresql/erdfix/pkg/types"
)

// Config is an alias for the shared Config type
type Config = types.Config

// DefaultConfigFile is loaded when present and no --config flag is given
const DefaultConfigFile = ".erdfix.yml"

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Passes:           []string{"table", "index", "column"},
	MaxCommentLength: annotate.MaxCommentLength,
	Parallelism:      1,
	ResultsFile:      ".erdfix/results.json",
	Verbose:          false,
}

// NewConfig returns a copy of DefaultConfig
func NewConfig() *Config {
	c := DefaultConfig
	c.Passes = append([]string(nil), DefaultConfig.Passes...)
	return &c
}

// LoadConfig builds a configuration from defaults overlaid with the YAML file
// at path. An empty path falls back to DefaultConfigFile if it exists.
func LoadConfig(path string) (*Config, error) {
	c := NewConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return c, nil
}

// Flags holds command-line overrides; zero values leave the config untouched
type Flags struct {
	Passes           []string
	MaxCommentLength int
	Parallelism      int
	OutputDir        string
	ResultsFile      string
	CatalogFile      string
	Connection       string
	Verbose          bool
}

// ApplyFlagsToConfig applies command-line flag values to configuration
func ApplyFlagsToConfig(c *Config, f Flags) {
	if len(f.Passes) > 0 {
		c.Passes = f.Passes
	}
	if f.MaxCommentLength != 0 {
		c.MaxCommentLength = f.MaxCommentLength
	}
	if f.Parallelism != 0 {
		c.Parallelism = f.Parallelism
	}
	if f.OutputDir != "" {
		c.OutputDir = f.OutputDir
	}
	if f.ResultsFile != "" {
		c.ResultsFile = f.ResultsFile
	}
	if f.CatalogFile != "" {
		c.CatalogFile = f.CatalogFile
	}
	if f.Connection != "" {
		c.ConnectionString = f.Connection
	}
	if f.Verbose {
		c.Verbose = true
	}
}

// ValidateConfig checks that configuration values are usable
func ValidateConfig(c *Config) error {
	if len(c.Passes) == 0 {
		return &errors.ConfigError{Field: "passes", Message: "at least one pass is required"}
	}
	if _, err := ParsePasses(c.Passes); err != nil {
		return &errors.ConfigError{Field: "passes", Message: err.Error()}
	}
	if c.MaxCommentLength < 4 {
		return &errors.ConfigError{
			Field:   "max_comment_length",
			Message: fmt.Sprintf("%d is too small (minimum 4)", c.MaxCommentLength),
		}
	}
	if c.Parallelism < 1 {
		return &errors.ConfigError{
			Field:   "parallelism",
			Message: fmt.Sprintf("%d must be at least 1", c.Parallelism),
		}
	}
	return nil
}

// ParsePasses converts pass names to annotate passes
func ParsePasses(names []string) ([]annotate.Pass, error) {
	passes := make([]annotate.Pass, 0, len(names))
	for _, name := range names {
		p, err := annotate.ParsePass(name)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, nil
}

// NewAnnotator builds an annotator from configuration
func NewAnnotator(c *Config) (*annotate.Annotator, error) {
	passes, err := ParsePasses(c.Passes)
	if err != nil {
		return nil, err
	}
	return annotate.New(
		annotate.WithPasses(passes...),
		annotate.WithMaxCommentLength(c.MaxCommentLength),
	), nil
}
