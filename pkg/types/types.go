package types

// Config holds runtime configuration combining the config file, flags and defaults
type Config struct {
	// Annotation
	Passes           []string `yaml:"passes"`             // Passes to run: column, index, table
	MaxCommentLength int      `yaml:"max_comment_length"` // Comments are truncated to this many characters

	// Execution
	Parallelism int    `yaml:"parallelism"` // Max concurrent files (1 = sequential)
	OutputDir   string `yaml:"output_dir"`  // Write fixed files here instead of in place
	CheckOnly   bool   `yaml:"-"`           // Validate without writing

	// Output
	ResultsFile string `yaml:"results_file"` // Run results output path
	CatalogFile string `yaml:"catalog_file"` // SQLite comment catalog (empty = disabled)
	Verbose     bool   `yaml:"verbose"`      // Enable debug logging

	// PostgreSQL connection used by verify
	ConnectionString string `yaml:"connection"`
}
