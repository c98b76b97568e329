package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cybertec-postgresql/erdfix/internal/cli"
	"github.com/cybertec-postgresql/erdfix/internal/logger"
	urfavecli "github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	app := &urfavecli.Command{
		Name:    "erdfix",
		Usage:   "Add COMMENT clauses to DDL exported by ERD Concepts",
		Version: version,
		Commands: []*urfavecli.Command{
			{
				Name:      "fix",
				Usage:     "Annotate DDL files in place (or into --output-dir)",
				ArgsUsage: "[path...]",
				Action:    fixCommand,
				Flags: append(annotateFlags(),
					&urfavecli.StringFlag{
						Name:  "output-dir",
						Usage: "Write annotated files here instead of rewriting them in place",
					},
					&urfavecli.StringFlag{
						Name:  "catalog",
						Usage: "SQLite database to record every spliced comment in",
					},
				),
			},
			{
				Name:      "check",
				Usage:     "Report what fix would change without writing any file",
				ArgsUsage: "[path...]",
				Action:    checkCommand,
				Flags:     annotateFlags(),
			},
			{
				Name:      "verify",
				Usage:     "Read escaped comment literals back through PostgreSQL",
				ArgsUsage: "[path...]",
				Action:    verifyCommand,
				Flags: append(annotateFlags(),
					&urfavecli.StringFlag{
						Name:    "connection",
						Aliases: []string{"c"},
						Usage:   "PostgreSQL connection string (URI or key=value format). Supports standard PG* environment variables.",
						Sources: urfavecli.EnvVars("ERDFIX_CONNECTION"),
					},
				),
			},
			{
				Name:   "report",
				Usage:  "Generate a report from the last fix or check run",
				Action: reportCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "format",
						Usage: "Output format (json, text, or html)",
						Value: "text",
					},
					&urfavecli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (use - for stdout)",
						Value:   "-",
					},
					&urfavecli.StringFlag{
						Name:  "results-file",
						Usage: "Run results input path",
						Value: cli.DefaultConfig.ResultsFile,
					},
				},
			},
			{
				Name:      "catalog",
				Usage:     "Store the comments of the last run in a SQLite catalog",
				ArgsUsage: "<database>",
				Action:    catalogCommand,
				Flags: []urfavecli.Flag{
					&urfavecli.StringFlag{
						Name:  "results-file",
						Usage: "Run results input path",
						Value: cli.DefaultConfig.ResultsFile,
					},
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// annotateFlags returns the flags shared by every command that runs the passes
func annotateFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration file (default " + cli.DefaultConfigFile + " if present)",
		},
		&urfavecli.StringSliceFlag{
			Name:  "passes",
			Usage: "Passes to run, in column, index, table order",
		},
		&urfavecli.IntFlag{
			Name:  "max-comment-length",
			Usage: "Truncate comments longer than this many characters",
		},
		&urfavecli.IntFlag{
			Name:  "parallel",
			Usage: "Maximum files processed concurrently",
		},
		&urfavecli.StringFlag{
			Name:  "results-file",
			Usage: "Run results output path",
		},
		&urfavecli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug output",
		},
	}
}

// loadConfig merges the config file with command flags and validates the
// result. Invalid configuration exits with code 2.
func loadConfig(cmd *urfavecli.Command) (*cli.Config, error) {
	config, err := cli.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	cli.ApplyFlagsToConfig(config, cli.Flags{
		Passes:           cmd.StringSlice("passes"),
		MaxCommentLength: cmd.Int("max-comment-length"),
		Parallelism:      cmd.Int("parallel"),
		OutputDir:        cmd.String("output-dir"),
		ResultsFile:      cmd.String("results-file"),
		CatalogFile:      cmd.String("catalog"),
		Connection:       cmd.String("connection"),
		Verbose:          cmd.Bool("verbose"),
	})

	if err := cli.ValidateConfig(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger.SetVerbose(config.Verbose)
	return config, nil
}

// searchPaths returns the positional arguments, defaulting to the current directory
func searchPaths(cmd *urfavecli.Command) []string {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return paths
}

func exit(exitCode int, err error) error {
	defer logger.Default().Sync()
	if err != nil {
		return err
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// fixCommand handles the 'erdfix fix' command
func fixCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return exit(cli.Run(ctx, config, searchPaths(cmd)))
}

// checkCommand handles the 'erdfix check' command
func checkCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	config.CheckOnly = true
	config.OutputDir = ""
	return exit(cli.Run(ctx, config, searchPaths(cmd)))
}

// verifyCommand handles the 'erdfix verify' command
func verifyCommand(ctx context.Context, cmd *urfavecli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return exit(cli.Verify(ctx, config, searchPaths(cmd)))
}

// reportCommand handles the 'erdfix report' command
func reportCommand(ctx context.Context, cmd *urfavecli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")
	resultsFile := cmd.String("results-file")

	return cli.Report(resultsFile, format, output)
}

// catalogCommand handles the 'erdfix catalog' command
func catalogCommand(ctx context.Context, cmd *urfavecli.Command) error {
	dbPath := cmd.Args().First()
	if dbPath == "" {
		return fmt.Errorf("catalog database path is required")
	}
	return cli.Catalog(ctx, cmd.String("results-file"), dbPath)
}
