package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cybertec-postgresql/erdfix/internal/catalog"
	"github.com/cybertec-postgresql/erdfix/internal/discovery"
	"github.com/cybertec-postgresql/erdfix/internal/logger"
	"github.com/cybertec-postgresql/erdfix/internal/results"
	"github.com/cybertec-postgresql/erdfix/internal/runner"
)

// Run executes the fix workflow over paths. With config.CheckOnly set the
// files are annotated in memory only. The returned exit code is non-zero if
// any file failed.
func Run(ctx context.Context, config *Config, paths []string) (int, error) {
	startTime := time.Now()
	log := logger.Default()

	log.Debug("discovering DDL files in %v", paths)

	// Step 1: Discover files
	files, err := discovery.Discover(paths...)
	if err != nil {
		return 1, fmt.Errorf("failed to discover files: %w", err)
	}

	if len(files) == 0 {
		fmt.Println("No SQL files found (*.sql)")
		return 0, nil
	}

	log.Debug("found %d file(s)", len(files))

	// Step 2: Annotate every file
	res, err := annotateFiles(ctx, config, files)
	if err != nil {
		return 1, err
	}

	// Step 3: Save results
	if config.ResultsFile != "" {
		store := results.NewStore(config.ResultsFile)
		if err := store.Save(res); err != nil {
			return 1, fmt.Errorf("failed to save results: %w", err)
		}
	}

	// Step 4: Update the comment catalog
	if config.CatalogFile != "" && !config.CheckOnly {
		if err := writeCatalog(ctx, config.CatalogFile, res); err != nil {
			return 1, err
		}
	}

	// Step 5: Display summary
	summary := res.Summarize()

	verb := "fixed"
	if config.CheckOnly {
		verb = "to fix"
	}

	fmt.Printf("\n")
	fmt.Printf("Files:    %d %s, %d unchanged, %d failed, %d total\n",
		summary.FixedFiles, verb, summary.UnchangedFiles, summary.FailedFiles, summary.TotalFiles)
	fmt.Printf("Comments: %d (%d truncated)\n", summary.Splices, summary.Truncated)
	fmt.Printf("Time:     %v\n", time.Since(startTime).Round(time.Millisecond))
	if config.ResultsFile != "" {
		fmt.Printf("\n")
		fmt.Printf("Results written to %s\n", config.ResultsFile)
	}

	return summary.ExitCode(), nil
}

// annotateFiles runs the annotator over files and collects the results
func annotateFiles(ctx context.Context, config *Config, files []discovery.DiscoveredFile) (*results.Results, error) {
	annotator, err := NewAnnotator(config)
	if err != nil {
		return nil, err
	}

	r := runner.New(annotator, runner.Options{
		Parallelism: config.Parallelism,
		CheckOnly:   config.CheckOnly,
		OutputDir:   config.OutputDir,
		Logger:      logger.Default().Zap(),
	})

	runs, err := r.Run(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("processing failed: %w", err)
	}

	return runner.Collect(runs, config.CheckOnly), nil
}

func writeCatalog(ctx context.Context, path string, res *results.Results) error {
	c, err := catalog.Open(ctx, path, logger.Default().Zap())
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer c.Close()

	if err := c.Write(ctx, res); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
