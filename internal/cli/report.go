package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/cybertec-postgresql/erdfix/internal/report"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// Report generates a report from saved run results
func Report(resultsFile string, format string, outputPath string) error {
	// Step 1: Load results
	res, err := loadResults(resultsFile)
	if err != nil {
		return err
	}

	// Step 2: Validate format
	if !report.ValidFormat(format) {
		return fmt.Errorf("unsupported format: %s (supported: %v)", format, report.SupportedFormats())
	}

	// Step 3: Get formatter
	formatter, err := report.GetFormatter(report.FormatType(format))
	if err != nil {
		return err
	}

	// Step 4: Format and output
	var writer *os.File
	if outputPath == "-" || outputPath == "" {
		writer = os.Stdout
	} else {
		writer, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer writer.Close()
	}

	if err := formatter.Format(res, writer); err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	// Print success message to stderr (so it doesn't interfere with stdout output)
	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	}

	return nil
}

// Catalog writes saved run results into the SQLite comment catalog at dbPath
func Catalog(ctx context.Context, resultsFile string, dbPath string) error {
	res, err := loadResults(resultsFile)
	if err != nil {
		return err
	}

	if err := writeCatalog(ctx, dbPath, res); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Catalog written to %s\n", dbPath)
	return nil
}

func loadResults(resultsFile string) (*results.Results, error) {
	store := results.NewStore(resultsFile)
	if !store.Exists() {
		return nil, fmt.Errorf("results file not found: %s (run 'erdfix fix' or 'erdfix check' first)", resultsFile)
	}

	res, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	return res, nil
}
