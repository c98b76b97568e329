package cli

import (
	"context"
	"fmt"

	"github.com/cybertec-postgresql/erdfix/internal/database"
	"github.com/cybertec-postgresql/erdfix/internal/discovery"
	"github.com/cybertec-postgresql/erdfix/internal/logger"
)

// Verify annotates paths in memory and reads every escaped comment literal
// back through PostgreSQL. The exit code is non-zero on any mismatch or
// failed file.
func Verify(ctx context.Context, config *Config, paths []string) (int, error) {
	log := logger.Default()

	files, err := discovery.Discover(paths...)
	if err != nil {
		return 1, fmt.Errorf("failed to discover files: %w", err)
	}

	checkOnly := *config
	checkOnly.CheckOnly = true
	res, err := annotateFiles(ctx, &checkOnly, files)
	if err != nil {
		return 1, err
	}

	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	log.Debug("connected to PostgreSQL (server_version_num %d)", pool.ServerVersion())

	checks, err := database.NewVerifier(pool, config.MaxCommentLength, log.Zap()).Verify(ctx, res)
	if err != nil {
		return 1, fmt.Errorf("verification failed: %w", err)
	}

	for _, c := range checks {
		if c.Outcome == database.OutcomeMismatch {
			fmt.Printf("MISMATCH %s:%d %s: expected %q, got %q\n",
				c.File, c.Splice.Line, c.Splice.Object(), c.Expected, c.Got)
		}
	}

	counts := database.CountOutcomes(checks)
	summary := res.Summarize()
	fmt.Printf("\n")
	fmt.Printf("Literals: %d match, %d mismatch, %d skipped\n",
		counts[database.OutcomeMatch], counts[database.OutcomeMismatch], counts[database.OutcomeSkipped])
	fmt.Printf("Files:    %d failed, %d total\n", summary.FailedFiles, summary.TotalFiles)

	if counts[database.OutcomeMismatch] > 0 {
		return 1, nil
	}
	return summary.ExitCode(), nil
}
