package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// Querier is the subset of pgxpool.Pool used by the verifier
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Outcome classifies a literal check
type Outcome string

const (
	OutcomeMatch    Outcome = "match"
	OutcomeMismatch Outcome = "mismatch"
	OutcomeSkipped  Outcome = "skipped" // Text PostgreSQL cannot represent the same way
)

// Check is the verification of one spliced comment
type Check struct {
	File     string
	Splice   annotate.Splice
	Expected string // Comment text as spliced
	Got      string // Value PostgreSQL read back from the escaped literal
	Outcome  Outcome
}

// Verifier reads escaped comment literals back through PostgreSQL escape
// string syntax (E'...') and compares them with the expected text. The
// escaping itself never touches the server.
type Verifier struct {
	db        Querier
	maxLength int
	logger    *zap.Logger
}

// NewVerifier creates a verifier; a nil logger disables logging
func NewVerifier(db Querier, maxLength int, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{db: db, maxLength: maxLength, logger: logger}
}

// Literal returns the value PostgreSQL reads from the escaped form of text
func (v *Verifier) Literal(ctx context.Context, text string) (string, error) {
	var got string
	if err := v.db.QueryRow(ctx, "SELECT E'"+annotate.EscapeString(text)+"'").Scan(&got); err != nil {
		return "", fmt.Errorf("failed to read literal back: %w", err)
	}
	return got, nil
}

// Verify checks every splice of every file in res. Splices recorded without
// their spliced text are truncated to the verifier's maximum length.
func (v *Verifier) Verify(ctx context.Context, res *results.Results) ([]Check, error) {
	var checks []Check

	for _, file := range res.GetFiles() {
		for _, s := range res.Files[file].Splices {
			check := Check{
				File:     file,
				Splice:   s,
				Expected: s.Text,
			}
			if check.Expected == "" {
				check.Expected = annotate.Truncate(s.Comment, v.maxLength)
			}

			// NUL is not valid in PostgreSQL text and \Z has no special
			// meaning in escape strings.
			if strings.ContainsAny(check.Expected, "\x00\x1a") {
				check.Outcome = OutcomeSkipped
				checks = append(checks, check)
				continue
			}

			got, err := v.Literal(ctx, check.Expected)
			if err != nil {
				return checks, fmt.Errorf("%s line %d: %w", file, s.Line, err)
			}
			check.Got = got
			check.Outcome = OutcomeMatch
			if got != check.Expected {
				check.Outcome = OutcomeMismatch
				v.logger.Error("literal mismatch",
					zap.String("file", file),
					zap.Int("line", s.Line),
					zap.String("object", s.Object()),
					zap.String("expected", check.Expected),
					zap.String("got", got))
			}
			checks = append(checks, check)
		}
	}

	return checks, nil
}

// CountOutcomes tallies checks by outcome
func CountOutcomes(checks []Check) map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, c := range checks {
		counts[c.Outcome]++
	}
	return counts
}
