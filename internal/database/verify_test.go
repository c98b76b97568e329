package database

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.value
	return nil
}

// fakeServer answers SELECT E'...' by decoding the escape string the way
// PostgreSQL does for the escapes erdfix emits.
type fakeServer struct {
	queries []string
	corrupt bool
	err     error
}

func (s *fakeServer) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	s.queries = append(s.queries, sql)
	if s.err != nil {
		return fakeRow{err: s.err}
	}

	body := strings.TrimSuffix(strings.TrimPrefix(sql, "SELECT E'"), "'")
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' || i+1 == len(body) {
			b.WriteByte(body[i])
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(body[i])
		}
	}

	value := b.String()
	if s.corrupt {
		value += "!"
	}
	return fakeRow{value: value}
}

func verifyResults() *results.Results {
	res := results.New()
	res.Add("schema.sql", results.FileResult{
		Status: results.StatusFixed,
		Splices: []annotate.Splice{
			{Pass: annotate.PassColumn, Table: "user", Column: "name", Line: 3, Comment: `It's "C:\temp"`},
			{Pass: annotate.PassTable, Table: "user", Line: 5, Comment: strings.Repeat("x", 20)},
			{Pass: annotate.PassIndex, Index: "ix", Line: 7, Comment: "nul\x00inside"},
		},
	})
	return res
}

func TestVerifier_Verify(t *testing.T) {
	server := &fakeServer{}
	checks, err := NewVerifier(server, 10, nil).Verify(context.Background(), verifyResults())
	require.NoError(t, err)
	require.Len(t, checks, 3)

	assert.Equal(t, OutcomeMatch, checks[0].Outcome)
	assert.Equal(t, `It's "C:\temp"`, checks[0].Got)

	// Expected text is the truncated comment
	assert.Equal(t, "xxxxxxx...", checks[1].Expected)
	assert.Equal(t, OutcomeMatch, checks[1].Outcome)

	assert.Equal(t, OutcomeSkipped, checks[2].Outcome)
	assert.Len(t, server.queries, 2)
	assert.Equal(t, `SELECT E'It\'s \"C:\\temp\"'`, server.queries[0])

	counts := CountOutcomes(checks)
	assert.Equal(t, 2, counts[OutcomeMatch])
	assert.Equal(t, 1, counts[OutcomeSkipped])
}

func TestVerifier_UsesSplicedText(t *testing.T) {
	res := results.New()
	res.Add("schema.sql", results.FileResult{
		Status: results.StatusFixed,
		Splices: []annotate.Splice{{
			Pass:      annotate.PassTable,
			Table:     "user",
			Line:      5,
			Comment:   strings.Repeat("y", 30),
			Text:      "yyyyyyyyyyyyyyyyy...",
			Truncated: true,
		}},
	})

	// The run truncated to 20; a verifier configured otherwise checks the same text
	server := &fakeServer{}
	checks, err := NewVerifier(server, annotate.MaxCommentLength, nil).Verify(context.Background(), res)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, "yyyyyyyyyyyyyyyyy...", checks[0].Expected)
	assert.Equal(t, OutcomeMatch, checks[0].Outcome)
	assert.Equal(t, []string{"SELECT E'yyyyyyyyyyyyyyyyy...'"}, server.queries)
}

func TestVerifier_Mismatch(t *testing.T) {
	checks, err := NewVerifier(&fakeServer{corrupt: true}, annotate.MaxCommentLength, nil).
		Verify(context.Background(), verifyResults())
	require.NoError(t, err)
	assert.Equal(t, 2, CountOutcomes(checks)[OutcomeMismatch])
}

func TestVerifier_QueryError(t *testing.T) {
	boom := stderrors.New("connection reset")
	_, err := NewVerifier(&fakeServer{err: boom}, annotate.MaxCommentLength, nil).
		Verify(context.Background(), verifyResults())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "schema.sql line 3")
}
