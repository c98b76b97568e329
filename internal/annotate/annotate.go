// Package annotate rewrites DDL generated by ERD Concepts for MySQL. The
// generator writes descriptions as separate COMMENT ON pseudo-statements:
//
//	COMMENT ON COLUMN `user`.`name`
//	Full legal name
//
// The annotator moves each description into the definition it belongs to:
//
//	  `name` VARCHAR(50) COMMENT 'Full legal name',
//
// Each pass scans the lines for definition sites, scans them again for
// markers, then splices the comment clauses. The input is never parsed as
// SQL; it relies on the generator's fixed layout (two-space indented column
// lines, backtick-quoted identifiers). Marker lines are left in place.
//
// Passes are not idempotent: running a pass over its own output appends a
// second COMMENT clause to every annotated line.
package annotate

import (
	"strings"
)

// Option configures an Annotator
type Option func(*Annotator)

// WithMaxCommentLength sets the length comments are truncated to
func WithMaxCommentLength(n int) Option {
	return func(a *Annotator) {
		a.maxLength = n
	}
}

// WithPasses selects the passes to run. They always run in the order
// table, index, column regardless of the order given here.
func WithPasses(passes ...Pass) Option {
	return func(a *Annotator) {
		a.passes = make(map[Pass]bool, len(passes))
		for _, p := range passes {
			a.passes[p] = true
		}
	}
}

// Annotator splices COMMENT ON annotations into DDL text
type Annotator struct {
	maxLength int
	passes    map[Pass]bool
}

// New creates an Annotator running all passes with MaxCommentLength
func New(opts ...Option) *Annotator {
	a := &Annotator{maxLength: MaxCommentLength}
	WithPasses(AllPasses()...)(a)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Passes returns the enabled passes in execution order
func (a *Annotator) Passes() []Pass {
	var passes []Pass
	for _, p := range AllPasses() {
		if a.passes[p] {
			passes = append(passes, p)
		}
	}
	return passes
}

// Fix runs the enabled passes over source. On error no partial result is
// returned.
func (a *Annotator) Fix(source string) (*Result, error) {
	lines := strings.Split(source, "\n")

	var splices []Splice
	for _, pass := range a.Passes() {
		var (
			applied []Splice
			err     error
		)
		switch pass {
		case PassColumn:
			applied, err = a.fixColumns(lines)
		case PassIndex:
			applied, err = a.fixIndexes(lines)
		case PassTable:
			applied, err = a.fixTables(lines)
		}
		if err != nil {
			return nil, err
		}
		splices = append(splices, applied...)
	}

	return &Result{
		Text:    strings.Join(lines, "\n"),
		Splices: splices,
	}, nil
}

// FixColumnComments adds COMMENT clauses to column definitions
func FixColumnComments(source string) (string, error) {
	return fixWith(source, PassColumn)
}

// FixIndexComments adds COMMENT clauses to CREATE INDEX statements
func FixIndexComments(source string) (string, error) {
	return fixWith(source, PassIndex)
}

// FixTableComments adds COMMENT clauses to CREATE TABLE statements
func FixTableComments(source string) (string, error) {
	return fixWith(source, PassTable)
}

func fixWith(source string, pass Pass) (string, error) {
	res, err := New(WithPasses(pass)).Fix(source)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// splice rewrites lines[n] in place and returns the record of it
func (a *Annotator) splice(lines []string, n int, comment, terminator string) Splice {
	text := Truncate(comment, a.maxLength)
	original := lines[n]
	lines[n] = spliceLine(original, commentClause(text, terminator))

	return Splice{
		Line:      n + 1,
		Comment:   comment,
		Text:      text,
		Truncated: text != comment,
		Original:  original,
		Rewritten: lines[n],
	}
}

// markerComment returns the trimmed line following the marker at index i
func markerComment(lines []string, i int) string {
	if i+1 >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[i+1])
}
