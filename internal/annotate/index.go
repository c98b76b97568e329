package annotate

import (
	"regexp"

	"github.com/cybertec-postgresql/erdfix/internal/errors"
)

var (
	createIndexRe  = regexp.MustCompile("^CREATE INDEX `(\\w+)`(\\s*\\()?")
	commentIndexRe = regexp.MustCompile("^COMMENT ON INDEX `(\\w+)`")
)

// namedComment is a COMMENT ON INDEX or COMMENT ON TABLE annotation
type namedComment struct {
	name    string
	comment string
}

// scanNamedComments collects annotations matched by re, keyed by the first
// capture group, in the order their markers first appear
func scanNamedComments(lines []string, re *regexp.Regexp) []namedComment {
	var comments []namedComment
	seen := make(map[string]int)

	for i, line := range lines {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		comment := markerComment(lines, i)
		if j, ok := seen[m[1]]; ok {
			comments[j].comment = comment
			continue
		}
		seen[m[1]] = len(comments)
		comments = append(comments, namedComment{name: m[1], comment: comment})
	}

	return comments
}

// scanIndexDefinitions maps index name -> line index of its CREATE INDEX line
func scanIndexDefinitions(lines []string) map[string]int {
	defs := make(map[string]int)
	for i, line := range lines {
		if m := createIndexRe.FindStringSubmatch(line); m != nil {
			defs[m[1]] = i
		}
	}
	return defs
}

// fixIndexes splices index comments; the statement's semicolon is restored
func (a *Annotator) fixIndexes(lines []string) ([]Splice, error) {
	defs := scanIndexDefinitions(lines)

	var splices []Splice
	for _, nc := range scanNamedComments(lines, commentIndexRe) {
		n, ok := defs[nc.name]
		if !ok {
			return nil, errors.NewUndefinedIndexError(nc.name)
		}

		s := a.splice(lines, n, nc.comment, ";")
		s.Pass = PassIndex
		s.Index = nc.name
		splices = append(splices, s)
	}

	return splices, nil
}
