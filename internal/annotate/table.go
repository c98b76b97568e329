package annotate

import (
	"regexp"

	"github.com/cybertec-postgresql/erdfix/internal/errors"
)

var (
	createTableOpenRe = regexp.MustCompile("^CREATE TABLE `(\\w+)`(\\s*\\()?")
	commentTableRe    = regexp.MustCompile("^COMMENT ON TABLE `(\\w+)`")
	parenRe           = regexp.MustCompile(`[()]`)
)

// scanTableDefinitions maps table name -> index of the line closing its body.
//
// Only the first parenthesis on each body line is looked at, and it sets the
// depth to +1 or -1 instead of counting. The first line whose first
// parenthesis is ")" closes the table. This matches the generator's layout,
// where column types like VARCHAR(50) open and close on the same line; a body
// line starting with a bare ")" of a nested expression would end the table
// early.
func scanTableDefinitions(lines []string) map[string]int {
	defs := make(map[string]int)

	table := ""
	depth := 0
	for i, line := range lines {
		if table != "" {
			if p := parenRe.FindString(line); p != "" {
				if p == "(" {
					depth = 1
				} else {
					depth = -1
				}
				if depth < 0 {
					defs[table] = i
					table = ""
				}
			}
		}

		if table == "" {
			if m := createTableOpenRe.FindStringSubmatch(line); m != nil {
				table = m[1]
				if m[2] != "" {
					depth = 1
				}
			}
		}
	}

	return defs
}

// fixTables splices table comments onto the line closing each CREATE TABLE
func (a *Annotator) fixTables(lines []string) ([]Splice, error) {
	defs := scanTableDefinitions(lines)

	var splices []Splice
	for _, nc := range scanNamedComments(lines, commentTableRe) {
		n, ok := defs[nc.name]
		if !ok {
			return nil, errors.NewUndefinedTableError(nc.name)
		}

		s := a.splice(lines, n, nc.comment, ";")
		s.Pass = PassTable
		s.Table = nc.name
		splices = append(splices, s)
	}

	return splices, nil
}
