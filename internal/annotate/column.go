package annotate

import (
	"regexp"

	"github.com/cybertec-postgresql/erdfix/internal/errors"
)

var (
	createTableRe   = regexp.MustCompile("^CREATE TABLE `(\\w+)`")
	columnDefRe     = regexp.MustCompile("^  `(\\w+)`")
	commentColumnRe = regexp.MustCompile("^COMMENT ON COLUMN `(\\w+)`\\.`(\\w+)`")
)

// columnComment is one COMMENT ON COLUMN annotation
type columnComment struct {
	column  string
	comment string
}

// tableColumnComments groups column annotations of one table, in the order
// their markers first appear
type tableColumnComments struct {
	table    string
	comments []columnComment
}

// scanColumnDefinitions maps table name -> column name -> line index. A table
// body ends at the first line that is not a two-space indented column.
func scanColumnDefinitions(lines []string) map[string]map[string]int {
	defs := make(map[string]map[string]int)

	table := ""
	for i, line := range lines {
		if table != "" {
			if m := columnDefRe.FindStringSubmatch(line); m != nil {
				defs[table][m[1]] = i
			} else {
				table = ""
			}
		}

		if table == "" {
			if m := createTableRe.FindStringSubmatch(line); m != nil {
				table = m[1]
				if defs[table] == nil {
					defs[table] = make(map[string]int)
				}
			}
		}
	}

	return defs
}

// scanColumnComments collects COMMENT ON COLUMN annotations grouped by table.
// A repeated marker replaces the text but keeps its original position.
func scanColumnComments(lines []string) []*tableColumnComments {
	var groups []*tableColumnComments
	byTable := make(map[string]*tableColumnComments)

	for i, line := range lines {
		m := commentColumnRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		table, column := m[1], m[2]
		comment := markerComment(lines, i)

		group, ok := byTable[table]
		if !ok {
			group = &tableColumnComments{table: table}
			byTable[table] = group
			groups = append(groups, group)
		}

		replaced := false
		for j := range group.comments {
			if group.comments[j].column == column {
				group.comments[j].comment = comment
				replaced = true
				break
			}
		}
		if !replaced {
			group.comments = append(group.comments, columnComment{column: column, comment: comment})
		}
	}

	return groups
}

// fixColumns splices column comments; column lines keep their trailing comma
func (a *Annotator) fixColumns(lines []string) ([]Splice, error) {
	defs := scanColumnDefinitions(lines)
	groups := scanColumnComments(lines)

	var splices []Splice
	for _, group := range groups {
		columns, ok := defs[group.table]
		if !ok {
			return nil, errors.NewUndefinedTableError(group.table)
		}

		for _, cc := range group.comments {
			n, ok := columns[cc.column]
			if !ok {
				return nil, errors.NewUndefinedColumnError(group.table, cc.column)
			}

			s := a.splice(lines, n, cc.comment, ",")
			s.Pass = PassColumn
			s.Table = group.table
			s.Column = cc.column
			splices = append(splices, s)
		}
	}

	return splices, nil
}
