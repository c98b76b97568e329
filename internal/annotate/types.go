package annotate

import (
	"fmt"
	"strings"
)

// Pass identifies one of the three annotation passes
type Pass int

const (
	PassColumn Pass = iota // COMMENT ON COLUMN -> column definition line
	PassIndex              // COMMENT ON INDEX -> CREATE INDEX line
	PassTable              // COMMENT ON TABLE -> closing line of CREATE TABLE
)

// AllPasses returns every pass in execution order. The table pass runs first:
// it only rewrites the closing line of a table body, which the column scan
// treats as the end of the table anyway, while a spliced column comment may
// carry a ")" that the table scan would take for the closing line.
func AllPasses() []Pass {
	return []Pass{PassTable, PassIndex, PassColumn}
}

// String returns a string representation of Pass
func (p Pass) String() string {
	switch p {
	case PassColumn:
		return "column"
	case PassIndex:
		return "index"
	case PassTable:
		return "table"
	default:
		return "unknown"
	}
}

// ParsePass converts a pass name to a Pass. It accepts column, index and
// table, their plurals (columns, indexes, tables), in any case.
func ParsePass(name string) (Pass, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "column", "columns":
		return PassColumn, nil
	case "index", "indexes":
		return PassIndex, nil
	case "table", "tables":
		return PassTable, nil
	default:
		return 0, fmt.Errorf("unknown pass: %q (supported: column, index, table)", name)
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Pass) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Pass) UnmarshalText(text []byte) error {
	parsed, err := ParsePass(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Splice records a single comment clause written into a definition line
type Splice struct {
	Pass      Pass   `json:"pass"`
	Table     string `json:"table,omitempty"`
	Column    string `json:"column,omitempty"`
	Index     string `json:"index,omitempty"`
	Line      int    `json:"line"`    // 1-indexed line number of the definition site
	Comment   string `json:"comment"` // Comment text as found after the marker
	Text      string `json:"text"`    // Comment text as spliced, after truncation
	Truncated bool   `json:"truncated,omitempty"`
	Original  string `json:"original"`
	Rewritten string `json:"rewritten"`
}

// Object returns a printable name of the annotated object
func (s Splice) Object() string {
	switch s.Pass {
	case PassColumn:
		return s.Table + "." + s.Column
	case PassIndex:
		return s.Index
	default:
		return s.Table
	}
}

// Result is the outcome of running the annotator over one document
type Result struct {
	Text    string
	Splices []Splice
}

// Changed reports whether any definition line was rewritten
func (r *Result) Changed() bool {
	return len(r.Splices) > 0
}
