package annotate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxCommentLength is the longest column comment MySQL accepts
const MaxCommentLength = 1024

const ellipsis = "..."

// Truncate shortens comment to at most max characters. Longer comments are cut
// to max-3 characters, stripped of trailing whitespace and suffixed with "...".
// Length is counted in runes, not bytes.
func Truncate(comment string, max int) string {
	if utf8.RuneCountInString(comment) <= max {
		return comment
	}

	keep := max - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(comment)
	return strings.TrimRightFunc(string(runes[:keep]), unicode.IsSpace) + ellipsis
}

var literalEscaper = strings.NewReplacer(
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\x1a", `\Z`,
)

// EscapeString escapes s for use inside a single-quoted MySQL string literal.
// It covers the same characters as mysql_real_escape_string and needs no
// server connection; the input is generator output, not user input.
func EscapeString(s string) string {
	return literalEscaper.Replace(s)
}

// commentClause renders " COMMENT '<text>'" followed by terminator
func commentClause(text, terminator string) string {
	return " COMMENT '" + EscapeString(text) + "'" + terminator
}

// spliceLine drops the last character of the right-trimmed line (the comma or
// semicolon the generator wrote) and appends clause in its place.
func spliceLine(line, clause string) string {
	trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
	if trimmed != "" {
		_, size := utf8.DecodeLastRuneInString(trimmed)
		trimmed = trimmed[:len(trimmed)-size]
	}
	return trimmed + clause
}
