package annotate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readQuoted reads a single-quoted MySQL string literal from the start of s
// and returns its value and whatever follows the closing quote.
func readQuoted(t *testing.T, s string) (string, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(s, "'"), "literal must start with a quote: %q", s)

	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			return b.String(), s[i+1:]
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case '0':
				b.WriteByte(0)
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 'Z':
				b.WriteByte(0x1a)
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	t.Fatalf("unterminated literal: %q", s)
	return "", ""
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		max     int
		want    string
	}{
		{
			name:    "shorter than max",
			comment: strings.Repeat("x", MaxCommentLength-1),
			max:     MaxCommentLength,
			want:    strings.Repeat("x", MaxCommentLength-1),
		},
		{
			name:    "exactly max",
			comment: strings.Repeat("x", MaxCommentLength),
			max:     MaxCommentLength,
			want:    strings.Repeat("x", MaxCommentLength),
		},
		{
			name:    "one over max",
			comment: strings.Repeat("x", MaxCommentLength+1),
			max:     MaxCommentLength,
			want:    strings.Repeat("x", MaxCommentLength-3) + "...",
		},
		{
			name:    "trailing whitespace at cut",
			comment: "abcd efgh",
			max:     8,
			want:    "abcd...",
		},
		{
			name:    "multibyte counted as characters",
			comment: "ääääää",
			max:     5,
			want:    "ää...",
		},
		{
			name:    "max below ellipsis",
			comment: "abcdef",
			max:     2,
			want:    "...",
		},
		{
			name:    "empty",
			comment: "",
			max:     MaxCommentLength,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.comment, tt.max))
		})
	}
}

func TestTruncate_LengthAtLimit(t *testing.T) {
	got := Truncate(strings.Repeat("é", MaxCommentLength+1), MaxCommentLength)
	assert.Equal(t, MaxCommentLength, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"it's", `it\'s`},
		{`C:\temp`, `C:\\temp`},
		{`say "hi"`, `say \"hi\"`},
		{"a\nb\rc", `a\nb\rc`},
		{"nul\x00byte", `nul\0byte`},
		{"ctrl\x1az", `ctrl\Zz`},
		{`\'`, `\\\'`},
		{"Grüße", "Grüße"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeString(tt.in))
		})
	}
}

func TestEscapeString_RoundTrip(t *testing.T) {
	inputs := []string{
		`O'Reilly's \ backslash`,
		`trailing backslash \`,
		`''''`,
		"mixed \\' \" \x00 \n \r \x1a end",
		"",
	}

	for _, in := range inputs {
		value, rest := readQuoted(t, "'"+EscapeString(in)+"',")
		assert.Equal(t, in, value)
		assert.Equal(t, ",", rest)
	}
}

func TestSpliceLine(t *testing.T) {
	tests := []struct {
		line   string
		clause string
		want   string
	}{
		{"  `a` INT,", " COMMENT 'x',", "  `a` INT COMMENT 'x',"},
		{"  `a` INT,   \t", " COMMENT 'x',", "  `a` INT COMMENT 'x',"},
		{");", " COMMENT 'x';", ") COMMENT 'x';"},
		{"", " COMMENT 'x';", " COMMENT 'x';"},
		{"  `ä` INTä", ",", "  `ä` INT,"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, spliceLine(tt.line, tt.clause))
	}
}
