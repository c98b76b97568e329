package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// TextReporter formats run results as plain text, one line per comment
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format writes a human-readable listing of every file and spliced comment
func (r *TextReporter) Format(res *results.Results, writer io.Writer) error {
	for _, file := range res.GetFiles() {
		fr := res.Files[file]
		if _, err := fmt.Fprintf(writer, "%s: %s", file, fr.Status); err != nil {
			return err
		}
		if fr.Error != "" {
			if _, err := fmt.Fprintf(writer, " (%s)", fr.Error); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}

		for _, s := range fr.Splices {
			marker := ""
			if s.Truncated {
				marker = " [truncated]"
			}
			if _, err := fmt.Fprintf(writer, "  %d: %-6s %s: %s%s\n",
				s.Line, s.Pass, s.Object(), s.Comment, marker); err != nil {
				return err
			}
		}
	}

	s := res.Summarize()
	_, err := fmt.Fprintf(writer, "\nFiles:    %d fixed, %d unchanged, %d failed, %d total\n"+
		"Comments: %d (%s), %d truncated\n",
		s.FixedFiles, s.UnchangedFiles, s.FailedFiles, s.TotalFiles,
		s.Splices, formatByPass(s.ByPass), s.Truncated)
	return err
}

func formatByPass(byPass map[annotate.Pass]int) string {
	parts := make([]string, 0, len(byPass))
	for _, p := range annotate.AllPasses() {
		parts = append(parts, fmt.Sprintf("%d %s", byPass[p], p))
	}
	return strings.Join(parts, ", ")
}

// FormatString returns run results as a text string
func (r *TextReporter) FormatString(res *results.Results) (string, error) {
	var buf strings.Builder
	if err := r.Format(res, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}
