package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// JSONReporter formats run results as JSON
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// Format formats run results as JSON and writes to the writer
func (r *JSONReporter) Format(res *results.Results, writer io.Writer) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	_, err = writer.Write([]byte("\n"))
	return err
}

// FormatString returns run results as a JSON string
func (r *JSONReporter) FormatString(res *results.Results) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	return string(data), nil
}

// FormatSummary formats only the per-status counts as JSON
func (r *JSONReporter) FormatSummary(res *results.Results) (string, error) {
	s := res.Summarize()

	byPass := make(map[string]int, len(s.ByPass))
	for pass, n := range s.ByPass {
		byPass[pass.String()] = n
	}

	summary := map[string]interface{}{
		"version":   res.Version,
		"timestamp": res.Timestamp,
		"files": map[string]int{
			"total":     s.TotalFiles,
			"fixed":     s.FixedFiles,
			"unchanged": s.UnchangedFiles,
			"failed":    s.FailedFiles,
		},
		"comments":  s.Splices,
		"truncated": s.Truncated,
		"by_pass":   byPass,
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary to JSON: %w", err)
	}

	return string(data), nil
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
