package results

import (
	"sort"
	"time"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
)

// SchemaVersion is written into every results file
const SchemaVersion = "1.0"

// Results represents the outcome of one erdfix run across all files
type Results struct {
	Version   string                `json:"version"`   // Schema version (e.g., "1.0")
	Timestamp time.Time             `json:"timestamp"` // When the run finished
	CheckOnly bool                  `json:"check_only,omitempty"`
	Files     map[string]FileResult `json:"files"` // Key: file path as given to the run
}

// FileStatus classifies the outcome for a single file
type FileStatus string

const (
	StatusFixed     FileStatus = "fixed"     // At least one comment spliced
	StatusUnchanged FileStatus = "unchanged" // No annotations found
	StatusFailed    FileStatus = "failed"    // Read, annotate or write error
)

// FileResult is the outcome for a single file
type FileResult struct {
	Status  FileStatus        `json:"status"`
	Output  string            `json:"output,omitempty"` // Where the fixed text was written, if anywhere
	Error   string            `json:"error,omitempty"`
	Splices []annotate.Splice `json:"splices,omitempty"`
}

// New creates an empty Results instance
func New() *Results {
	return &Results{
		Version:   SchemaVersion,
		Timestamp: time.Now(),
		Files:     make(map[string]FileResult),
	}
}

// Add records the result for file
func (r *Results) Add(file string, fr FileResult) {
	if r.Files == nil {
		r.Files = make(map[string]FileResult)
	}
	r.Files[file] = fr
}

// GetFiles returns all file names in sorted order
func (r *Results) GetFiles() []string {
	files := make([]string, 0, len(r.Files))
	for file := range r.Files {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Summary counts files by status and splices by pass
type Summary struct {
	TotalFiles     int
	FixedFiles     int
	UnchangedFiles int
	FailedFiles    int
	Splices        int
	Truncated      int
	ByPass         map[annotate.Pass]int
}

// Summarize computes a Summary over all files
func (r *Results) Summarize() Summary {
	s := Summary{ByPass: make(map[annotate.Pass]int)}
	for _, fr := range r.Files {
		s.TotalFiles++
		switch fr.Status {
		case StatusFixed:
			s.FixedFiles++
		case StatusUnchanged:
			s.UnchangedFiles++
		case StatusFailed:
			s.FailedFiles++
		}
		for _, sp := range fr.Splices {
			s.Splices++
			s.ByPass[sp.Pass]++
			if sp.Truncated {
				s.Truncated++
			}
		}
	}
	return s
}

// ExitCode returns the appropriate exit code based on the file outcomes
func (s Summary) ExitCode() int {
	if s.FailedFiles > 0 {
		return 1
	}
	return 0
}
