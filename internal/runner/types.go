package runner

import (
	"time"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/discovery"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// FileRun represents the processing of a single DDL file
type FileRun struct {
	File      *discovery.DiscoveredFile
	StartTime time.Time
	EndTime   time.Time
	Status    results.FileStatus
	Output    string           // Path written to; empty in check mode or when nothing was written
	Result    *annotate.Result // Nil if the file failed
	Error     error            // Non-nil if the file failed
}

// Duration returns the processing duration
func (fr *FileRun) Duration() time.Duration {
	if fr.EndTime.IsZero() {
		return time.Since(fr.StartTime)
	}
	return fr.EndTime.Sub(fr.StartTime)
}

// Collect converts file runs into persisted results keyed by file path
func Collect(runs []*FileRun, checkOnly bool) *results.Results {
	res := results.New()
	res.CheckOnly = checkOnly
	for _, run := range runs {
		if run == nil {
			continue
		}
		fr := results.FileResult{
			Status: run.Status,
			Output: run.Output,
		}
		if run.Error != nil {
			fr.Error = run.Error.Error()
		}
		if run.Result != nil {
			fr.Splices = run.Result.Splices
		}
		res.Add(run.File.Path, fr)
	}
	return res
}
