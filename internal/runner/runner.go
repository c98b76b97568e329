package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/discovery"
	"github.com/cybertec-postgresql/erdfix/internal/errors"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// Options controls how a Runner processes files
type Options struct {
	Parallelism int    // Max concurrent files (1 = sequential)
	CheckOnly   bool   // Annotate in memory only, never write
	OutputDir   string // Write results under this directory instead of in place
	Logger      *zap.Logger
}

// Runner applies an annotator to many files
type Runner struct {
	annotator *annotate.Annotator
	opts      Options
	logger    *zap.Logger
}

// New creates a runner; a nil logger disables logging
func New(annotator *annotate.Annotator, opts Options) *Runner {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		annotator: annotator,
		opts:      opts,
		logger:    logger,
	}
}

// Run processes files with at most Parallelism files in flight. A failing
// file is recorded and does not stop the others. Runs are returned in the
// order of files.
func (r *Runner) Run(ctx context.Context, files []discovery.DiscoveredFile) ([]*FileRun, error) {
	runs := make([]*FileRun, len(files))
	if len(files) == 0 {
		return runs, nil
	}

	r.logger.Debug("processing files",
		zap.Int("files", len(files)),
		zap.Int("workers", r.opts.Parallelism),
		zap.Bool("check_only", r.opts.CheckOnly))

	clashes := r.targetClashes(files)

	var g errgroup.Group
	g.SetLimit(r.opts.Parallelism)

	for i := range files {
		if other, ok := clashes[i]; ok {
			runs[i] = r.reject(&files[i], fmt.Errorf("output %s is also the target of %s",
				r.target(&files[i]), other))
			continue
		}
		g.Go(func() error {
			runs[i] = r.Process(ctx, &files[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return runs, err
	}
	return runs, ctx.Err()
}

// Process annotates a single file and writes the outcome
func (r *Runner) Process(ctx context.Context, file *discovery.DiscoveredFile) *FileRun {
	run := &FileRun{
		File:      file,
		StartTime: time.Now(),
	}
	defer func() {
		run.EndTime = time.Now()
		r.log(run)
	}()

	fail := func(err error) *FileRun {
		run.Status = results.StatusFailed
		run.Error = errors.NewFileError(file.RelativePath, err)
		run.Result = nil
		return run
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	info, err := os.Stat(file.Path)
	if err != nil {
		return fail(err)
	}

	source, err := os.ReadFile(file.Path)
	if err != nil {
		return fail(fmt.Errorf("failed to read file: %w", err))
	}

	res, err := r.annotator.Fix(string(source))
	if err != nil {
		return fail(err)
	}
	run.Result = res

	run.Status = results.StatusUnchanged
	if res.Changed() {
		run.Status = results.StatusFixed
	}

	if r.opts.CheckOnly {
		return run
	}

	if r.opts.OutputDir == "" && !res.Changed() {
		return run
	}
	target := r.target(file)

	if err := writeFile(target, []byte(res.Text), info.Mode().Perm()); err != nil {
		return fail(err)
	}
	run.Output = target

	return run
}

// target returns the path the fixed text of file is written to
func (r *Runner) target(file *discovery.DiscoveredFile) string {
	if r.opts.OutputDir == "" {
		return file.Path
	}
	return filepath.Join(r.opts.OutputDir, file.RelativePath)
}

// targetClashes maps the index of every file whose output path is already
// claimed by another file to the path of that other file. All files sharing
// a target are rejected.
func (r *Runner) targetClashes(files []discovery.DiscoveredFile) map[int]string {
	clashes := make(map[int]string)
	if r.opts.CheckOnly || r.opts.OutputDir == "" {
		return clashes
	}

	first := make(map[string]int)
	for i := range files {
		t := r.target(&files[i])
		j, ok := first[t]
		if !ok {
			first[t] = i
			continue
		}
		clashes[i] = files[j].Path
		clashes[j] = files[i].Path
	}
	return clashes
}

// reject records file as failed without reading it
func (r *Runner) reject(file *discovery.DiscoveredFile, err error) *FileRun {
	now := time.Now()
	run := &FileRun{
		File:      file,
		StartTime: now,
		EndTime:   now,
		Status:    results.StatusFailed,
		Error:     errors.NewFileError(file.RelativePath, err),
	}
	r.log(run)
	return run
}

func (r *Runner) log(run *FileRun) {
	fields := []zap.Field{
		zap.String("file", run.File.RelativePath),
		zap.String("status", string(run.Status)),
		zap.Duration("duration", run.Duration()),
	}
	if run.Result != nil {
		fields = append(fields, zap.Int("splices", len(run.Result.Splices)))
	}
	if run.Error != nil {
		r.logger.Error("file failed", append(fields, zap.Error(run.Error))...)
		return
	}
	r.logger.Debug("file processed", fields...)
}

// writeFile replaces path through a temporary file in the same directory
func writeFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".erdfix-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
