package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"drive-inventory/internal/filter"
	"drive-inventory/internal/sinks"
	"drive-inventory/internal/walker"
	"drive-inventory/pkg/interfaces"
	"drive-inventory/pkg/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Job is one root folder scanned into one report.
type Job struct {
	Name        string
	RootID      string
	RootLabel   string // empty = the root folder's own name
	Output      string
	Format      string // empty = inferred from Output
	Predicate   filter.Predicate
	Separator   string
	IncludeSize bool
	SheetName   string
}

// Result records the outcome of a single job.
type Result struct {
	RunID   string
	Job     Job
	Summary *walker.Summary
	Err     error
}

// Incomplete reports whether the report was written with subtrees missing.
func (r Result) Incomplete() bool {
	return r.Err == nil && r.Summary != nil && r.Summary.Incomplete()
}

// SinkFactory opens the report sink for a job.
type SinkFactory func(format, path string, opts sinks.Options) (interfaces.Sink, error)

// Runner walks folder trees into report sinks.
type Runner struct {
	lister  interfaces.Lister
	newSink SinkFactory
	retry   walker.RetryPolicy
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

func WithSinkFactory(f SinkFactory) Option {
	return func(r *Runner) { r.newSink = f }
}

func WithRetryPolicy(p walker.RetryPolicy) Option {
	return func(r *Runner) { r.retry = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner listing through lister.
func NewRunner(lister interfaces.Lister, opts ...Option) *Runner {
	r := &Runner{
		lister:  lister,
		newSink: sinks.New,
		retry:   walker.DefaultRetryPolicy(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes job. A walk that skipped subtrees still finalizes its report;
// credential, emit and sink failures abort it and are returned in Err.
func (r *Runner) Run(ctx context.Context, job Job) Result {
	result := Result{RunID: uuid.NewString(), Job: job}
	logger := r.logger.With("scan", job.Name, "run_id", result.RunID)

	label, err := r.rootLabel(ctx, job)
	if err != nil {
		result.Err = err

		return result
	}

	sink, err := r.newSink(job.Format, job.Output, sinks.Options{
		IncludeSize: job.IncludeSize,
		SheetName:   job.SheetName,
		RunID:       result.RunID,
		RootID:      job.RootID,
		RootLabel:   label,
	})
	if err != nil {
		result.Err = fmt.Errorf("failed to open report %s: %w", job.Output, err)

		return result
	}

	w := walker.New(r.lister,
		walker.WithPredicate(job.Predicate),
		walker.WithSeparator(job.Separator),
		walker.WithRetryPolicy(r.retry),
		walker.WithLogger(logger),
	)

	logger.Info("Starting scan", "root_id", job.RootID, "root", label, "output", job.Output, "sink", sink.Name())

	summary, err := w.Walk(ctx, models.NewFolderRef(job.RootID, label), func(rec models.FileRecord) error {
		return sink.Append(ctx, rec)
	})
	result.Summary = summary

	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			logger.Warn("Failed to abort report", "error", abortErr)
		}

		result.Err = fmt.Errorf("scan %s aborted: %w", job.Name, err)

		return result
	}

	if rec, ok := sink.(sinks.SkipRecorder); ok {
		rec.RecordSkipped(len(summary.Skipped))
	}

	if err := sink.Finalize(ctx); err != nil {
		result.Err = err

		return result
	}

	logger.Info("Scan finished", "records", summary.Records, "folders", summary.Folders,
		"pages", summary.Pages, "skipped", len(summary.Skipped))

	return result
}

func (r *Runner) rootLabel(ctx context.Context, job Job) (string, error) {
	var md *models.Metadata

	err := r.retry.Do(ctx, r.logger, "metadata "+job.RootID, func() error {
		var err error
		md, err = r.lister.GetMetadata(ctx, job.RootID)

		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve root folder %s: %w", job.RootID, err)
	}

	if md.MimeType != "" && md.MimeType != models.MimeTypeFolder {
		return "", fmt.Errorf("root %s (%s) is not a folder", job.RootID, md.Name)
	}

	if job.RootLabel != "" {
		return job.RootLabel, nil
	}

	return md.Name, nil
}

// RunAll runs independent jobs concurrently. Results are in job order; the
// returned error joins every failed job's error.
func (r *Runner) RunAll(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		g.Go(func() error {
			results[i] = r.Run(gCtx, job)

			return nil
		})
	}

	// goroutines always return nil
	_ = g.Wait()

	var errs []error

	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}

	return results, errors.Join(errs...)
}
