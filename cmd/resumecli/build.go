package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-resumecli"
	"github.com/alnah/go-resumecli/internal/fileutil"
)

// ErrErrorPage is returned with --strict when an artifact is an error page.
var ErrErrorPage = errors.New("error page written")

// dirPermissions is used for the batch output directory.
const dirPermissions = 0o750

// buildJob is one source and its destination.
type buildJob struct {
	Source string
	Output string
}

// buildOutcome holds the result of a single build.
type buildOutcome struct {
	Source   string
	Output   string
	Failure  error // set when an error page was written
	Err      error // set when nothing was written
	Duration time.Duration
}

// buildSummary tallies a batch.
type buildSummary struct {
	Succeeded  int
	ErrorPages int
	Failed     int
}

// runBuild renders each source to its artifact. Several sources build in
// parallel through a renderer pool, each into the output directory.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(&flags.common, &flags.render, &flags.page, &flags.footer)
	if err != nil {
		return err
	}

	sources, err := resolveSources(positional, cfg)
	if err != nil {
		return err
	}
	tmpl, err := resumecli.ParseTemplate(cfg.Template)
	if err != nil {
		return err
	}
	workers, err := resolveWorkers(flags.workers, cfg)
	if err != nil {
		return err
	}

	jobs, err := planBuild(sources, flags.output, cfg.Output, flags.htmlOnly)
	if err != nil {
		return err
	}

	size := resumecli.ResolvePoolSize(workers)
	if size > len(jobs) {
		size = len(jobs)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", size)
	}

	pool := resumecli.NewRendererPool(size, rendererOptions(cfg)...)
	defer func() { _ = pool.Close() }()

	outcomes, err := buildBatch(ctx, pool, jobs, tmpl, flags.htmlOnly)
	if err != nil {
		return err
	}

	summary := printOutcomes(outcomes, flags.common.quiet, flags.common.verbose, env)
	return summarizeErr(outcomes, summary, flags.strict)
}

// planBuild maps sources to destinations. One source writes to output
// (flag, then config); several write <name>.pdf into the output directory.
func planBuild(sources []string, flagOutput, cfgOutput string, htmlOnly bool) ([]buildJob, error) {
	if len(sources) == 1 {
		out := flagOutput
		if out == "" {
			out = cfgOutput
			if htmlOnly {
				out = fileutil.ReplaceExt(out, ".html")
			}
		}
		return []buildJob{{Source: sources[0], Output: out}}, nil
	}

	dir := flagOutput
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", resumecli.ErrWriteOutput, dir, err)
	}

	jobs := make([]buildJob, 0, len(sources))
	seen := make(map[string]string, len(sources))
	for _, src := range sources {
		out := buildOutputPath(src, dir, htmlOnly)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrInvalidFlags, prev, src, out)
		}
		seen[out] = src
		jobs = append(jobs, buildJob{Source: src, Output: out})
	}
	return jobs, nil
}

// buildBatch runs jobs with at most pool.Size() in flight. A failing job
// does not stop the others; only cancellation aborts the batch.
func buildBatch(ctx context.Context, pool *resumecli.RendererPool, jobs []buildJob, tmpl resumecli.Template, htmlOnly bool) ([]buildOutcome, error) {
	outcomes := make([]buildOutcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pool.Size())

	for i, job := range jobs {
		g.Go(func() error {
			r, err := pool.Acquire(gctx)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				outcomes[i] = buildOutcome{Source: job.Source, Output: job.Output, Err: err}
				return nil
			}
			defer pool.Release(r)

			outcomes[i] = buildOne(gctx, r, job, tmpl, htmlOnly)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// buildOne builds a single job.
func buildOne(ctx context.Context, r *resumecli.Renderer, job buildJob, tmpl resumecli.Template, htmlOnly bool) buildOutcome {
	start := time.Now()
	res, err := r.Build(ctx, resumecli.BuildInput{
		Source:   job.Source,
		Output:   job.Output,
		Template: tmpl,
		HTMLOnly: htmlOnly,
	})

	outcome := buildOutcome{Source: job.Source, Output: job.Output, Err: err, Duration: time.Since(start)}
	if res != nil {
		outcome.Failure = res.Failure
	}
	return outcome
}

// countOutcomes tallies a batch.
func countOutcomes(outcomes []buildOutcome) buildSummary {
	var s buildSummary
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			s.Failed++
		case o.Failure != nil:
			s.ErrorPages++
		default:
			s.Succeeded++
		}
	}
	return s
}

// printOutcomes reports each build and, for batches, a summary line.
func printOutcomes(outcomes []buildOutcome, quiet, verbose bool, env *Environment) buildSummary {
	summary := countOutcomes(outcomes)

	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", o.Source, o.Err)
			continue
		case o.Failure != nil:
			fmt.Fprintf(env.Stderr, "ERROR PAGE %s -> %s: %v\n", o.Source, o.Output, o.Failure)
			continue
		}

		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", o.Source, o.Output, o.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", o.Output)
		}
	}

	if !quiet && len(outcomes) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d error pages, %d failed\n",
			summary.Succeeded, summary.ErrorPages, summary.Failed)
	}
	return summary
}

// summarizeErr returns the error that decides the exit code: the first
// hard failure, then, with strict, the first error page.
func summarizeErr(outcomes []buildOutcome, summary buildSummary, strict bool) error {
	if summary.Failed > 0 {
		for _, o := range outcomes {
			if o.Err != nil {
				return fmt.Errorf("%d of %d builds failed: %w", summary.Failed, len(outcomes), o.Err)
			}
		}
	}
	if strict && summary.ErrorPages > 0 {
		return fmt.Errorf("%w: %d of %d artifacts", ErrErrorPage, summary.ErrorPages, len(outcomes))
	}
	return nil
}
