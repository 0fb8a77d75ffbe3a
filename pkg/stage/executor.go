package stage

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/packopt/pkg/observability"
	"github.com/matzehuels/packopt/pkg/tree"
)

// Policy controls how the units of one batch are scheduled.
type Policy int

const (
	// Parallel runs units on a bounded worker pool.
	Parallel Policy = iota
	// Sequential runs units one at a time with no overlap.
	Sequential
)

// String returns the policy name.
func (p Policy) String() string {
	if p == Sequential {
		return "sequential"
	}
	return "parallel"
}

// Report is the observation emitted after a batch completes.
type Report struct {
	Stage    string
	Units    int
	Duration time.Duration
}

// UnitFunc processes one entry. Units of a batch must not depend on each other.
type UnitFunc func(ctx context.Context, e tree.Entry) error

// Executor runs batches of units. The zero value is usable.
type Executor struct {
	// Workers bounds the pool for Parallel batches. Zero or less means
	// runtime.GOMAXPROCS(0).
	Workers int
	Logger  *log.Logger
}

// NewExecutor creates an executor with the given pool size and logger.
// A nil logger discards output.
func NewExecutor(workers int, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Executor{Workers: workers, Logger: logger}
}

func (e *Executor) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (e *Executor) logger() *log.Logger {
	if e.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return e.Logger
}

// Run invokes fn once per unit under the given policy and returns after every
// started unit has finished. The first error aborts the batch: units that
// have not started yet are skipped and the error is returned.
func (e *Executor) Run(ctx context.Context, name string, units []tree.Entry, policy Policy, fn UnitFunc) (Report, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name, len(units))
	e.logger().Debug("stage started", "stage", name, "units", len(units), "policy", policy)

	start := time.Now()
	var err error
	if policy == Sequential || e.workers() == 1 {
		err = runSequential(ctx, units, fn)
	} else {
		err = runParallel(ctx, e.workers(), units, fn)
	}

	report := Report{Stage: name, Units: len(units), Duration: time.Since(start)}
	hooks.OnStageComplete(ctx, name, report.Units, report.Duration, err)
	return report, err
}

func runSequential(ctx context.Context, units []tree.Entry, fn UnitFunc) error {
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func runParallel(ctx context.Context, workers int, units []tree.Entry, fn UnitFunc) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, u := range units {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return fn(gctx, u)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// done logs the completion line for a batch, e.g. "Minified 3 json-like files in 12ms".
func (e *Executor) done(r Report, verb, noun string) {
	e.logger().Info(fmt.Sprintf("%s %d %s in %s", verb, r.Units, noun, r.Duration.Round(time.Millisecond)),
		"stage", r.Stage)
}
