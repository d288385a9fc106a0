// Package bench drives matchers over a text repeatedly and aggregates timing
// and comparison counts into a Report.
//
// Trials run sequentially by default. With more than one worker they run
// through an errgroup, each trial writing only its own slot of the result
// slice, so no counter is shared between trials.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bastiangx/kmpbench/internal/logger"
	"github.com/bastiangx/kmpbench/pkg/corpus"
	"github.com/bastiangx/kmpbench/pkg/search"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoIterations = errors.New("iterations must be at least 1")
	ErrNoMatchers   = errors.New("no matchers configured")
)

// Observer is called with each finished trial, in iteration order.
type Observer func(Trial)

// Harness runs trials of a fixed set of matchers.
type Harness struct {
	matchers   []search.Matcher
	iterations int
	workers    int
	observer   Observer
	log        *log.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithIterations sets the number of trials per run.
func WithIterations(n int) Option {
	return func(h *Harness) { h.iterations = n }
}

// WithWorkers sets how many trials may run at once. 1 runs them in sequence.
func WithWorkers(n int) Option {
	return func(h *Harness) {
		if n > 0 {
			h.workers = n
		}
	}
}

// WithMatchers replaces the default naive + kmp pair.
func WithMatchers(ms ...search.Matcher) Option {
	return func(h *Harness) { h.matchers = ms }
}

// WithObserver registers a callback for finished trials.
func WithObserver(fn Observer) Option {
	return func(h *Harness) { h.observer = fn }
}

// WithLogger overrides the harness logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Harness) { h.log = l }
}

// New creates a harness comparing naive and KMP over one iteration unless options say otherwise.
func New(opts ...Option) *Harness {
	h := &Harness{
		matchers:   []search.Matcher{search.NaiveMatcher{}, search.KmpMatcher{}},
		iterations: 1,
		workers:    1,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.New("bench")
	}
	return h
}

// Iterations returns the configured trial count.
func (h *Harness) Iterations() int {
	return h.iterations
}

// Algorithms returns the matcher names in report order.
func (h *Harness) Algorithms() []string {
	names := make([]string, len(h.matchers))
	for i, m := range h.matchers {
		names[i] = m.Name()
	}
	return names
}

// RunCorpus is Run over a loaded corpus, recording its name in the report.
func (h *Harness) RunCorpus(ctx context.Context, c *corpus.Corpus, pattern string) (*Report, error) {
	report, err := h.Run(ctx, c.Text, []byte(pattern))
	if err != nil {
		return nil, err
	}
	report.Corpus = c.Name
	return report, nil
}

// Run times every matcher once per iteration over text and pattern.
// Cancelling ctx stops before the next trial starts; a single search is never interrupted.
func (h *Harness) Run(ctx context.Context, text, pattern []byte) (*Report, error) {
	if h.iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoIterations, h.iterations)
	}
	if len(h.matchers) == 0 {
		return nil, ErrNoMatchers
	}

	h.log.Debug("Starting run",
		"algorithms", h.Algorithms(),
		"iterations", h.iterations,
		"workers", h.workers,
		"textLen", len(text),
		"patternLen", len(pattern))

	start := time.Now()
	trials := make([]Trial, h.iterations)

	var err error
	if h.workers > 1 {
		err = h.runParallel(ctx, trials, text, pattern)
	} else {
		err = h.runSequential(ctx, trials, text, pattern)
	}
	if err != nil {
		return nil, err
	}

	report := &Report{
		TextLen:    len(text),
		Pattern:    string(pattern),
		Iterations: h.iterations,
		Workers:    h.workers,
		Trials:     trials,
		Summaries:  summarize(h.Algorithms(), trials),
		Elapsed:    time.Since(start),
	}
	if !report.Consistent() {
		h.log.Warn("Matchers disagree on match position", "pattern", report.Pattern)
	}
	h.log.Debugf("Run finished in %v", report.Elapsed)
	return report, nil
}

func (h *Harness) runSequential(ctx context.Context, trials []Trial, text, pattern []byte) error {
	for i := range trials {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run stopped after %d trials: %w", i, err)
		}
		trials[i] = h.runTrial(i+1, text, pattern)
		if h.observer != nil {
			h.observer(trials[i])
		}
	}
	return nil
}

func (h *Harness) runParallel(ctx context.Context, trials []Trial, text, pattern []byte) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)

	for i := range trials {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trials[i] = h.runTrial(i+1, text, pattern)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("parallel run stopped: %w", err)
	}

	if h.observer != nil {
		for _, trial := range trials {
			h.observer(trial)
		}
	}
	return nil
}

// runTrial searches once with every matcher; counters live in each MatchResult.
func (h *Harness) runTrial(iteration int, text, pattern []byte) Trial {
	results := make([]Measurement, len(h.matchers))
	for i, m := range h.matchers {
		start := time.Now()
		res := m.Search(text, pattern)
		elapsed := time.Since(start)

		results[i] = Measurement{
			Algorithm:   m.Name(),
			Position:    res.Position,
			Comparisons: res.Comparisons,
			Elapsed:     elapsed,
		}
	}
	return Trial{Iteration: iteration, Results: results}
}
