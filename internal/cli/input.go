// Package cli runs the interactive prompt: read a pattern and an iteration
// count, benchmark every configured matcher over the corpus and print the report.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/kmpbench/internal/logger"
	"github.com/bastiangx/kmpbench/internal/utils"
	"github.com/bastiangx/kmpbench/pkg/bench"
	"github.com/bastiangx/kmpbench/pkg/config"
	"github.com/bastiangx/kmpbench/pkg/corpus"
	"github.com/bastiangx/kmpbench/pkg/report"
	"github.com/bastiangx/kmpbench/pkg/search"
	"github.com/charmbracelet/log"
)

// suggestLimit caps the corpus words offered when a pattern is not found.
const suggestLimit = 5

// InputHandler reads patterns from a terminal and reports benchmark runs.
type InputHandler struct {
	corpus       *corpus.Corpus
	matchers     []search.Matcher
	bench        config.BenchConfig
	minLen       int
	maxLen       int
	term         *terminal
	opts         report.Options
	log          *log.Logger
	requestCount int
}

// NewInputHandler builds a handler for cfg's matchers over c.
func NewInputHandler(c *corpus.Corpus, cfg *config.Config, in io.Reader, out io.Writer) (*InputHandler, error) {
	matchers, err := search.LookupAll(cfg.Bench.Algorithms)
	if err != nil {
		return nil, err
	}
	return &InputHandler{
		corpus:   c,
		matchers: matchers,
		bench:    cfg.Bench,
		minLen:   cfg.CLI.MinPatternLen,
		maxLen:   cfg.CLI.MaxPatternLen,
		term:     newTerminal(in, out),
		opts:     report.Options{Color: cfg.CLI.Color},
		log:      logger.New("cli"),
	}, nil
}

// Start loops over prompts until quit, EOF or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	h.term.println(fmt.Sprintf("Searching %s (%s bytes). Type quit to exit.",
		h.corpus.Name, utils.FormatWithCommas(h.corpus.Len())))

	for ctx.Err() == nil {
		pattern, err := h.term.prompt("Enter the pattern to search for: ")
		if err != nil {
			return endOfInput(err)
		}
		if utils.IsQuitCommand(pattern) {
			return nil
		}
		if err := utils.ValidatePattern(pattern, h.minLen, h.maxLen); err != nil {
			h.log.Error("Rejected pattern", "err", err)
			continue
		}

		line, err := h.term.prompt("Enter the number of iterations: ")
		if err != nil {
			return endOfInput(err)
		}
		if utils.IsQuitCommand(line) {
			return nil
		}
		n, err := utils.ParseIterations(line, 0)
		if err != nil {
			h.log.Error("Rejected iteration count", "err", err)
			continue
		}

		if err := h.RunOnce(ctx, pattern, n); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
	return nil
}

// RunOnce benchmarks pattern for n iterations and prints the report.
func (h *InputHandler) RunOnce(ctx context.Context, pattern string, n int) error {
	h.requestCount++
	log.Debug("Processing run", "request", h.requestCount, "pattern", pattern, "iterations", n)

	opts := []bench.Option{
		bench.WithIterations(n),
		bench.WithMatchers(h.matchers...),
		bench.WithLogger(h.log),
		bench.WithObserver(func(t bench.Trial) {
			if err := report.RenderTrial(h.term.out, t, h.opts); err != nil {
				h.log.Warn("Writing trial", "err", err)
			}
		}),
	}
	if h.bench.Parallel {
		opts = append(opts, bench.WithWorkers(h.bench.Workers))
	}

	rep, err := bench.New(opts...).RunCorpus(ctx, h.corpus, pattern)
	if err != nil {
		return err
	}
	h.term.println("")
	if err := report.Render(h.term.out, rep, h.opts); err != nil {
		return err
	}

	if len(rep.Summaries) > 0 && rep.Summaries[0].Position == search.NotFound {
		h.term.suggest(h.closestWords(pattern))
	}
	h.term.println("")
	return nil
}

// closestWords returns corpus words sharing the longest prefix with a pattern
// that was not found.
func (h *InputHandler) closestWords(pattern string) []corpus.WordCount {
	for end := len(pattern) - 1; end > 0; end-- {
		if words := h.corpus.WordsWithPrefix(pattern[:end], suggestLimit); len(words) > 0 {
			return words
		}
	}
	return nil
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
