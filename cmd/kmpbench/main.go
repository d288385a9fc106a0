// Copyright 2025 The kmpbench Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main compares brute force and Knuth-Morris-Pratt substring search.

Both algorithms search the same corpus for the same pattern, repeatedly,
and kmpbench reports the average time and the average number of character
comparisons each one needed, then which one came out faster.

# Usage

Prompt for a pattern and an iteration count, as many times as you like:

	kmpbench

Run one benchmark and exit:

	kmpbench -corpus word.txt -pattern "lazy dog" -n 50

Compare all three matchers, trials spread over four workers:

	kmpbench -pattern aaab -algo naive,kmp,kmp-cached -parallel -workers 4

Serve msgpack requests on stdin/stdout:

	kmpbench -s

# Corpus

The corpus is a .txt file, a .bin chunk file, or a directory of
corpus_NNNN.bin chunks (see cmd/mkcorpus). Relative paths are tried
against the working directory, the executable directory and the data/
dirs next to the executable and in the config dir. When nothing is found
the built-in sample text is used; -corpus sample selects it directly.

# Configuration

Defaults come from config.toml in the user config dir, created on first
run:

	[bench]
	iterations = 10
	parallel = false
	workers = 4
	algorithms = ["naive", "kmp"]

	[corpus]
	path = "word.txt"
	max_bytes = 0

	[server]
	max_pattern_len = 256
	max_iterations = 1000
	cache_size = 128

	[cli]
	min_pattern_len = 1
	max_pattern_len = 256
	color = true

Flags override the file for a single run. In server mode the file is
watched and edits apply to the requests that follow.

# Command Line Flags

	-corpus string     corpus path (default from config)
	-pattern string    run once for this pattern and exit
	-n int             iterations per run
	-algo string       comma separated matchers: naive, kmp, kmp-cached
	-parallel          run trials concurrently
	-workers int       concurrent trials with -parallel
	-c                 interactive prompt (default mode)
	-s                 msgpack IPC server mode
	-config string     config file path
	-d                 debug logging
	-log-format string text, logfmt or json
	-no-color          plain report output
	-version           show version
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bastiangx/kmpbench/internal/cli"
	"github.com/bastiangx/kmpbench/internal/logger"
	"github.com/bastiangx/kmpbench/internal/utils"
	"github.com/bastiangx/kmpbench/pkg/bench"
	"github.com/bastiangx/kmpbench/pkg/config"
	"github.com/bastiangx/kmpbench/pkg/corpus"
	"github.com/bastiangx/kmpbench/pkg/report"
	"github.com/bastiangx/kmpbench/pkg/search"
	"github.com/bastiangx/kmpbench/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "kmpbench"
	gh      = "https://github.com/bastiangx/kmpbench"
)

// shutdownGrace is how long a canceled run gets to unwind before exit.
const shutdownGrace = 2 * time.Second

// sigHandler cancels the returned context on SIGINT/SIGTERM, then exits once
// a second signal arrives or shutdownGrace passes. Reads blocked on stdin
// are not interruptible, so the exit is forced.
func sigHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		select {
		case <-c:
		case <-time.After(shutdownGrace):
		}
		os.Exit(0)
	}()
	return ctx, cancel
}

// main wires flags, config and corpus to one of the three modes.
func main() {
	ctx, cancel := sigHandler()
	defer cancel()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	corpusPath := flag.String("corpus", "", "Corpus file or chunk dir (default from config, \"sample\" for the built-in text)")
	pattern := flag.String("pattern", "", "Run once for this pattern and exit")
	iterations := flag.Int("n", 0, fmt.Sprintf("Iterations per run (default from config, %d)", defaultConfig.Bench.Iterations))
	algos := flag.String("algo", "", "Comma separated matchers: naive, kmp, kmp-cached")
	parallel := flag.Bool("parallel", false, "Run trials concurrently")
	workers := flag.Int("workers", 0, "Concurrent trials with -parallel")
	cliMode := flag.Bool("c", false, "Interactive prompt")
	serverMode := flag.Bool("s", false, "Serve msgpack requests on stdin/stdout")
	configFile := flag.String("config", "", "Config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	logFormat := flag.String("log-format", "text", "Log format: text, logfmt or json")
	noColor := flag.Bool("no-color", false, "Disable report colors")

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	logger.Setup(*debugMode)
	if *logFormat != "text" {
		log.SetFormatter(logger.ParseFormatter(*logFormat))
	}
	mainLog := logger.NewWithConfig(AppName, log.GetLevel(), *debugMode, *debugMode, logger.ParseFormatter(*logFormat))

	if *serverMode && *cliMode {
		mainLog.Fatal("-s and -c are mutually exclusive")
	}

	cfg, cfgPath, err := config.LoadConfigWithPriority(*configFile)
	if err != nil {
		mainLog.Fatalf("Failed to load config: %v", err)
	}
	mainLog.Debug("Config", "path", config.GetActiveConfigPath(cfgPath))

	applyFlags(cfg, *iterations, *algos, *parallel, *workers, *noColor)
	if _, err := search.LookupAll(cfg.Bench.Algorithms); err != nil {
		mainLog.Fatalf("Invalid -algo: %v", err)
	}

	path := cfg.Corpus.Path
	if *corpusPath != "" {
		path = *corpusPath
	}
	c, err := openCorpus(path, cfg.Corpus.MaxBytes)
	if err != nil {
		mainLog.Fatalf("Failed to load corpus: %v", err)
	}
	mainLog.Debug("Corpus ready", "name", c.Name, "format", c.Format, "bytes", c.Len())

	switch {
	case *serverMode:
		mainLog.Debug("spawning IPC")
		srv := server.NewServer(c, cfg)
		if cfgPath != "" {
			go func() {
				if err := srv.WatchConfig(ctx, cfgPath); err != nil {
					mainLog.Warn("Config reload disabled", "err", err)
				}
			}()
		}
		if err := srv.Start(ctx); err != nil {
			mainLog.Fatalf("Server error: %v", err)
		}

	case *pattern != "" && !*cliMode:
		if err := runOnce(ctx, c, cfg, *pattern); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			mainLog.Fatalf("Benchmark failed: %v", err)
		}

	default:
		handler, err := cli.NewInputHandler(c, cfg, os.Stdin, os.Stdout)
		if err != nil {
			mainLog.Fatalf("CLI setup failed: %v", err)
		}
		if *pattern != "" {
			if err := handler.RunOnce(ctx, *pattern, cfg.Bench.Iterations); err != nil && !errors.Is(err, context.Canceled) {
				mainLog.Errorf("Benchmark failed: %v", err)
			}
		}
		if err := handler.Start(ctx); err != nil {
			mainLog.Fatalf("CLI error: %v", err)
		}
	}
}

// applyFlags lets flags that were given override the loaded config.
func applyFlags(cfg *config.Config, iterations int, algos string, parallel bool, workers int, noColor bool) {
	if iterations > 0 {
		cfg.Bench.Iterations = iterations
	}
	if algos != "" {
		var names []string
		for _, name := range strings.Split(algos, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		cfg.Bench.Algorithms = names
	}
	if parallel {
		cfg.Bench.Parallel = true
	}
	if workers > 0 {
		cfg.Bench.Workers = workers
	}
	if noColor {
		cfg.CLI.Color = false
	}
	cfg.Validate()
}

// openCorpus resolves path and loads it, falling back to the sample text
// when no candidate location holds a corpus.
func openCorpus(path string, maxBytes int) (*corpus.Corpus, error) {
	if path == "" || path == corpus.SampleName {
		return corpus.Sample(), nil
	}

	resolver, err := utils.NewPathResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}
	log.Debug("Runtime", "info", resolver.GetRuntimeInfo())
	resolved, err := resolver.GetCorpusPath(path)
	if errors.Is(err, utils.ErrCorpusNotFound) {
		log.Warnf("Corpus %q not found, using the built-in sample", path)
		return corpus.Sample(), nil
	}
	if err != nil {
		return nil, err
	}
	return corpus.Load(resolved, maxBytes)
}

// runOnce benchmarks a single pattern and writes the full report to stdout.
func runOnce(ctx context.Context, c *corpus.Corpus, cfg *config.Config, pattern string) error {
	if err := utils.ValidatePattern(pattern, 0, cfg.CLI.MaxPatternLen); err != nil {
		return err
	}
	matchers, err := search.LookupAll(cfg.Bench.Algorithms)
	if err != nil {
		return err
	}

	opts := []bench.Option{
		bench.WithIterations(cfg.Bench.Iterations),
		bench.WithMatchers(matchers...),
	}
	if cfg.Bench.Parallel {
		opts = append(opts, bench.WithWorkers(cfg.Bench.Workers))
	}

	rep, err := bench.New(opts...).RunCorpus(ctx, c, pattern)
	if err != nil {
		return err
	}
	return report.Render(os.Stdout, rep, report.Options{Color: cfg.CLI.Color, Trials: true})
}

// printVersion shows the styled version banner.
func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ kmpbench ] Brute force vs Knuth-Morris-Pratt, side by side")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}
