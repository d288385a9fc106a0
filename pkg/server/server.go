package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bastiangx/kmpbench/internal/logger"
	"github.com/bastiangx/kmpbench/internal/utils"
	"github.com/bastiangx/kmpbench/pkg/bench"
	"github.com/bastiangx/kmpbench/pkg/config"
	"github.com/bastiangx/kmpbench/pkg/corpus"
	"github.com/bastiangx/kmpbench/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// cacheLogInterval is how many requests pass between cache stat logs.
const cacheLogInterval = 100

// Server handles msgpack IPC over a reader/writer pair
type Server struct {
	corpus       *corpus.Corpus
	config       atomic.Pointer[config.Config]
	cached       *search.CachedKmpMatcher
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	log          *log.Logger
	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC
func NewServer(c *corpus.Corpus, cfg *config.Config) *Server {
	return NewServerWithIO(c, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over explicit streams.
func NewServerWithIO(c *corpus.Corpus, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	s := &Server{
		corpus:  c,
		cached:  search.NewCachedKmpMatcher(cfg.Server.CacheSize),
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		log:     logger.New("ipc"),
	}
	s.config.Store(cfg)
	return s
}

// Config returns the config requests are currently validated against.
func (s *Server) Config() *config.Config {
	return s.config.Load()
}

// SetConfig swaps the active config. The prefix table cache keeps its size.
func (s *Server) SetConfig(cfg *config.Config) {
	s.config.Store(cfg)
}

// Start sends the ready status and serves requests until EOF or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server", "corpus", s.corpus.Name, "bytes", s.corpus.Len())
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Client disconnected (EOF)")
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("decode request: %w", err)
		}
		s.handleRequest(ctx, req)
	}
}

// handleRequest dispatches on the request action
func (s *Server) handleRequest(ctx context.Context, req Request) {
	s.requestCount++
	if s.requestCount%cacheLogInterval == 0 {
		s.log.Debug("Prefix table cache", "stats", s.cached.Stats())
	}

	switch req.Action {
	case ActionSearch:
		s.handleSearch(req)
	case ActionBench:
		s.handleBench(ctx, req)
	case ActionInfo:
		s.handleInfo(req)
	case ActionHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), 400)
	}
}

func (s *Server) handleSearch(req Request) {
	if err := s.validatePattern(req.Pattern); err != nil {
		s.sendError(req.ID, err.Error(), 400)
		return
	}
	name := req.Algorithm
	if name == "" {
		name = search.AlgoKMP
	}
	m, err := s.matcher(name)
	if err != nil {
		s.sendError(req.ID, err.Error(), 400)
		return
	}

	text := s.text(req)
	start := time.Now()
	res := m.Search(text, []byte(req.Pattern))
	elapsed := time.Since(start)

	s.log.Debug("search", "id", req.ID, "algorithm", name, "pos", res.Position, "comparisons", res.Comparisons)
	s.send(SearchResponse{
		ID:          req.ID,
		Algorithm:   m.Name(),
		Position:    res.Position,
		Comparisons: res.Comparisons,
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleBench(ctx context.Context, req Request) {
	cfg := s.Config()
	if err := s.validatePattern(req.Pattern); err != nil {
		s.sendError(req.ID, err.Error(), 400)
		return
	}

	iterations := req.Iterations
	if iterations == 0 {
		iterations = cfg.Bench.Iterations
	}
	if iterations < 0 || iterations > cfg.Server.MaxIterations {
		s.sendError(req.ID, fmt.Sprintf("iterations must be between 1 and %d", cfg.Server.MaxIterations), 400)
		return
	}

	names := req.Algorithms
	if len(names) == 0 {
		names = cfg.Bench.Algorithms
	}
	matchers := make([]search.Matcher, 0, len(names))
	for _, name := range names {
		m, err := s.matcher(name)
		if err != nil {
			s.sendError(req.ID, err.Error(), 400)
			return
		}
		matchers = append(matchers, m)
	}

	opts := []bench.Option{
		bench.WithIterations(iterations),
		bench.WithMatchers(matchers...),
		bench.WithLogger(s.log),
	}
	if cfg.Bench.Parallel {
		opts = append(opts, bench.WithWorkers(cfg.Bench.Workers))
	}

	report, err := bench.New(opts...).Run(ctx, s.text(req), []byte(req.Pattern))
	if err != nil {
		s.sendError(req.ID, err.Error(), 500)
		return
	}

	resp := BenchResponse{
		ID:              req.ID,
		Pattern:         report.Pattern,
		Iterations:      report.Iterations,
		Results:         make([]AlgorithmStats, len(report.Summaries)),
		ComparisonDelta: report.ComparisonDelta(),
		TimeTaken:       report.Elapsed.Microseconds(),
	}
	for i, sum := range report.Summaries {
		resp.Results[i] = AlgorithmStats{
			Algorithm:      sum.Algorithm,
			Position:       sum.Position,
			AvgTime:        sum.AvgTime.Nanoseconds(),
			MinTime:        sum.MinTime.Nanoseconds(),
			MaxTime:        sum.MaxTime.Nanoseconds(),
			AvgComparisons: sum.AvgComparisons,
		}
	}
	if faster, ok := report.Faster(); ok {
		resp.Faster = faster
	}
	s.send(resp)
}

func (s *Server) handleInfo(req Request) {
	cfg := s.Config()
	s.send(InfoResponse{
		ID:            req.ID,
		Status:        "ok",
		Corpus:        s.corpus.Name,
		CorpusBytes:   s.corpus.Len(),
		Words:         s.corpus.Words(),
		Algorithms:    []string{search.AlgoNaive, search.AlgoKMP, search.AlgoKMPCached},
		MaxPatternLen: cfg.Server.MaxPatternLen,
		MaxIterations: cfg.Server.MaxIterations,
		Cache:         s.cached.Stats(),
	})
}

// matcher resolves a name; kmp-cached shares one cache across requests.
func (s *Server) matcher(name string) (search.Matcher, error) {
	if strings.EqualFold(strings.TrimSpace(name), search.AlgoKMPCached) {
		return s.cached, nil
	}
	return search.Lookup(name)
}

func (s *Server) validatePattern(pattern string) error {
	return utils.ValidatePattern(pattern, 0, s.Config().Server.MaxPatternLen)
}

func (s *Server) text(req Request) []byte {
	if req.Text != nil {
		return []byte(*req.Text)
	}
	return s.corpus.Text
}

// send encodes one response and flushes it
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return err
	}
	if err := s.writer.Flush(); err != nil {
		s.log.Errorf("Flushing response: %v", err)
		return err
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
