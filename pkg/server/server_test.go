package server

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/kmpbench/pkg/config"
	"github.com/bastiangx/kmpbench/pkg/corpus"
	"github.com/bastiangx/kmpbench/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Bench.Iterations = 3
	cfg.Server.MaxPatternLen = 16
	cfg.Server.MaxIterations = 50
	return cfg
}

// roundTrip encodes reqs, runs the server to EOF and returns a decoder over its output.
func roundTrip(t *testing.T, cfg *config.Config, reqs ...Request) *msgpack.Decoder {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	text := []byte(strings.Repeat("a", 19) + "b")
	s := NewServerWithIO(corpus.New("test", text), cfg, &in, &out)
	require.NoError(t, s.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec
}

func TestSearchRequests(t *testing.T) {
	tests := []struct {
		name    string
		algo    string
		pattern string
		text    *string
		wantPos int
		wantCmp int
	}{
		{"kmp default", "", "aaab", nil, 16, 25},
		{"naive", "naive", "aaab", nil, 16, 68},
		{"cached", "kmp-cached", "aaab", nil, 16, 25},
		{"inline text", "kmp", "ABABCABAB", ptr("ABABDABACDABABCABAB"), 10, 30},
		{"not found", "naive", "xyz", ptr("hello world"), search.NotFound, 9},
		{"empty pattern", "kmp", "", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := roundTrip(t, testConfig(), Request{
				ID: "req_1", Action: ActionSearch, Pattern: tt.pattern, Algorithm: tt.algo, Text: tt.text,
			})
			var resp SearchResponse
			require.NoError(t, dec.Decode(&resp))
			assert.Equal(t, "req_1", resp.ID)
			assert.Equal(t, tt.wantPos, resp.Position)
			assert.Equal(t, tt.wantCmp, resp.Comparisons)
		})
	}
}

func TestBenchRequest(t *testing.T) {
	dec := roundTrip(t, testConfig(), Request{
		ID: "b1", Action: ActionBench, Pattern: "aaab", Iterations: 4,
		Algorithms: []string{"naive", "kmp"},
	})
	var resp BenchResponse
	require.NoError(t, dec.Decode(&resp))

	assert.Equal(t, "b1", resp.ID)
	assert.Equal(t, 4, resp.Iterations)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, search.AlgoNaive, resp.Results[0].Algorithm)
	assert.Equal(t, 68.0, resp.Results[0].AvgComparisons)
	assert.Equal(t, 25.0, resp.Results[1].AvgComparisons)
	assert.Equal(t, 16, resp.Results[1].Position)
	assert.Equal(t, 43.0, resp.ComparisonDelta)
}

func TestBenchUsesConfiguredDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.Bench.Parallel = true
	cfg.Bench.Workers = 2
	dec := roundTrip(t, cfg, Request{ID: "b2", Action: ActionBench, Pattern: "ab"})

	var resp BenchResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 3, resp.Iterations)
	assert.Len(t, resp.Results, len(cfg.Bench.Algorithms))
}

func TestRejectedRequests(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"pattern too long", Request{ID: "e", Action: ActionSearch, Pattern: strings.Repeat("x", 17)}},
		{"unknown algorithm", Request{ID: "e", Action: ActionSearch, Pattern: "a", Algorithm: "boyer-moore"}},
		{"too many iterations", Request{ID: "e", Action: ActionBench, Pattern: "a", Iterations: 51}},
		{"negative iterations", Request{ID: "e", Action: ActionBench, Pattern: "a", Iterations: -1}},
		{"unknown bench algorithm", Request{ID: "e", Action: ActionBench, Pattern: "a", Algorithms: []string{"nope"}}},
		{"unknown action", Request{ID: "e", Action: "complete", Pattern: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := roundTrip(t, testConfig(), tt.req)
			var resp ErrorResponse
			require.NoError(t, dec.Decode(&resp))
			assert.Equal(t, "e", resp.ID)
			assert.Equal(t, 400, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestInfoAndHealth(t *testing.T) {
	dec := roundTrip(t, testConfig(),
		Request{ID: "h", Action: ActionHealth},
		Request{ID: "s", Action: ActionSearch, Pattern: "aaab", Algorithm: "kmp-cached"},
		Request{ID: "i", Action: ActionInfo},
	)

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "h", health.ID)
	assert.Equal(t, "ok", health.Status)

	var sr SearchResponse
	require.NoError(t, dec.Decode(&sr))

	var info InfoResponse
	require.NoError(t, dec.Decode(&info))
	assert.Equal(t, "test", info.Corpus)
	assert.Equal(t, 20, info.CorpusBytes)
	assert.Equal(t, 1, info.Words)
	assert.Equal(t, 16, info.MaxPatternLen)
	assert.Contains(t, info.Algorithms, search.AlgoKMPCached)
	assert.Equal(t, 1, info.Cache["cachedTables"])
	assert.Equal(t, 1, info.Cache["cacheMisses"])
}

func TestStartStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewServerWithIO(corpus.New("test", nil), testConfig(), strings.NewReader(""), &out)
	require.NoError(t, s.Start(ctx))

	var ready StatusResponse
	require.NoError(t, msgpack.NewDecoder(&out).Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
}

func ptr(s string) *string { return &s }

func TestWatchConfigReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, config.SaveConfig(testConfig(), path))

	s := NewServerWithIO(corpus.New("test", nil), testConfig(), strings.NewReader(""), io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.WatchConfig(ctx, path) }()

	updated := testConfig()
	updated.Server.MaxPatternLen = 99
	assert.Eventually(t, func() bool {
		// rewrite until the watcher is registered and picks it up
		if err := config.SaveConfig(updated, path); err != nil {
			return false
		}
		return s.Config().Server.MaxPatternLen == 99
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
