package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/bastiangx/kmpbench/pkg/bench"
	"github.com/bastiangx/kmpbench/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *bench.Report {
	return &bench.Report{
		Corpus:     "word.txt",
		TextLen:    1500,
		Pattern:    "aaab",
		Iterations: 2,
		Trials: []bench.Trial{
			{Iteration: 1, Results: []bench.Measurement{
				{Algorithm: search.AlgoNaive, Position: 16, Comparisons: 68, Elapsed: 400 * time.Nanosecond},
				{Algorithm: search.AlgoKMP, Position: 16, Comparisons: 25, Elapsed: 200 * time.Nanosecond},
			}},
			{Iteration: 2, Results: []bench.Measurement{
				{Algorithm: search.AlgoNaive, Position: 16, Comparisons: 68, Elapsed: 200 * time.Nanosecond},
				{Algorithm: search.AlgoKMP, Position: 16, Comparisons: 25, Elapsed: 100 * time.Nanosecond},
			}},
		},
		Summaries: []bench.Summary{
			{Algorithm: search.AlgoNaive, Position: 16, AvgTime: 300 * time.Nanosecond, MinTime: 200 * time.Nanosecond, MaxTime: 400 * time.Nanosecond, AvgComparisons: 68},
			{Algorithm: search.AlgoKMP, Position: 16, AvgTime: 150 * time.Nanosecond, MinTime: 100 * time.Nanosecond, MaxTime: 200 * time.Nanosecond, AvgComparisons: 25},
		},
	}
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), Options{Trials: true}))
	out := buf.String()

	assert.Contains(t, out, "Iteration 1:")
	assert.Contains(t, out, "Iteration 2:")
	assert.Contains(t, out, `Pattern: "aaab"`)
	assert.Contains(t, out, "Corpus: word.txt (1,500 bytes)")
	assert.Contains(t, out, "Brute Force:")
	assert.Contains(t, out, "Knuth-Morris-Pratt (KMP):")
	assert.Contains(t, out, "Average time: 0.00000030 s")
	assert.Contains(t, out, "Average comparisons: 68")
	assert.Contains(t, out, "Position: offset 16")
	assert.Contains(t, out, "Knuth-Morris-Pratt (KMP) is faster")
	assert.Contains(t, out, "Average time difference: 0.00000015 s")
	assert.Contains(t, out, "Average comparison difference: 43")
}

func TestRenderTieAndNotFound(t *testing.T) {
	r := sampleReport()
	r.Trials = nil
	for i := range r.Summaries {
		r.Summaries[i].Position = search.NotFound
		r.Summaries[i].AvgTime = 100 * time.Nanosecond
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, Options{}))
	out := buf.String()

	assert.Contains(t, out, "Position: not found")
	assert.Contains(t, out, "Both algorithms took about the same time")
	assert.NotContains(t, out, "Iteration 1:")
}

func TestRenderWithColorOnBufferStaysReadable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), Options{Color: true}))
	assert.Contains(t, buf.String(), "Substring Search Analysis")
}

func TestRenderTrial(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTrial(&buf, sampleReport().Trials[0], Options{}))
	assert.Contains(t, buf.String(), "Iteration 1:")
	assert.Contains(t, buf.String(), "comparisons 68")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Brute Force", DisplayName(search.AlgoNaive))
	assert.Equal(t, "custom", DisplayName("custom"))
}
