package bench

import (
	"time"
)

// Measurement is one matcher's outcome within a trial.
type Measurement struct {
	Algorithm   string
	Position    int
	Comparisons int
	Elapsed     time.Duration
}

// Trial holds the measurements of every matcher for one iteration.
// Results follow the harness's matcher order.
type Trial struct {
	Iteration int
	Results   []Measurement
}

// Summary aggregates one matcher over all trials.
type Summary struct {
	Algorithm      string
	Position       int
	TotalTime      time.Duration
	AvgTime        time.Duration
	MinTime        time.Duration
	MaxTime        time.Duration
	AvgComparisons float64
	MinComparisons int
	MaxComparisons int
}

// Report is everything a Run produced. It is built and returned per run;
// nothing is accumulated outside it.
type Report struct {
	Corpus     string
	TextLen    int
	Pattern    string
	Iterations int
	Workers    int
	Trials     []Trial
	Summaries  []Summary
	Elapsed    time.Duration
}

// Summary returns the summary for algorithm.
func (r *Report) Summary(algorithm string) (Summary, bool) {
	for _, s := range r.Summaries {
		if s.Algorithm == algorithm {
			return s, true
		}
	}
	return Summary{}, false
}

// Faster returns the algorithm with the lowest average time.
// ok is false when fewer than two algorithms ran or the best average is shared.
func (r *Report) Faster() (algorithm string, ok bool) {
	if len(r.Summaries) < 2 {
		return "", false
	}
	best := r.Summaries[0]
	tie := false
	for _, s := range r.Summaries[1:] {
		switch {
		case s.AvgTime < best.AvgTime:
			best, tie = s, false
		case s.AvgTime == best.AvgTime:
			tie = true
		}
	}
	if tie {
		return "", false
	}
	return best.Algorithm, true
}

// TimeDelta is the absolute difference in average time between the first two algorithms.
func (r *Report) TimeDelta() time.Duration {
	if len(r.Summaries) < 2 {
		return 0
	}
	d := r.Summaries[0].AvgTime - r.Summaries[1].AvgTime
	if d < 0 {
		d = -d
	}
	return d
}

// ComparisonDelta is the absolute difference in average comparisons between the first two algorithms.
func (r *Report) ComparisonDelta() float64 {
	if len(r.Summaries) < 2 {
		return 0
	}
	d := r.Summaries[0].AvgComparisons - r.Summaries[1].AvgComparisons
	if d < 0 {
		d = -d
	}
	return d
}

// Consistent reports whether every matcher found the same position in every trial.
func (r *Report) Consistent() bool {
	want := 0
	seen := false
	for _, trial := range r.Trials {
		for _, m := range trial.Results {
			if !seen {
				want, seen = m.Position, true
				continue
			}
			if m.Position != want {
				return false
			}
		}
	}
	return true
}

func summarize(names []string, trials []Trial) []Summary {
	summaries := make([]Summary, len(names))
	for i, name := range names {
		s := Summary{Algorithm: name}
		totalComparisons := 0
		for t, trial := range trials {
			m := trial.Results[i]
			s.TotalTime += m.Elapsed
			totalComparisons += m.Comparisons
			if t == 0 {
				s.Position = m.Position
				s.MinTime, s.MaxTime = m.Elapsed, m.Elapsed
				s.MinComparisons, s.MaxComparisons = m.Comparisons, m.Comparisons
				continue
			}
			s.MinTime = min(s.MinTime, m.Elapsed)
			s.MaxTime = max(s.MaxTime, m.Elapsed)
			s.MinComparisons = min(s.MinComparisons, m.Comparisons)
			s.MaxComparisons = max(s.MaxComparisons, m.Comparisons)
		}
		if n := len(trials); n > 0 {
			s.AvgTime = s.TotalTime / time.Duration(n)
			s.AvgComparisons = float64(totalComparisons) / float64(n)
		}
		summaries[i] = s
	}
	return summaries
}
