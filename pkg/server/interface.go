/*
Package server implements msgpack IPC for substring search and benchmarks.

Clients write msgpack encoded requests to stdin and read msgpack encoded
responses from stdout, one response per request, in order. The first
value written by the server is a ready status.

Every request carries an id and an action:

	{"id": "req_001", "action": "search", "p": "aaab", "a": "kmp"}

which returns the first match position and comparison count:

	{"id": "req_001", "a": "kmp", "pos": 16, "c": 25, "t": 3}

A bench request runs the harness and returns per-algorithm averages:

	{"id": "req_002", "action": "bench", "p": "aaab", "n": 20, "algos": ["naive", "kmp"]}

"info" describes the loaded corpus and "health" answers with ok. A request
may carry its own text in "t"; otherwise the loaded corpus is searched.
Failed requests get an ErrorResponse with the same id.
*/
package server

// Actions understood by the server.
const (
	ActionSearch = "search"
	ActionBench  = "bench"
	ActionInfo   = "info"
	ActionHealth = "health"
)

// Request is the single request envelope; fields apply per action.
type Request struct {
	ID         string   `msgpack:"id"`
	Action     string   `msgpack:"action"`
	Pattern    string   `msgpack:"p"`
	Text       *string  `msgpack:"t,omitempty"`
	Algorithm  string   `msgpack:"a,omitempty"`
	Algorithms []string `msgpack:"algos,omitempty"`
	Iterations int      `msgpack:"n,omitempty"`
}

// SearchResponse - result of one search
type SearchResponse struct {
	ID          string `msgpack:"id"`
	Algorithm   string `msgpack:"a"`
	Position    int    `msgpack:"pos"`
	Comparisons int    `msgpack:"c"`
	TimeTaken   int64  `msgpack:"t"` // microseconds
}

// AlgorithmStats - per-algorithm averages of a bench run
type AlgorithmStats struct {
	Algorithm      string  `msgpack:"a"`
	Position       int     `msgpack:"pos"`
	AvgTime        int64   `msgpack:"avg_t"` // nanoseconds
	MinTime        int64   `msgpack:"min_t"`
	MaxTime        int64   `msgpack:"max_t"`
	AvgComparisons float64 `msgpack:"avg_c"`
}

// BenchResponse - result of a bench run
type BenchResponse struct {
	ID              string           `msgpack:"id"`
	Pattern         string           `msgpack:"p"`
	Iterations      int              `msgpack:"n"`
	Results         []AlgorithmStats `msgpack:"r"`
	Faster          string           `msgpack:"faster,omitempty"`
	ComparisonDelta float64          `msgpack:"dc"`
	TimeTaken       int64            `msgpack:"t"` // microseconds, whole run
}

// InfoResponse - loaded corpus and server limits
type InfoResponse struct {
	ID            string         `msgpack:"id"`
	Status        string         `msgpack:"status"`
	Corpus        string         `msgpack:"corpus"`
	CorpusBytes   int            `msgpack:"bytes"`
	Words         int            `msgpack:"words"`
	Algorithms    []string       `msgpack:"algorithms"`
	MaxPatternLen int            `msgpack:"max_pattern_len"`
	MaxIterations int            `msgpack:"max_iterations"`
	Cache         map[string]int `msgpack:"cache,omitempty"`
}

// StatusResponse - ready and health replies
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
