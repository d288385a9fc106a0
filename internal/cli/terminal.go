package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/kmpbench/internal/utils"
	"github.com/bastiangx/kmpbench/pkg/corpus"
)

// terminal is the prompt side of the CLI: line input and plain output.
type terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	return &terminal{in: bufio.NewReader(in), out: out}
}

// prompt prints label and returns the next line without its line ending.
// Inner and surrounding spaces are kept; they are part of a pattern.
// A final line without a newline is returned before io.EOF.
func (t *terminal) prompt(label string) (string, error) {
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *terminal) println(s string) {
	fmt.Fprintln(t.out, s)
}

// suggest lists near matches for a pattern that was not found.
func (t *terminal) suggest(words []corpus.WordCount) {
	if len(words) == 0 {
		return
	}
	t.println("Closest corpus words:")
	for i, w := range words {
		fmt.Fprintf(t.out, "%2d. %-30s (count: %6s)\n", i+1, w.Word, utils.FormatWithCommas(w.Count))
	}
}
