// Package report renders a bench.Report as the human readable comparison
// printed by the CLI: per-iteration lines, per-algorithm averages and which
// algorithm came out faster.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/kmpbench/internal/utils"
	"github.com/bastiangx/kmpbench/pkg/bench"
	"github.com/bastiangx/kmpbench/pkg/search"
	"github.com/charmbracelet/lipgloss"
)

// Options controls rendering.
type Options struct {
	// Color enables lipgloss styling; the writer's color profile still decides what is emitted.
	Color bool
	// Trials prints one block per iteration before the summary.
	Trials bool
}

var displayNames = map[string]string{
	search.AlgoNaive:     "Brute Force",
	search.AlgoKMP:       "Knuth-Morris-Pratt (KMP)",
	search.AlgoKMPCached: "KMP (cached prefix table)",
}

// DisplayName returns the report label for an algorithm name.
func DisplayName(algorithm string) string {
	if name, ok := displayNames[algorithm]; ok {
		return name
	}
	return algorithm
}

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	winner lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		header: r.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		label: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"}),
		value: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		winner: r.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#56949f", Dark: "#31748f"}),
	}
}

// Render writes the report to w.
func Render(w io.Writer, r *bench.Report, opts Options) error {
	st := newStyles(w, opts.Color)
	var b strings.Builder

	if opts.Trials {
		for _, trial := range r.Trials {
			writeTrial(&b, st, trial)
		}
		b.WriteString("\n")
	}

	b.WriteString(st.title.Render("--- Substring Search Analysis ---"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %q\n", st.label.Render("Pattern:"), r.Pattern)
	if r.Corpus != "" {
		fmt.Fprintf(&b, "%s %s (%s bytes)\n", st.label.Render("Corpus:"), r.Corpus, utils.FormatWithCommas(r.TextLen))
	}
	fmt.Fprintf(&b, "%s %d\n", st.label.Render("Iterations:"), r.Iterations)

	for _, s := range r.Summaries {
		b.WriteString("\n")
		b.WriteString(st.header.Render(DisplayName(s.Algorithm) + ":"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render("Position:"), st.value.Render(formatPosition(s.Position)))
		fmt.Fprintf(&b, "  %s %s s\n", st.label.Render("Average time:"), st.value.Render(utils.FormatSeconds(s.AvgTime)))
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render("Average comparisons:"), st.value.Render(utils.FormatAverage(s.AvgComparisons)))
		if r.Iterations > 1 {
			fmt.Fprintf(&b, "  %s %s / %s s\n", st.label.Render("Min / max time:"),
				utils.FormatSeconds(s.MinTime), utils.FormatSeconds(s.MaxTime))
		}
	}

	if len(r.Summaries) >= 2 {
		b.WriteString("\n")
		b.WriteString(st.header.Render("Efficiency:"))
		b.WriteString("\n")
		if name, ok := r.Faster(); ok {
			fmt.Fprintf(&b, "  %s\n", st.winner.Render(DisplayName(name)+" is faster"))
		} else {
			b.WriteString("  Both algorithms took about the same time\n")
		}
		fmt.Fprintf(&b, "  %s %s s\n", st.label.Render("Average time difference:"), utils.FormatSeconds(r.TimeDelta()))
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render("Average comparison difference:"), utils.FormatAverage(r.ComparisonDelta()))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderTrial writes a single iteration block, as the CLI does while a run progresses.
func RenderTrial(w io.Writer, trial bench.Trial, opts Options) error {
	var b strings.Builder
	writeTrial(&b, newStyles(w, opts.Color), trial)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTrial(b *strings.Builder, st styles, trial bench.Trial) {
	fmt.Fprintf(b, "\n%s\n", st.header.Render(fmt.Sprintf("Iteration %d:", trial.Iteration)))
	for _, m := range trial.Results {
		fmt.Fprintf(b, "  %-28s time %s s, comparisons %s\n",
			DisplayName(m.Algorithm), utils.FormatSeconds(m.Elapsed), utils.FormatWithCommas(m.Comparisons))
	}
}

func formatPosition(pos int) string {
	if pos == search.NotFound {
		return "not found"
	}
	return fmt.Sprintf("offset %s", utils.FormatWithCommas(pos))
}
