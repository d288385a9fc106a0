package corpus

import _ "embed"

//go:embed sample.txt
var sampleText []byte

// SampleName is the Name of the built-in corpus.
const SampleName = "sample"

// Sample returns the built-in corpus used when no text source is available.
func Sample() *Corpus {
	return &Corpus{Name: SampleName, Format: FormatEmbedded, Text: sampleText}
}
