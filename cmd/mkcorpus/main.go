// Copyright 2025 The kmpbench Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command mkcorpus converts a plain text file into a directory of
// corpus_NNNN.bin chunk files that kmpbench -corpus can load.
//
//	mkcorpus -in word.txt -out data/word -chunk 10000
package main

import (
	"flag"
	"os"

	"github.com/bastiangx/kmpbench/internal/logger"
	"github.com/bastiangx/kmpbench/internal/utils"
	"github.com/bastiangx/kmpbench/pkg/corpus"
)

func main() {
	in := flag.String("in", "word.txt", "Plain text input file")
	out := flag.String("out", "data/", "Output directory for chunk files")
	chunkSize := flag.Int("chunk", 10000, "Words per chunk file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	logger.Setup(*debugMode)
	l := logger.New("mkcorpus")

	text, err := os.ReadFile(*in)
	if err != nil {
		l.Fatalf("Failed to read %s: %v", *in, err)
	}

	outDir := utils.GetAbsolutePath(*out)
	if status := utils.CheckDirStatus(outDir); !status.Writable {
		l.Fatalf("Cannot write to %s: %v", outDir, status.Error)
	}

	if existing, _ := corpus.GetAvailableChunks(outDir); len(existing) > 0 {
		l.Fatalf("%s already holds %d chunk files", outDir, len(existing))
	}

	n, err := corpus.WriteChunkDir(outDir, text, *chunkSize)
	if err != nil {
		l.Fatalf("Failed to write chunks: %v", err)
	}
	l.Printf("Wrote %d chunk files to %s", n, outDir)
}
