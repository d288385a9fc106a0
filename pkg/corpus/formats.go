package corpus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnknownFormat is returned when a path is neither text, a chunk file nor a chunk dir.
var ErrUnknownFormat = errors.New("unknown corpus format")

// Format represents the supported corpus sources
type Format int

const (
	FormatUnknown  Format = iota
	FormatText            // Plain text, read whole
	FormatChunk           // Single binary chunk file
	FormatChunkDir        // Directory of corpus_NNNN.bin chunks
	FormatEmbedded        // Built-in sample text
)

// FormatInfo contains metadata about a corpus format
type FormatInfo struct {
	Format      Format
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[Format]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Corpus",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Binary Chunk Corpus",
		Extensions:  []string{".bin"},
		MinSize:     4, // word count header
	},
	FormatChunkDir: {
		Format:      FormatChunkDir,
		Description: "Chunked Corpus Directory",
	},
	FormatEmbedded: {
		Format:      FormatEmbedded,
		Description: "Built-in Sample Corpus",
	},
}

func (f Format) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// maxChunkWords is a sanity bound on the header of a chunk file.
const maxChunkWords = 1000000

// DetectFormat works out how path should be loaded.
func DetectFormat(path string) (Format, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if stat.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, chunkGlob))
		if err != nil || len(matches) == 0 {
			return FormatUnknown, fmt.Errorf("%w: no %s files in %s", ErrUnknownFormat, chunkGlob, path)
		}
		return FormatChunkDir, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatText, nil
	case ".bin":
		if err := validateChunkFile(path, stat.Size()); err != nil {
			return FormatUnknown, err
		}
		return FormatChunk, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// validateChunkFile checks the header of a binary chunk file
func validateChunkFile(path string, size int64) error {
	if size < supportedFormats[FormatChunk].MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for a chunk header", path, size)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	if wordCount < 0 {
		return fmt.Errorf("invalid word count in %s: %d (negative)", path, wordCount)
	}
	if wordCount > maxChunkWords {
		return fmt.Errorf("suspicious word count in %s: %d (too large)", path, wordCount)
	}

	log.Debugf("Chunk file %s validated: %d words", path, wordCount)
	return nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
