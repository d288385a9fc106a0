// Package corpus loads the text that patterns are searched in.
//
// A corpus is a plain text file, a binary chunk file, or a directory of chunk
// files named corpus_0001.bin, corpus_0002.bin, ... Chunk files hold an int32
// little-endian word count followed by entries of
//
//	uint16 length | word bytes | uint16 rank
//
// Words from chunks are joined with '\n' to form the searchable text.
package corpus

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

const chunkGlob = "corpus_*.bin"

// ErrEmptyCorpus is returned when a source loads but holds no text.
var ErrEmptyCorpus = errors.New("corpus is empty")

// Corpus is an immutable, loaded text source.
type Corpus struct {
	Name   string
	Format Format
	Text   []byte

	indexOnce sync.Once
	index     *patricia.Trie
	words     int
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// New wraps in-memory text as a corpus.
func New(name string, text []byte) *Corpus {
	return &Corpus{Name: name, Format: FormatText, Text: text}
}

// Load reads the corpus at path. maxBytes > 0 truncates the text.
func Load(path string, maxBytes int) (*Corpus, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var text []byte
	switch format {
	case FormatText:
		text, err = os.ReadFile(path)
	case FormatChunk:
		var words []string
		words, err = ReadChunk(path)
		text = joinWords(words)
	case FormatChunkDir:
		text, err = loadChunkDir(path)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: %w", path, err)
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, path)
	}

	if maxBytes > 0 && len(text) > maxBytes {
		log.Debugf("Truncating corpus %s from %d to %d bytes", path, len(text), maxBytes)
		text = text[:maxBytes]
	}

	log.Debugf("Loaded corpus %s (%s, %d bytes)", path, format, len(text))
	return &Corpus{Name: filepath.Base(path), Format: format, Text: text}, nil
}

// Len returns the corpus size in bytes.
func (c *Corpus) Len() int {
	return len(c.Text)
}

// GetAvailableChunks scans dirPath for chunk files, sorted by ID
func GetAvailableChunks(dirPath string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dirPath, chunkGlob))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "corpus_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Skipping chunk with bad id: %s", file)
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// ChunkFilename returns the file name for chunk id inside dirPath.
func ChunkFilename(dirPath string, chunkID int) string {
	return filepath.Join(dirPath, fmt.Sprintf("corpus_%04d.bin", chunkID))
}

func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// loadChunkDir concatenates every chunk in ID order.
func loadChunkDir(dirPath string) ([]byte, error) {
	chunks, err := GetAvailableChunks(dirPath)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", dirPath)
	}

	var all []string
	for _, chunk := range chunks {
		words, err := ReadChunk(chunk.Filename)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.ChunkID, err)
		}
		log.Debugf("Chunk %d loaded: %d words", chunk.ChunkID, len(words))
		all = append(all, words...)
	}
	return joinWords(all), nil
}

// ReadChunk reads the words of one chunk file in stored order.
func ReadChunk(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return nil, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkWords {
		return nil, fmt.Errorf("invalid word count in chunk %s: %d", filename, totalEntries)
	}

	words := make([]string, 0, totalEntries)
	for len(words) < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Chunk %s ended after %d of %d words", filename, len(words), totalEntries)
				break
			}
			return nil, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return nil, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return nil, fmt.Errorf("failed to read rank: %w", err)
		}
		words = append(words, string(wordBytes))
	}
	return words, nil
}

// WriteChunk writes words in chunk format; ranks follow word order.
func WriteChunk(filename string, words []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		if len(word) > 0xFFFF {
			return fmt.Errorf("word %d too long for chunk format (%d bytes)", i, len(word))
		}
		rank := uint16(min(i+1, 0xFFFF))
		if err := binary.Write(w, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := w.WriteString(word); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, rank); err != nil {
			return err
		}
	}
	return w.Flush()
}

func joinWords(words []string) []byte {
	return []byte(strings.Join(words, "\n"))
}

// WriteChunkDir splits text on whitespace and writes it to dirPath as chunk
// files of at most chunkSize words. It returns the number of files written.
func WriteChunkDir(dirPath string, text []byte, chunkSize int) (int, error) {
	if chunkSize <= 0 || chunkSize > maxChunkWords {
		return 0, fmt.Errorf("chunk size must be between 1 and %d, got %d", maxChunkWords, chunkSize)
	}
	fields := strings.Fields(string(text))
	if len(fields) == 0 {
		return 0, ErrEmptyCorpus
	}
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create chunk dir %s: %w", dirPath, err)
	}

	written := 0
	for start := 0; start < len(fields); start += chunkSize {
		end := min(start+chunkSize, len(fields))
		written++
		if err := WriteChunk(ChunkFilename(dirPath, written), fields[start:end]); err != nil {
			return written - 1, err
		}
		log.Debugf("Wrote chunk %d: %d words", written, end-start)
	}
	return written, nil
}
