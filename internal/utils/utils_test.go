package utils

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCommas(t *testing.T) {
	testCases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatWithCommas(tc.in))
	}

	got := FormatWithCommas(math.MinInt)
	assert.True(t, strings.HasPrefix(got, "-"))
	assert.Equal(t, strconv.Itoa(math.MinInt), strings.ReplaceAll(got, ",", ""))
}

func TestFormatSecondsAndAverage(t *testing.T) {
	assert.Equal(t, "0.00000150", FormatSeconds(1500*time.Nanosecond))
	assert.Equal(t, "12.5", FormatAverage(12.5))
	assert.Equal(t, "3", FormatAverage(3))
	assert.Equal(t, "0.33", FormatAverage(1.0/3.0))
}

func TestParseIterations(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		max         int
		want        int
		wantErr     bool
	}{
		{"Plain number", "10", 0, 10, false},
		{"Surrounding space", " 3\n", 0, 3, false},
		{"Zero", "0", 0, 0, true},
		{"Negative", "-2", 0, 0, true},
		{"Not a number", "ten", 0, 0, true},
		{"Above limit", "1001", 1000, 0, true},
		{"At limit", "1000", 1000, 1000, false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, err := ParseIterations(tc.input, tc.max)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIterations)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern("", 0, 10))
	assert.NoError(t, ValidatePattern("abc", 1, 3))
	assert.ErrorIs(t, ValidatePattern("", 1, 10), ErrPatternTooShort)
	assert.ErrorIs(t, ValidatePattern("abcd", 1, 3), ErrPatternTooLong)
	assert.NoError(t, ValidatePattern("abcd", 0, 0))
}

func TestIsQuitCommand(t *testing.T) {
	assert.True(t, IsQuitCommand("quit"))
	assert.True(t, IsQuitCommand(" EXIT "))
	assert.False(t, IsQuitCommand("quitter"))
}

func TestExtractHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	content := "[bench]\niterations = 5\nparallel = true\nalgorithms = [\"naive\", 3, \"kmp\"]\n[corpus]\npath = \"word.txt\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	bench, ok := ExtractSection(data, "bench")
	require.True(t, ok)

	n, ok := ExtractInt64(bench, "iterations")
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	b, ok := ExtractBool(bench, "parallel")
	assert.True(t, ok)
	assert.True(t, b)

	names, ok := ExtractStringSlice(bench, "algorithms")
	assert.True(t, ok)
	assert.Equal(t, []string{"naive", "kmp"}, names)

	corpus, ok := ExtractSection(data, "corpus")
	require.True(t, ok)
	p, ok := ExtractString(corpus, "path")
	assert.True(t, ok)
	assert.Equal(t, "word.txt", p)

	_, ok = ExtractSection(data, "missing")
	assert.False(t, ok)
}

func TestGetCorpusPath(t *testing.T) {
	execDir := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "cfg"))

	corpusFile := filepath.Join(execDir, "data", "word.txt")
	require.NoError(t, EnsureDir(filepath.Dir(corpusFile)))
	require.NoError(t, os.WriteFile(corpusFile, []byte("some words"), 0644))

	pr := newPathResolver(filepath.Join(execDir, "kmpbench"), home)

	got, err := pr.GetCorpusPath("word.txt")
	require.NoError(t, err)
	assert.Equal(t, corpusFile, got)

	got, err = pr.GetCorpusPath(corpusFile)
	require.NoError(t, err)
	assert.Equal(t, corpusFile, got)

	_, err = pr.GetCorpusPath("does-not-exist.txt")
	assert.ErrorIs(t, err, ErrCorpusNotFound)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	result := CheckDirStatus(dir)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)
	assert.NoError(t, result.Error)
	assert.True(t, FileExists(dir))
}
