package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[bench]
iterations = 25
parallel = true
workers = 2
algorithms = ["naive", "kmp", "kmp-cached"]

[corpus]
path = "/srv/corpus/word.txt"
max_bytes = 4096
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Bench.Iterations)
	assert.True(t, cfg.Bench.Parallel)
	assert.Equal(t, 2, cfg.Bench.Workers)
	assert.Equal(t, []string{"naive", "kmp", "kmp-cached"}, cfg.Bench.Algorithms)
	assert.Equal(t, "/srv/corpus/word.txt", cfg.Corpus.Path)
	assert.Equal(t, 4096, cfg.Corpus.MaxBytes)
	// untouched sections keep defaults
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[bench]
iterations = "ten"
workers = 8

[cli]
color = false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Bench.Iterations, cfg.Bench.Iterations)
	assert.Equal(t, 8, cfg.Bench.Workers)
	assert.False(t, cfg.CLI.Color)
}

func TestLoadConfigGarbageFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, "this is [not toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Bench:  BenchConfig{Iterations: -1, Workers: 0},
		Corpus: CorpusConfig{MaxBytes: -5},
		CLI:    CliConfig{MinPatternLen: 4, MaxPatternLen: 2},
	}
	cfg.Validate()

	def := DefaultConfig()
	assert.Equal(t, def.Bench.Iterations, cfg.Bench.Iterations)
	assert.Equal(t, def.Bench.Workers, cfg.Bench.Workers)
	assert.Equal(t, def.Bench.Algorithms, cfg.Bench.Algorithms)
	assert.Zero(t, cfg.Corpus.MaxBytes)
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.CLI.MaxPatternLen, cfg.CLI.MaxPatternLen)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[bench]\niterations = 3\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, cfg.Bench.Iterations)
}
