/*
Package config manages the TOML config for kmpbench.

The file is created with defaults on first use. A file that fails to decode
as a whole is read again as a generic map so that every valid key still
applies and the rest falls back to defaults.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/kmpbench/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Bench  BenchConfig  `toml:"bench"`
	Corpus CorpusConfig `toml:"corpus"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// BenchConfig controls how trials are run.
type BenchConfig struct {
	Iterations int      `toml:"iterations"`
	Parallel   bool     `toml:"parallel"`
	Workers    int      `toml:"workers"`
	Algorithms []string `toml:"algorithms"`
}

// CorpusConfig points at the text source.
type CorpusConfig struct {
	Path     string `toml:"path"`
	MaxBytes int    `toml:"max_bytes"`
}

// ServerConfig has IPC request limits.
type ServerConfig struct {
	MaxPatternLen int `toml:"max_pattern_len"`
	MaxIterations int `toml:"max_iterations"`
	CacheSize     int `toml:"cache_size"`
}

// CliConfig holds interactive prompt options.
type CliConfig struct {
	MinPatternLen int  `toml:"min_pattern_len"`
	MaxPatternLen int  `toml:"max_pattern_len"`
	Color         bool `toml:"color"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Bench: BenchConfig{
			Iterations: 10,
			Parallel:   false,
			Workers:    4,
			Algorithms: []string{"naive", "kmp"},
		},
		Corpus: CorpusConfig{
			Path:     "word.txt",
			MaxBytes: 0,
		},
		Server: ServerConfig{
			MaxPatternLen: 256,
			MaxIterations: 1000,
			CacheSize:     128,
		},
		CLI: CliConfig{
			MinPatternLen: 1,
			MaxPatternLen: 256,
			Color:         true,
		},
	}
}

// Validate replaces values that cannot work with their defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Bench.Iterations <= 0 {
		log.Warnf("Invalid bench.iterations %d, using %d", c.Bench.Iterations, def.Bench.Iterations)
		c.Bench.Iterations = def.Bench.Iterations
	}
	if c.Bench.Workers <= 0 {
		c.Bench.Workers = def.Bench.Workers
	}
	if len(c.Bench.Algorithms) == 0 {
		c.Bench.Algorithms = def.Bench.Algorithms
	}
	if c.Corpus.MaxBytes < 0 {
		c.Corpus.MaxBytes = 0
	}
	if c.Server.MaxPatternLen <= 0 {
		c.Server.MaxPatternLen = def.Server.MaxPatternLen
	}
	if c.Server.MaxIterations <= 0 {
		c.Server.MaxIterations = def.Server.MaxIterations
	}
	if c.Server.CacheSize <= 0 {
		c.Server.CacheSize = def.Server.CacheSize
	}
	if c.CLI.MinPatternLen < 0 {
		c.CLI.MinPatternLen = 0
	}
	if c.CLI.MaxPatternLen > 0 && c.CLI.MaxPatternLen < c.CLI.MinPatternLen {
		log.Warnf("cli.max_pattern_len %d below min %d, using %d",
			c.CLI.MaxPatternLen, c.CLI.MinPatternLen, def.CLI.MaxPatternLen)
		c.CLI.MaxPatternLen = def.CLI.MaxPatternLen
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/kmpbench
// 2. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		primaryPath := filepath.Join(homeDir, ".config", utils.AppDirName)
		if result := utils.CheckDirStatus(primaryPath); result.Writable {
			return primaryPath, nil
		}
	} else {
		log.Errorf("Failed to get home directory: %v", err)
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, FileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: ~/.config/kmpbench/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using built-in defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse picks valid keys out of a file that failed strict decoding
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "bench"); ok {
		extractBenchConfig(section, &config.Bench)
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(section, &config.Corpus)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.Validate()
	return config, nil
}

func extractBenchConfig(data map[string]any, bench *BenchConfig) {
	if val, ok := utils.ExtractInt64(data, "iterations"); ok {
		bench.Iterations = val
	}
	if val, ok := utils.ExtractBool(data, "parallel"); ok {
		bench.Parallel = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		bench.Workers = val
	}
	if val, ok := utils.ExtractStringSlice(data, "algorithms"); ok {
		bench.Algorithms = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		corpus.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "max_bytes"); ok {
		corpus.MaxBytes = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_pattern_len"); ok {
		server.MaxPatternLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_iterations"); ok {
		server.MaxIterations = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "min_pattern_len"); ok {
		cli.MinPatternLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_pattern_len"); ok {
		cli.MaxPatternLen = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}
