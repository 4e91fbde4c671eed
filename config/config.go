// Package config loads codesearch-mcp settings from flags, environment,
// an optional YAML file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lexandro/codesearch-mcp/ignore"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CODESEARCH_MAX_RESULTS.
	EnvPrefix = "CODESEARCH"
	// FileName is the config file looked up in the project root.
	FileName = ".codesearch"
	// DefaultLogFileName is created in the project root when no log file is set.
	DefaultLogFileName = "codesearch-mcp.log"
)

// Config holds all runtime settings.
type Config struct {
	Root              string   `mapstructure:"root"`
	IncludeExtensions []string `mapstructure:"include_extensions"`
	ExcludePatterns   []string `mapstructure:"exclude_patterns"`
	ExcludeGlobs      []string `mapstructure:"exclude_globs"`
	RespectGitignore  bool     `mapstructure:"respect_gitignore"`
	MaxFileSize       int64    `mapstructure:"max_file_size"` // bytes, 0 = unlimited
	MaxResults        int      `mapstructure:"max_results"` // default search limit
	MaxKeywordTerms   int      `mapstructure:"max_keyword_terms"`
	FullText          bool     `mapstructure:"fulltext"`
	Watch             bool     `mapstructure:"watch"`
	SyncInterval      int      `mapstructure:"sync_interval"` // seconds, 0 = disabled

	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Log      LogConfig      `mapstructure:"log"`
}

// SnapshotConfig controls index export.
type SnapshotConfig struct {
	KeywordLimit int    `mapstructure:"keyword_limit"`
	Path         string `mapstructure:"path"`
}

// LogConfig controls the slog output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", "")
	v.SetDefault("include_extensions", ignore.DefaultIncludeExtensions)
	v.SetDefault("exclude_patterns", ignore.DefaultExcludePatterns)
	v.SetDefault("exclude_globs", []string{})
	v.SetDefault("respect_gitignore", false)
	v.SetDefault("max_file_size", 0)
	v.SetDefault("max_results", 10)
	v.SetDefault("max_keyword_terms", 100000)
	v.SetDefault("fulltext", true)
	v.SetDefault("watch", true)
	v.SetDefault("sync_interval", 0)
	v.SetDefault("snapshot.keyword_limit", 1000)
	v.SetDefault("snapshot.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// ReadConfigFile points v at configFile, or at .codesearch.yaml in root when
// configFile is empty, and enables CODESEARCH_* environment overrides. A
// missing default file is not an error; a missing explicit file is.
func ReadConfigFile(v *viper.Viper, configFile string, root string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if root == "" {
			root = "."
		}
		v.AddConfigPath(root)
		v.SetConfigType("yaml")
		v.SetConfigName(FileName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load unmarshals v into a Config and fills derived defaults.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults resolves values that depend on other settings.
func applyDefaults(cfg *Config) error {
	if cfg.Root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.Root = cwd
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}
	cfg.Root = root

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Root, DefaultLogFileName)
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 10
	}
	if cfg.Snapshot.KeywordLimit == 0 {
		cfg.Snapshot.KeywordLimit = 1000
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.Log.Level)
	}

	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must not be negative")
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("max_results must not be negative")
	}
	if c.MaxKeywordTerms < 0 {
		return fmt.Errorf("max_keyword_terms must not be negative")
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("sync_interval must not be negative")
	}
	if c.Snapshot.KeywordLimit < -1 {
		return fmt.Errorf("snapshot.keyword_limit must be -1 (no cap) or positive")
	}

	for _, ext := range c.IncludeExtensions {
		if strings.TrimPrefix(ext, ".") == "" {
			return fmt.Errorf("include_extensions contains an empty extension")
		}
	}
	for _, pattern := range c.ExcludePatterns {
		if pattern == "" {
			return fmt.Errorf("exclude_patterns contains an empty pattern")
		}
	}
	if err := ignore.ValidateGlobs(c.ExcludeGlobs); err != nil {
		return err
	}

	return nil
}

// MatcherOptions converts the filter settings for ignore.NewMatcher.
func (c *Config) MatcherOptions() ignore.MatcherOptions {
	return ignore.MatcherOptions{
		RootDir:           c.Root,
		IncludeExtensions: c.IncludeExtensions,
		ExcludePatterns:   c.ExcludePatterns,
		ExcludeGlobs:      c.ExcludeGlobs,
		RespectGitignore:  c.RespectGitignore,
		MaxFileSizeBytes:  c.MaxFileSize,
	}
}
