// Package config provides the configuration value object for forge-testwrap.
//
// Configuration is read once at process start and validated eagerly, then passed
// by reference to every component that needs it. Sources, highest precedence first:
//  1. Environment variables (FORGE_* prefix)
//  2. An env file given with --env-file (never overrides variables already set)
//  3. A YAML config file given with --config
//  4. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import (
	"path/filepath"

	"github.com/forge-lang/testwrap/internal/constants"
)

// Config is the root configuration structure.
type Config struct {
	// SkipUnchangedTests enables skipping a test whose executable matches the
	// hash of its last successful run. Only the exact value "1" enables it.
	// Env: FORGE_SKIP_UNCHANGED_TESTS
	SkipUnchangedTests string `yaml:"skip_unchanged_tests" mapstructure:"skip_unchanged_tests"`

	// GLib2ValgrindSuppressionFile is the GLib suppression file passed to valgrind.
	// Required for strict (full) runs.
	// Env: FORGE_GLIB2_VALGRIND_SUPPRESSION_FILE
	GLib2ValgrindSuppressionFile string `yaml:"glib2_valgrind_suppression_file" mapstructure:"glib2_valgrind_suppression_file"`

	// SourceDir is the project source directory holding forge.supp.
	// Default: the parent of the directory containing this executable.
	// Env: FORGE_SOURCE_DIR
	SourceDir string `yaml:"source_dir" mapstructure:"source_dir"`

	// Valgrind contains settings for the instrumented run.
	Valgrind ValgrindConfig `yaml:"valgrind" mapstructure:"valgrind"`

	// Log contains settings for the diagnostic logger.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// ValgrindConfig contains settings for the instrumentation tool.
type ValgrindConfig struct {
	// Path is the valgrind executable. Default: "valgrind"
	Path string `yaml:"path" mapstructure:"path"`

	// ExtraSuppressions are appended after the two standard suppression files.
	// Env values are comma separated.
	ExtraSuppressions []string `yaml:"extra_suppressions" mapstructure:"extra_suppressions"`

	// ExtraArgs are passed to valgrind after the standard flags.
	ExtraArgs []string `yaml:"extra_args" mapstructure:"extra_args"`

	// LogDir is where the per-run log file is created. Default: the OS temp dir.
	LogDir string `yaml:"log_dir" mapstructure:"log_dir"`
}

// LogConfig contains settings for the CLI's own log output.
type LogConfig struct {
	// File enables a rotating log file in addition to stderr when set.
	File string `yaml:"file" mapstructure:"file"`
}

// SkipUnchanged reports whether skip-on-unchanged is enabled.
func (c *Config) SkipUnchanged() bool {
	return c != nil && c.SkipUnchangedTests == constants.SkipEnabledValue
}

// ProjectSuppressionFile returns the path of forge.supp in the source directory.
func (c *Config) ProjectSuppressionFile() string {
	return filepath.Join(c.SourceDir, constants.ProjectSuppressionFileName)
}

// Suppressions returns every suppression file for the instrumented run:
// the GLib file, the project file, then any extras.
func (c *Config) Suppressions() []string {
	files := make([]string, 0, 2+len(c.Valgrind.ExtraSuppressions))
	if c.GLib2ValgrindSuppressionFile != "" {
		files = append(files, c.GLib2ValgrindSuppressionFile)
		files = append(files, c.ProjectSuppressionFile())
	}
	for _, extra := range c.Valgrind.ExtraSuppressions {
		if extra != "" {
			files = append(files, extra)
		}
	}
	return files
}
