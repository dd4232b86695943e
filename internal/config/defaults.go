package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/forge-lang/testwrap/internal/constants"
)

// DefaultConfig returns a Config with default values.
// Strict runs still need GLib2ValgrindSuppressionFile set by the caller.
func DefaultConfig() *Config {
	return &Config{
		SkipUnchangedTests: "0",
		SourceDir:          DefaultSourceDir(),
		Valgrind: ValgrindConfig{
			Path:   constants.DefaultValgrindPath,
			LogDir: os.TempDir(),
		},
	}
}

// setDefaults configures all default values on the Viper instance.
// Every key must be registered here so AutomaticEnv can see it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("skip_unchanged_tests", "0")
	v.SetDefault("glib2_valgrind_suppression_file", "")
	v.SetDefault("source_dir", "")

	v.SetDefault("valgrind.path", constants.DefaultValgrindPath)
	v.SetDefault("valgrind.extra_suppressions", []string{})
	v.SetDefault("valgrind.extra_args", []string{})
	v.SetDefault("valgrind.log_dir", "")

	v.SetDefault("log.file", "")
}

// DefaultSourceDir returns the parent of the directory containing the running
// executable, where the wrapper is installed inside the source tree
// (<source>/scripts/forge-testwrap). Falls back to the working directory.
func DefaultSourceDir() string {
	exe, err := os.Executable()
	if err == nil {
		if resolved, evalErr := filepath.EvalSymlinks(exe); evalErr == nil {
			exe = resolved
		}
		return filepath.Dir(filepath.Dir(exe))
	}

	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
