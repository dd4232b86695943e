package config

import (
	"github.com/forge-lang/testwrap/internal/errors"
)

// Validate checks the configuration needed by every run.
//
// Validation rules:
//   - valgrind.path must not be empty
//   - valgrind.log_dir must not be empty
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if cfg.Valgrind.Path == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "valgrind.path must not be empty")
	}

	if cfg.Valgrind.LogDir == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "valgrind.log_dir must not be empty")
	}

	return nil
}

// ValidateStrict checks the configuration needed by runs under valgrind.
// It reports a missing GLib suppression file before anything is spawned.
func ValidateStrict(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	if cfg.GLib2ValgrindSuppressionFile == "" {
		return errors.Wrap(errors.ErrConfigMissingSuppression,
			"environment variable FORGE_GLIB2_VALGRIND_SUPPRESSION_FILE must be set")
	}

	return nil
}
