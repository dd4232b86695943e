package config

import (
	"context"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/forge-lang/testwrap/internal/constants"
	"github.com/forge-lang/testwrap/internal/errors"
)

// LoadOptions selects optional configuration sources.
type LoadOptions struct {
	// ConfigFile is a YAML file read below the environment. Empty skips it.
	ConfigFile string

	// EnvFile is a dotenv file loaded into the process environment.
	// Variables that are already set keep their values. Empty skips it.
	EnvFile string
}

// newViperInstance creates a Viper instance with the FORGE_ env prefix,
// "." -> "_" key replacement and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from all sources and validates it for plain runs.
// Callers running under valgrind must also call ValidateStrict.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "failed to load env file %s: %v", opts.EnvFile, err)
		}
	}

	v := newViperInstance()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "failed to read config file %s: %v", opts.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	applyDerivedDefaults(&cfg)

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Bool("skip_unchanged", cfg.SkipUnchanged()).
		Str("glib2_suppression_file", cfg.GLib2ValgrindSuppressionFile).
		Str("source_dir", cfg.SourceDir).
		Str("valgrind.path", cfg.Valgrind.Path).
		Str("valgrind.log_dir", cfg.Valgrind.LogDir).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// applyDerivedDefaults fills values whose defaults depend on the running process.
func applyDerivedDefaults(cfg *Config) {
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir()
	}
	if cfg.Valgrind.LogDir == "" {
		cfg.Valgrind.LogDir = os.TempDir()
	}
}

// viperDecoderOption lets comma separated env values fill string slices.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
