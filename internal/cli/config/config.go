package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/fixtures/pkg/constraint"
	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/fixtures"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/nullpolicy"
	"github.com/conduit-lang/fixtures/pkg/params"
)

// EnvPrefix prefixes environment overrides, e.g. FIXTURES_SEED.
const EnvPrefix = "FIXTURES"

var envKeys = strings.NewReplacer(".", "_")

// Config represents the generation settings
type Config struct {
	Seed            uint64           `mapstructure:"seed"`
	NullProbability float64          `mapstructure:"null_probability"`
	Groups          []string         `mapstructure:"groups"`
	LogLevel        string           `mapstructure:"log_level"`
	MaxDepth        int              `mapstructure:"max_depth"`
	Collection      CollectionConfig `mapstructure:"collection"`
	String          StringConfig     `mapstructure:"string"`
}

// CollectionConfig bounds generated slices and maps
type CollectionConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

// StringConfig bounds generated text
type StringConfig struct {
	MaxLength int `mapstructure:"max_length"`
}

// Load reads the configuration from path, or from fixtures.yml in the
// working directory when path is empty. A missing fixtures.yml means
// defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("seed", 0)
	v.SetDefault("null_probability", nullpolicy.DefaultProbability)
	v.SetDefault("groups", []string{string(constraint.Default)})
	v.SetDefault("log_level", "warn")
	v.SetDefault("max_depth", generator.DefaultMaxDepth)
	v.SetDefault("collection.max_size", params.DefaultMaxSize)
	v.SetDefault("string.max_length", params.DefaultMaxLength)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fixtures")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeys)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Options translates the configuration into fixtures context options. A
// zero seed leaves the context randomly seeded.
func (c *Config) Options() ([]fixtures.Option, error) {
	nulls, err := nullpolicy.NewProbability(c.NullProbability)
	if err != nil {
		return nil, err
	}

	groups := make([]constraint.Group, 0, len(c.Groups))
	for _, g := range c.Groups {
		groups = append(groups, constraint.Group(g))
	}

	opts := []fixtures.Option{
		fixtures.WithNulls(nulls),
		fixtures.WithGroups(groups...),
		fixtures.WithMaxDepth(c.MaxDepth),
		fixtures.WithMaxSize(c.Collection.MaxSize),
		fixtures.WithMaxLength(c.String.MaxLength),
	}
	if c.Seed != 0 {
		opts = append(opts, fixtures.WithSeed(c.Seed))
	}
	return opts, nil
}

// Logger builds a console logger at the configured level, writing to
// stderr so generated values on stdout stay clean.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "log_level")
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.NullProbability < 0 || cfg.NullProbability > 1 {
		return errors.IllegalArgument("null_probability must be within [0, 1], got: %v", cfg.NullProbability)
	}
	if cfg.MaxDepth < 0 {
		return errors.IllegalArgument("max_depth must not be negative, got: %d", cfg.MaxDepth)
	}
	if cfg.Collection.MaxSize < 0 {
		return errors.IllegalArgument("collection.max_size must not be negative, got: %d", cfg.Collection.MaxSize)
	}
	if cfg.String.MaxLength < 0 {
		return errors.IllegalArgument("string.max_length must not be negative, got: %d", cfg.String.MaxLength)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return errors.IllegalArgument("log_level %q is not a zap level", cfg.LogLevel)
	}
	return nil
}
