// Package config loads picturepalette settings from defaults, an optional
// TOML file and PICTUREPALETTE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/picturepalette/internal/colour"
	"github.com/jmylchreest/picturepalette/internal/pipeline"
)

// EnvPrefix is the prefix for environment overrides, e.g. PICTUREPALETTE_EXTRACT_ITERATIONS.
const EnvPrefix = "PICTUREPALETTE"

// Config holds application configuration.
type Config struct {
	Extract ExtractConfig `mapstructure:"extract"`
	Palette PaletteConfig `mapstructure:"palette"`
	Image   ImageConfig   `mapstructure:"image"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
}

// ExtractConfig holds clustering settings.
type ExtractConfig struct {
	Algorithm    string         `mapstructure:"algorithm"`
	BucketCount  int            `mapstructure:"bucket_count"`
	Iterations   int            `mapstructure:"iterations"`
	Workers      int            `mapstructure:"workers"`
	MaxDimension int            `mapstructure:"max_dimension"`
	Weights      colour.Weights `mapstructure:"weights"`
}

// PaletteConfig holds palette generation settings.
type PaletteConfig struct {
	Scheme string `mapstructure:"scheme"`
}

// ImageConfig holds image acquisition settings.
type ImageConfig struct {
	Cache    bool   `mapstructure:"cache"`
	CacheDir string `mapstructure:"cache_dir"`
}

// FetchConfig holds remote image download settings.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Options controls where Load looks for settings.
type Options struct {
	// Path is an explicit config file. When empty, PICTUREPALETTE_CONFIG and
	// then $XDG_CONFIG_HOME/picturepalette/config.toml are tried.
	Path string

	// Flags are bound over every other source. Only flags the user changed win.
	Flags *pflag.FlagSet
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"algorithm":     "extract.algorithm",
	"buckets":       "extract.bucket_count",
	"iterations":    "extract.iterations",
	"workers":       "extract.workers",
	"max-dimension": "extract.max_dimension",
	"scheme":        "palette.scheme",
	"cache":         "image.cache",
	"cache-dir":     "image.cache_dir",
	"timeout":       "fetch.timeout",
}

// Load reads configuration from defaults, file, env and flags, in increasing precedence.
func Load(opts Options) (Config, error) {
	v := viper.New()

	def := pipeline.DefaultConfig()
	v.SetDefault("extract.algorithm", string(def.Extractor.Algorithm))
	v.SetDefault("extract.bucket_count", def.Extractor.BucketCount)
	v.SetDefault("extract.iterations", def.Extractor.Iterations)
	v.SetDefault("extract.workers", 0)
	v.SetDefault("extract.max_dimension", 0)
	v.SetDefault("extract.weights.hue", def.Extractor.Weights.Hue)
	v.SetDefault("extract.weights.saturation", def.Extractor.Weights.Saturation)
	v.SetDefault("extract.weights.value", def.Extractor.Weights.Value)
	v.SetDefault("palette.scheme", string(def.Scheme))
	v.SetDefault("image.cache", false)
	v.SetDefault("image.cache_dir", "")
	v.SetDefault("fetch.timeout", 10*time.Second)

	v.SetConfigType("toml")

	cfgPath := opts.Path
	if cfgPath == "" {
		cfgPath = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "picturepalette"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path must exist; the default location is optional.
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Pipeline converts the settings into an engine configuration.
func (c Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Extractor: colour.ExtractorConfig{
			Algorithm:   colour.Algorithm(c.Extract.Algorithm),
			BucketCount: c.Extract.BucketCount,
			Iterations:  c.Extract.Iterations,
			Workers:     c.Extract.Workers,
			Weights:     c.Extract.Weights,
		},
		Scheme: colour.Scheme(c.Palette.Scheme),
	}
}

// Validate checks the settings that are not covered by pipeline validation.
func (c Config) Validate() error {
	if err := c.Pipeline().Validate(); err != nil {
		return err
	}
	if c.Extract.MaxDimension < 0 {
		return fmt.Errorf("max dimension must not be negative, got %d", c.Extract.MaxDimension)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative, got %s", c.Fetch.Timeout)
	}
	return nil
}
