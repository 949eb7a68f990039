// Package config holds the application configuration, loaded through viper
// from a YAML file and PAGEPATH_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector"`
	Fetch    FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// EngineConfig tunes the path generator.
type EngineConfig struct {
	Kind                 string `mapstructure:"kind" yaml:"kind"`
	Algorithm            string `mapstructure:"algorithm" yaml:"algorithm"`
	QuoteStyle           string `mapstructure:"quote_style" yaml:"quote_style"`
	Optimized            bool   `mapstructure:"optimized" yaml:"optimized"`
	MaxTextLength        int    `mapstructure:"max_text_length" yaml:"max_text_length"`
	MaxBoundaryCrossings int    `mapstructure:"max_boundary_crossings" yaml:"max_boundary_crossings"`
}

// DetectorConfig tunes the page-element candidate detector. DeniedTags and
// DeniedTokens extend the built-in denylists.
type DetectorConfig struct {
	SimilarityThreshold int      `mapstructure:"similarity_threshold" yaml:"similarity_threshold"`
	MinContainerSize    float64  `mapstructure:"min_container_size" yaml:"min_container_size"`
	DeniedTags          []string `mapstructure:"denied_tags" yaml:"denied_tags"`
	DeniedTokens        []string `mapstructure:"denied_tokens" yaml:"denied_tokens"`
}

// FetchConfig configures the headless-browser page snapshotter.
type FetchConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	WaitAfterLoad time.Duration `mapstructure:"wait_after_load" yaml:"wait_after_load"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	Headless      bool          `mapstructure:"headless" yaml:"headless"`
}

// SetViperDefaults registers every default so a missing config file still
// yields a fully usable Config.
func SetViperDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "pagepath")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("engine.kind", "selector")
	v.SetDefault("engine.algorithm", "heuristic")
	v.SetDefault("engine.quote_style", "double")
	v.SetDefault("engine.optimized", true)
	v.SetDefault("engine.max_text_length", 30)
	v.SetDefault("engine.max_boundary_crossings", 10)

	v.SetDefault("detector.similarity_threshold", 9)
	v.SetDefault("detector.min_container_size", 500)

	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.wait_after_load", 2*time.Second)
	v.SetDefault("fetch.headless", true)
}

// Load reads the configuration from the given file (or ./config.yaml when
// empty), layering PAGEPATH_* environment variables on top. A missing file
// is not an error; defaults apply.
func Load(file string) (*Config, error) {
	v := viper.GetViper()
	SetViperDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PAGEPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without touching the
// filesystem or environment.
func Default() *Config {
	v := viper.New()
	SetViperDefaults(v)
	var cfg Config
	// Defaults are statically well-formed; Unmarshal cannot fail on them.
	_ = v.Unmarshal(&cfg)
	return &cfg
}
