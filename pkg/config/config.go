// Package config loads pcgrid settings from an optional YAML file and
// PCGRID_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache key modes.
const (
	KeyText       = "text"       // the source text is the signature
	KeyStructural = "structural" // graph.Signature of the compiled graph
)

// Config holds all application configuration.
type Config struct {
	Cache   CacheConfig   `mapstructure:"cache"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type CacheConfig struct {
	Capacity int    `mapstructure:"capacity"`
	Key      string `mapstructure:"key"`
}

type EngineConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	MaxSize int           `mapstructure:"max_size"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	ServiceName string  `mapstructure:"service_name"`
}

// Default returns a working configuration with no file or environment.
func Default() *Config {
	return &Config{
		Cache:   CacheConfig{Capacity: 16, Key: KeyText},
		Engine:  EngineConfig{Timeout: 5 * time.Second, MaxSize: 1024},
		Log:     LogConfig{Level: "info"},
		Tracing: TracingConfig{SampleRate: 1.0, ServiceName: "pcgrid"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("cache.capacity", d.Cache.Capacity)
	v.SetDefault("cache.key", d.Cache.Key)
	v.SetDefault("engine.timeout", d.Engine.Timeout)
	v.SetDefault("engine.max_size", d.Engine.MaxSize)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Cache.Capacity <= 0 {
		warnings = append(warnings, fmt.Sprintf("cache capacity %d is not positive; the default of 16 applies", c.Cache.Capacity))
	}
	if c.Cache.Key != KeyText && c.Cache.Key != KeyStructural {
		warnings = append(warnings, fmt.Sprintf("cache key %q is unknown; %q applies", c.Cache.Key, KeyText))
	}
	if c.Engine.Timeout <= 0 {
		warnings = append(warnings, fmt.Sprintf("engine timeout %s is not positive; the default applies", c.Engine.Timeout))
	}
	if c.Engine.MaxSize <= 0 {
		warnings = append(warnings, fmt.Sprintf("engine max_size %d is not positive; the default applies", c.Engine.MaxSize))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside [0.0, 1.0]", c.Tracing.SampleRate))
	}

	return warnings
}

// Load reads configuration from path and the environment. An empty path
// uses defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PCGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
