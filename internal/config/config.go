package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application. Values are read by
// viper from an optional chartchat.yaml plus CHARTCHAT_* environment
// overrides; every knob the pipeline depends on is injected from here.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// PipelineConfig holds the generate/validate/refine knobs.
type PipelineConfig struct {
	MaxAttempts     int    `mapstructure:"max_attempts"`     // refinement attempts before fallback
	HistoryCapacity int    `mapstructure:"history_capacity"` // bounded workflow history size
	SampleCap       int    `mapstructure:"sample_cap"`       // rows considered from the dataset
	SampleDetail    int    `mapstructure:"sample_detail"`    // rows echoed in full detail in the prompt
	EntryPoint      string `mapstructure:"entry_point"`      // artifact entry-point function name
	DefaultModel    string `mapstructure:"default_model"`    // model key used when none is given
}

// DatabaseConfig stores sqlite connection details.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig stores logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.max_attempts", 3)
	v.SetDefault("pipeline.history_capacity", 20)
	v.SetDefault("pipeline.sample_cap", 50)
	v.SetDefault("pipeline.sample_detail", 5)
	v.SetDefault("pipeline.entry_point", "drawChart")
	v.SetDefault("pipeline.default_model", "")
	v.SetDefault("database.path", "")
	v.SetDefault("log.level", "info")
}

// Load reads configuration from chartchat.yaml (working directory, then
// the user config dir) and the environment.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("chartchat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/chartchat")

	v.SetEnvPrefix("CHARTCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the lower bounds the pipeline's invariants assume.
func (c *Config) Validate() error {
	if c.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("pipeline.max_attempts must be >= 1, got %d", c.Pipeline.MaxAttempts)
	}
	if c.Pipeline.HistoryCapacity < 1 {
		return fmt.Errorf("pipeline.history_capacity must be >= 1, got %d", c.Pipeline.HistoryCapacity)
	}
	if c.Pipeline.SampleCap < 1 {
		return fmt.Errorf("pipeline.sample_cap must be >= 1, got %d", c.Pipeline.SampleCap)
	}
	if c.Pipeline.SampleDetail < 0 {
		return fmt.Errorf("pipeline.sample_detail must be >= 0, got %d", c.Pipeline.SampleDetail)
	}
	if c.Pipeline.SampleDetail > c.Pipeline.SampleCap {
		c.Pipeline.SampleDetail = c.Pipeline.SampleCap
	}
	if strings.TrimSpace(c.Pipeline.EntryPoint) == "" {
		return fmt.Errorf("pipeline.entry_point must not be empty")
	}
	return nil
}
