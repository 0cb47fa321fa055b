// SPDX-License-Identifier: EPL-2.0

// Package config loads engine settings from defaults, an optional YAML file,
// a .env file and AUDENG_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ik5/audeng/internal/logger"
	"github.com/ik5/audeng/output"
)

// EnvPrefix prefixes every environment variable, e.g. AUDENG_AUDIO_DRIVER.
const EnvPrefix = "AUDENG"

// Config holds all engine configuration.
type Config struct {
	Audio   AudioConfig   `mapstructure:"audio"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AudioConfig holds the mixer and output settings.
type AudioConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Driver     string        `mapstructure:"driver"`
	SampleRate int           `mapstructure:"sample_rate"`
	Buffer     time.Duration `mapstructure:"buffer"`
	OutputGain float64       `mapstructure:"output_gain"`

	MaxSpeakers        int `mapstructure:"max_speakers"`
	StreamBuffers      int `mapstructure:"stream_buffers"`
	StreamBufferFrames int `mapstructure:"stream_buffer_frames"`

	MasterVolume      float64 `mapstructure:"master_volume"`
	DopplerFactor     float64 `mapstructure:"doppler_factor"`
	SpeedOfSound      float64 `mapstructure:"speed_of_sound"`
	ReferenceDistance float64 `mapstructure:"reference_distance"`
	Rolloff           float64 `mapstructure:"rolloff"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

var defaults = map[string]any{
	"audio.enabled":              true,
	"audio.driver":               "oto",
	"audio.sample_rate":          44100,
	"audio.buffer":               "200ms",
	"audio.output_gain":          1.0,
	"audio.max_speakers":         32,
	"audio.stream_buffers":       4,
	"audio.stream_buffer_frames": 4096,
	"audio.master_volume":        1.0,
	"audio.doppler_factor":       1.0,
	"audio.speed_of_sound":       343.3,
	"audio.reference_distance":   1.0,
	"audio.rolloff":              1.0,
	"logging.level":              "info",
	"logging.format":             "text",
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := unmarshal(newViper())
	if err != nil {
		panic(err) // defaults always decode
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Loader reads configuration. Flags bound with BindFlag win over every
// other source when set on the command line.
type Loader struct {
	v *viper.Viper

	// EnvFile is loaded into the environment when it exists. Variables
	// already set are not overridden.
	EnvFile string
}

func NewLoader() *Loader {
	return &Loader{v: newViper(), EnvFile: ".env"}
}

// BindFlag overrides key with f when the flag is set.
func (l *Loader) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return fmt.Errorf("bind %s: nil flag", key)
	}
	if err := l.v.BindPFlag(key, f); err != nil {
		return fmt.Errorf("bind %s: %w", key, err)
	}
	return nil
}

// Load reads the configuration. An empty path searches audeng.yaml in the
// working directory and in $HOME/.audeng; not finding one is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", l.EnvFile, err)
		}
	}

	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName("audeng")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		l.v.AddConfigPath("$HOME/.audeng")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	} else {
		slog.Debug("using config file", slog.String("file", l.v.ConfigFileUsed()))
	}

	cfg, err := unmarshal(l.v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is NewLoader().Load(path).
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	a := c.Audio

	switch {
	case !slices.Contains(output.Drivers(), a.Driver):
		return &ValidationError{Field: "audio.driver", Message: fmt.Sprintf("unknown driver %q, want one of %v", a.Driver, output.Drivers())}
	case a.SampleRate <= 0:
		return &ValidationError{Field: "audio.sample_rate", Message: "must be positive"}
	case a.Buffer <= 0:
		return &ValidationError{Field: "audio.buffer", Message: "must be positive"}
	case a.MaxSpeakers < 1:
		return &ValidationError{Field: "audio.max_speakers", Message: "must be at least 1"}
	case a.StreamBuffers < 2:
		return &ValidationError{Field: "audio.stream_buffers", Message: "must be at least 2"}
	case a.StreamBufferFrames < 256:
		return &ValidationError{Field: "audio.stream_buffer_frames", Message: "must be at least 256"}
	case a.OutputGain < 0:
		return &ValidationError{Field: "audio.output_gain", Message: "must not be negative"}
	case a.MasterVolume < 0:
		return &ValidationError{Field: "audio.master_volume", Message: "must not be negative"}
	case a.DopplerFactor < 0:
		return &ValidationError{Field: "audio.doppler_factor", Message: "must not be negative"}
	case a.SpeedOfSound <= 0:
		return &ValidationError{Field: "audio.speed_of_sound", Message: "must be positive"}
	case a.ReferenceDistance < 0:
		return &ValidationError{Field: "audio.reference_distance", Message: "must not be negative"}
	case a.Rolloff < 0:
		return &ValidationError{Field: "audio.rolloff", Message: "must not be negative"}
	}

	if _, err := logger.New(io.Discard, c.Logging.Level, c.Logging.Format); err != nil {
		return &ValidationError{Field: "logging", Message: err.Error()}
	}
	return nil
}

// ValidationError names the offending key.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
