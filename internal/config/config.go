// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/objbuf/internal/logger"
	"github.com/Faultbox/objbuf/internal/model"
	"github.com/Faultbox/objbuf/pkg/encoding"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all converter settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Input   InputConfig   `yaml:"input"`
	Build   BuildConfig   `yaml:"build"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// InputConfig holds mesh input settings.
type InputConfig struct {
	Encoding string `yaml:"encoding"` // see encoding.Names
}

// BuildConfig holds tangent-space build settings.
type BuildConfig struct {
	TangentPolicy string `yaml:"tangent_policy"` // fallback or passthrough
}

// OutputConfig holds stdout settings.
type OutputConfig struct {
	Quiet bool `yaml:"quiet"` // suppress passthrough lines and the summary
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "warn",
			LogFile: "",
		},
		Input: InputConfig{
			Encoding: encoding.UTF8,
		},
		Build: BuildConfig{
			TangentPolicy: string(model.TangentFallback),
		},
		Output: OutputConfig{
			Quiet: false,
		},
	}
}

// Validate checks that every enumerated setting has a known value.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: logging.level %q (want one of %s)",
			ErrInvalidConfig, c.Logging.Level, strings.Join(logger.Levels(), ", "))
	}
	if !encoding.Valid(c.Input.Encoding) {
		return fmt.Errorf("%w: input.encoding %q (want one of %s)",
			ErrInvalidConfig, c.Input.Encoding, strings.Join(encoding.Names(), ", "))
	}
	if _, err := model.ParseTangentPolicy(c.Build.TangentPolicy); err != nil {
		return fmt.Errorf("%w: build.tangent_policy: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TangentPolicy returns the parsed build policy. Call Validate first.
func (c *Config) TangentPolicy() model.TangentPolicy {
	p, _ := model.ParseTangentPolicy(c.Build.TangentPolicy)
	return p
}
