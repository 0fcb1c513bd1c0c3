// Package config loads CLI configuration from an optional TOML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/parser"
)

// Environment variables that override file values.
const (
	EnvLogLevel  = "SHEETGRID_LOG_LEVEL"
	EnvLogFormat = "SHEETGRID_LOG_FORMAT"
	EnvEncoding  = "SHEETGRID_ENCODING"
)

var validate = newValidator()

// Config holds all CLI configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Decode DecodeConfig `toml:"decode"`
	Output OutputConfig `toml:"output"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn warning error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// DecodeConfig configures how sources are decoded.
type DecodeConfig struct {
	Mode string `toml:"mode" validate:"oneof=light standard verbose"`
	// Delimiter is a single character; empty means a comma.
	Delimiter string `toml:"delimiter" validate:"omitempty,len=1"`
	// Encoding forces the encoding of delimited text; empty means detect it.
	Encoding string `toml:"encoding"`
	// Candidates limits encoding detection to these names.
	Candidates    []string `toml:"candidates" validate:"dive,required"`
	MaxInputBytes int64    `toml:"max_input_bytes" validate:"min=0"`
	// DatePattern renders date cells with a d/M/y pattern instead of the
	// workbook's own format.
	DatePattern string `toml:"date_pattern" validate:"omitempty,date_pattern"`
}

// OutputConfig configures serialization.
type OutputConfig struct {
	Format string `toml:"format" validate:"oneof=json csv"`
	Pretty bool   `toml:"pretty"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Decode: DecodeConfig{
			Mode: "standard",
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("config load %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown keys:\n%s", strict.String())
		}
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvEncoding); v != "" {
		cfg.Decode.Encoding = v
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// DelimiterRune returns the configured delimiter, or 0 when unset.
func (c DecodeConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("date_pattern", validateDatePattern)
	return v
}

func validateDatePattern(fl validator.FieldLevel) bool {
	_, err := parser.FormatDate(time.Now(), fl.Field().String())
	return err == nil
}
