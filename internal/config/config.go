// Package config loads schemacheck settings from the environment.
//
// Values are read from process environment variables, optionally seeded from
// a .env file in the working directory. Command-line flags take precedence
// over everything loaded here.
package config

import (
	"errors"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when a parsed value is out of range
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the environment driven settings
type Config struct {
	// MaxIdentifierLength of 0 selects 63, or the dialect limit when inspecting a database
	MaxIdentifierLength int    `env:"SCHEMACHECK_MAX_IDENTIFIER_LENGTH" validate:"gte=0,lte=1024"`
	Format              string `env:"SCHEMACHECK_FORMAT" envDefault:"text" validate:"oneof=text markdown json"`
	LogLevel            string `env:"SCHEMACHECK_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat           string `env:"SCHEMACHECK_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`

	// NoColor follows the no-color.org convention: any non-empty value disables color
	NoColor string `env:"NO_COLOR"`
}

// Color reports whether colored output is allowed
func (c *Config) Color() bool {
	return c.NoColor == ""
}

var validate = validator.New()

// Load reads the configuration from .env (when present) and the process environment
func Load() (*Config, error) {
	// A missing .env file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &cfg, nil
}
