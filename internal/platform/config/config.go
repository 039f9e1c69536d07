// Package config loads process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIKey         = "GOOGLE_API_KEY"
	EnvModel          = "GEMINI_MODEL"
	EnvBaseURL        = "GEMINI_BASE_URL"
	EnvTimeout        = "GEMINI_TIMEOUT"
	EnvRequestsPerMin = "GEMINI_RPM"
	EnvPort           = "PORT"
	EnvLogLevel       = "LOG_LEVEL"
)

// Defaults used when the corresponding variable is unset.
const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultTimeout        = 60 * time.Second
	DefaultRequestsPerMin = 15
	DefaultPort           = "8080"
)

// ErrMissingAPIKey is returned when GOOGLE_API_KEY is not set.
var ErrMissingAPIKey = errors.New("api key is missing")

// MissingAPIKeyMessage is shown to the user when the process stops for a missing key.
const MissingAPIKeyMessage = "API Key is missing. Set " + EnvAPIKey + " in your environment."

// UserMessage returns the text an entrypoint prints for a Load error.
func UserMessage(err error) string {
	if errors.Is(err, ErrMissingAPIKey) {
		return MissingAPIKeyMessage
	}
	return err.Error()
}

// StartupError is a configuration failure that must stop the process before serving.
type StartupError struct {
	Key string
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// Config holds settings shared by every request. It is never mutated after Load.
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string // optional Gemini endpoint override
	Timeout        time.Duration
	RequestsPerMin int
	Port           string
	LogLevel       slog.Level
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env not found; using system environment variables")
	}
	return FromLookup(os.LookupEnv)
}

// LoadWithoutKey is Load for commands that never call the model service.
func LoadWithoutKey() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrMissingAPIKey) {
		return cfg, nil
	}
	return cfg, err
}

// FromLookup builds a Config from the given lookup function.
// A missing API key still returns the partially filled Config alongside the error.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		APIKey:  get(EnvAPIKey, ""),
		Model:   get(EnvModel, DefaultModel),
		BaseURL: get(EnvBaseURL, ""),
		Port:    get(EnvPort, DefaultPort),
	}

	timeout, err := time.ParseDuration(get(EnvTimeout, DefaultTimeout.String()))
	if err != nil || timeout < 0 {
		return nil, &StartupError{Key: EnvTimeout, Err: fmt.Errorf("invalid duration %q", get(EnvTimeout, ""))}
	}
	cfg.Timeout = timeout

	rpm, err := strconv.Atoi(get(EnvRequestsPerMin, strconv.Itoa(DefaultRequestsPerMin)))
	if err != nil || rpm < 0 {
		return nil, &StartupError{Key: EnvRequestsPerMin, Err: fmt.Errorf("invalid value %q", get(EnvRequestsPerMin, ""))}
	}
	cfg.RequestsPerMin = rpm

	if err := cfg.LogLevel.UnmarshalText([]byte(get(EnvLogLevel, "info"))); err != nil {
		return nil, &StartupError{Key: EnvLogLevel, Err: err}
	}

	if cfg.APIKey == "" {
		return cfg, &StartupError{Key: EnvAPIKey, Err: ErrMissingAPIKey}
	}
	return cfg, nil
}
