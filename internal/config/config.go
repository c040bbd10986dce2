// Package config loads token-rotator settings.
//
// Values are layered, later sources winning: built-in defaults, a .env file
// (never overriding variables already in the environment), environment
// variables and finally command-line flags. Every key can be set through
// TOKEN_ROTATOR_<KEY> with dashes turned into underscores; the instance also
// honours GITLAB_INSTANCE.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInstance       = "https://gitlab.com"
	DefaultLifetime       = 365
	DefaultFreshness      = 14
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "console"
	DefaultRateLimit      = 10.0
	DefaultKeyringService = "GitLab Token Rotator"

	EnvPrefix      = "TOKEN_ROTATOR"
	defaultEnvFile = ".env"
)

// Flag and key names.
const (
	KeyInstance       = "instance"
	KeyLifetime       = "lifetime"
	KeyFreshness      = "freshness"
	KeyLogLevel       = "log-level"
	KeyLogFormat      = "log-format"
	KeyLogFile        = "log-file"
	KeyRateLimit      = "rate-limit"
	KeyKeyringService = "keyring-service"
	KeyEnvFile        = "env-file"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings for one run, merged from flags, environment and
// an optional .env file.
type Config struct {
	// GitLab instance base URL, normalised (scheme present, no trailing slash)
	Instance string `validate:"required,url"`

	// Days until a rotated token expires
	Lifetime int `validate:"min=1"`

	// Tokens younger than this many days are left alone
	Freshness int `validate:"min=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=console json"`

	// Diagnostic log destination; empty means stderr
	LogFile string

	// Maximum GitLab API requests per second
	RateLimit float64 `validate:"gt=0"`

	// Keyring service label the session credential is stored under
	KeyringService string `validate:"required"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Instance:       DefaultInstance,
		Lifetime:       DefaultLifetime,
		Freshness:      DefaultFreshness,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		RateLimit:      DefaultRateLimit,
		KeyringService: DefaultKeyringService,
	}
}

// RegisterFlags defines every configuration flag on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := NewConfig()

	fs.StringP(KeyInstance, "i", d.Instance, "GitLab instance URL")
	fs.IntP(KeyLifetime, "l", d.Lifetime, "Days until a rotated token expires")
	fs.IntP(KeyFreshness, "f", d.Freshness, "Tokens created within this many days are considered fresh")
	fs.String(KeyLogLevel, d.LogLevel, "Diagnostic log level (debug, info, warn, error)")
	fs.String(KeyLogFormat, d.LogFormat, "Diagnostic log format (console, json)")
	fs.String(KeyLogFile, "", "Write the diagnostic log to this file instead of stderr")
	fs.Float64(KeyRateLimit, d.RateLimit, "Maximum GitLab API requests per second")
	fs.String(KeyKeyringService, d.KeyringService, "Keyring service name for the stored access token")
	fs.String(KeyEnvFile, "", "Load environment variables from this file (default .env)")
}

// Load resolves the configuration from defaults, the env file, the
// environment and the flags registered on fs.
func Load(fs *pflag.FlagSet) (*Config, error) {
	envFile, _ := fs.GetString(KeyEnvFile)
	if err := LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	d := NewConfig()
	v.SetDefault(KeyInstance, d.Instance)
	v.SetDefault(KeyLifetime, d.Lifetime)
	v.SetDefault(KeyFreshness, d.Freshness)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyRateLimit, d.RateLimit)
	v.SetDefault(KeyKeyringService, d.KeyringService)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyInstance, EnvPrefix+"_INSTANCE", "GITLAB_INSTANCE"); err != nil {
		return nil, fmt.Errorf("bind instance env: %w", err)
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	c := &Config{
		Instance:       NormalizeInstance(v.GetString(KeyInstance)),
		Lifetime:       v.GetInt(KeyLifetime),
		Freshness:      v.GetInt(KeyFreshness),
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:      strings.ToLower(v.GetString(KeyLogFormat)),
		LogFile:        v.GetString(KeyLogFile),
		RateLimit:      v.GetFloat64(KeyRateLimit),
		KeyringService: v.GetString(KeyKeyringService),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDotEnv exports the variables of path into the process environment
// without overriding ones already set. An empty path means ".env" in the
// working directory, which may be absent.
func LoadDotEnv(path string) error {
	optional := path == ""
	if optional {
		path = defaultEnvFile
	}

	err := godotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case optional && errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("load env file %s: %w", path, err)
	}
}

// Validate checks field constraints. Failures wrap ErrInvalid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// NormalizeInstance adds an https scheme when none is given and strips
// trailing slashes, so the same instance always maps to the same keyring
// entry.
func NormalizeInstance(instance string) string {
	instance = strings.TrimSpace(instance)
	if instance == "" {
		return ""
	}
	if !strings.Contains(instance, "://") {
		instance = "https://" + instance
	}
	return strings.TrimRight(instance, "/")
}
