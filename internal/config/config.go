// Package config loads splitledger settings from defaults, an optional TOML file,
// a local .env file and SPLITLEDGER_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds the passcode gate settings. Auth is off when neither
// Passcode nor PasscodeHash is set.
type AuthConfig struct {
	Passcode     string        `mapstructure:"passcode"`
	PasscodeHash string        `mapstructure:"passcode_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

// Enabled reports whether a passcode is configured.
func (a AuthConfig) Enabled() bool {
	return a.Passcode != "" || a.PasscodeHash != ""
}

// AMQPConfig holds broker settings. Events are not published when URL is empty.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const envPrefix = "SPLITLEDGER"

// Load reads configuration from file and env. Env var overrides use prefix
// SPLITLEDGER_, e.g. SPLITLEDGER_DATABASE_PATH.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "./data/splitledger.db")
	v.SetDefault("auth.passcode", "")
	v.SetDefault("auth.passcode_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "splitledger")
	v.SetDefault("amqp.queue", "ledger_events")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgPath := os.Getenv(envPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigType("toml")
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return c, nil
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "shutdown timeout must be positive")
	}

	if c.Database.Path == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if c.Auth.Enabled() {
		if len(c.Auth.JWTSecret) < 16 {
			problems = append(problems, "jwt secret must be at least 16 characters when a passcode is set")
		}
		if c.Auth.TokenTTL <= 0 {
			problems = append(problems, "token ttl must be positive")
		}
	}

	if c.AMQP.URL != "" {
		if u, err := url.Parse(c.AMQP.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQP.Queue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of %v", c.Log.Level, validLevels))
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Log.Format)) {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be one of %v", c.Log.Format, validFormats))
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n- " + strings.Join(problems, "\n- "))
	}
	return nil
}
