package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"

	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment"
	"github.com/input-output-hk/catalyst-forge-libs/itsm/attachment/attachmenttypes"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Host        string        `env:"SN_HOST,required=true"`
	Username    string        `env:"SN_USERNAME"`
	Password    string        `env:"SN_PASSWORD"`
	AccessToken string        `env:"SN_ACCESS_TOKEN"`
	Timeout     time.Duration `env:"SN_TIMEOUT,default=60s"`
	LogLevel    string        `env:"SN_LOG_LEVEL,default=info"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config loading failed: %w", err)
	}
	return cfg, nil
}

// Options converts the configuration into client options.
func (c Config) Options(logger *slog.Logger) []attachmenttypes.Option {
	opts := []attachmenttypes.Option{
		attachment.WithHost(c.Host),
		attachment.WithTimeout(c.Timeout),
		attachment.WithLogger(logger),
	}
	if c.Username != "" || c.Password != "" {
		opts = append(opts, attachment.WithBasicAuth(c.Username, c.Password))
	}
	if c.AccessToken != "" {
		opts = append(opts, attachment.WithBearerToken(c.AccessToken))
	}
	return opts
}

// NewLogger returns a text logger on stderr at the configured level.
// Unknown levels fall back to info.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
