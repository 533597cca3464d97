package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present and no other file is given.
const DefaultEnvFile = ".env"

// Config carries every setting of the CLI and the HTTP API. Values come from
// the process environment, optionally seeded from a .env file.
type Config struct {
	Provider string `env:"LLM_PROVIDER"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	ClaudeModel     string `env:"CLAUDE_MODEL"`
	ClaudeBaseURL   string `env:"CLAUDE_BASE_URL"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	Timeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	MaxRetries int           `env:"LLM_MAX_RETRIES" envDefault:"2"`

	// Extra overview denylist phrases for non-plumbing categories.
	OverviewDenylist []string `env:"HOMEFIX_OVERVIEW_DENYLIST" envSeparator:"|"`

	Server ServerConfig
	Log    LogConfig
}

type ServerConfig struct {
	Addr          string `env:"HOMEFIX_ADDR" envDefault:":8080"`
	Mode          string `env:"HOMEFIX_MODE" envDefault:"release"` // release | debug | test
	MaxImageBytes int64  `env:"HOMEFIX_MAX_IMAGE_BYTES" envDefault:"10485760"`
}

type LogConfig struct {
	Level      string `env:"HOMEFIX_LOG_LEVEL" envDefault:"info"`
	Format     string `env:"HOMEFIX_LOG_FORMAT" envDefault:"console"` // console | json
	File       string `env:"HOMEFIX_LOG_FILE"`
	MaxSize    int    `env:"HOMEFIX_LOG_MAX_SIZE" envDefault:"100"` // megabytes
	MaxBackups int    `env:"HOMEFIX_LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAge     int    `env:"HOMEFIX_LOG_MAX_AGE" envDefault:"28"` // days
}

// Load reads envFile (or ./.env when envFile is empty and the file exists)
// and parses the environment into a Config. Variables already set in the
// process win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFile = DefaultEnvFile
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Provider) {
	case "", "claude", "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER: %s (supported: claude, openai, gemini)", c.Provider))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.Timeout))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("LLM_MAX_RETRIES must not be negative, got %d", c.MaxRetries))
	}
	switch c.Server.Mode {
	case "release", "debug", "test":
	default:
		errs = append(errs, fmt.Errorf("unsupported HOMEFIX_MODE: %s", c.Server.Mode))
	}
	if c.Server.MaxImageBytes <= 0 {
		errs = append(errs, fmt.Errorf("HOMEFIX_MAX_IMAGE_BYTES must be positive, got %d", c.Server.MaxImageBytes))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported HOMEFIX_LOG_FORMAT: %s", c.Log.Format))
	}
	return errors.Join(errs...)
}
