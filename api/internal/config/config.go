package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/subosito/gotenv"
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	Port          string `env:"PORT" envDefault:"3000"`
	OfficialEmail string `env:"OFFICIAL_EMAIL" envDefault:"uday0990.be23@chitkara.edu.in"`

	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-flash-latest"`
	GeminiBaseURL   string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiTransport string        `env:"GEMINI_TRANSPORT" envDefault:"rest"`
	AITimeout       time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`

	MaxFibonacci int   `env:"MAX_FIBONACCI_COUNT" envDefault:"10000"`
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	WebhookURL       string `env:"WEBHOOK_URL"`
}

// Load reads .env files (when present) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(dotenv ...string) (*Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, f := range dotenv {
		if err := gotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is empty"))
	}
	if strings.TrimSpace(c.OfficialEmail) == "" {
		errs = append(errs, errors.New("OFFICIAL_EMAIL is empty"))
	}
	switch strings.ToLower(strings.TrimSpace(c.GeminiTransport)) {
	case "rest", "http", "sdk", "genai":
	default:
		errs = append(errs, fmt.Errorf("GEMINI_TRANSPORT %q: use rest or sdk", c.GeminiTransport))
	}
	if c.AITimeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	if c.MaxFibonacci <= 0 {
		errs = append(errs, errors.New("MAX_FIBONACCI_COUNT must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string { return ":" + c.Port }
