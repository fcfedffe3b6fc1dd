// Package config loads and validates the application configuration from an
// optional yaml file merged with environment variables (environment wins).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"subwatch/pkg/serrors"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure. It contains the
// monitored domains, notification channel credentials, database connection
// settings and the operational HTTP server settings.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Monitor contains the sweep loop settings
	Monitor struct {
		// Domains is the list of domains to watch; comma-separated in the environment
		Domains []string `env:"DOMAINS" env-separator:"," yaml:"domains"`
		// IntervalSeconds is the pause between sweeps, in seconds
		IntervalSeconds int `env:"MONITORING_INTERVAL" env-default:"3600" yaml:"intervalSeconds"`
		// PacingDelay is the courtesy delay between launching per-domain fetches within one sweep
		PacingDelay time.Duration `env:"PACING_DELAY" env-default:"2s" yaml:"pacingDelay"`
		// FetchTimeout bounds one crt.sh query
		FetchTimeout time.Duration `env:"FETCH_TIMEOUT" env-default:"30s" yaml:"fetchTimeout"`
	} `yaml:"monitor"`

	// Telegram enables the Telegram channel when both fields are set
	Telegram struct {
		// BotToken is the Telegram bot API token
		BotToken string `env:"TELEGRAM_BOT_TOKEN" yaml:"botToken"`
		// ChatID is the destination chat
		ChatID string `env:"TELEGRAM_CHAT_ID" yaml:"chatId"`
	} `yaml:"telegram"`

	// Discord enables the Discord channel when the webhook URL is set
	Discord struct {
		// WebhookURL is the operator-supplied webhook
		WebhookURL string `env:"DISCORD_WEBHOOK_URL" yaml:"webhookUrl"`
	} `yaml:"discord"`

	// Ops contains the operational HTTP server (metrics, pprof, health) settings
	Ops struct {
		// Addr is the address and port the ops server will listen on
		Addr string `env:"OPS_ADDR" env-default:":9090" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"OPS_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"OPS_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"OPS_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"OPS_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"ops"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"subwatch" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"subwatch" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"subwatch" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// GracefulShutdownTimeout is the maximum duration to wait for in-flight work during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Interval returns the sweep interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// TelegramEnabled reports whether the Telegram channel is fully configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// DiscordEnabled reports whether the Discord channel is configured.
func (c *Config) DiscordEnabled() bool {
	return c.Discord.WebhookURL != ""
}

// Validate checks the fatal startup constraints: at least one domain, a
// positive interval, and at least one enabled channel.
func (c *Config) Validate() error {
	if len(c.Monitor.Domains) == 0 {
		return serrors.With(serrors.ErrConfig, "no domains configured, set DOMAINS")
	}
	if c.Monitor.IntervalSeconds <= 0 {
		return serrors.With(serrors.ErrConfig,
			"monitoring interval must be positive, got %d", c.Monitor.IntervalSeconds)
	}
	if !c.TelegramEnabled() && !c.DiscordEnabled() {
		return serrors.With(serrors.ErrConfig,
			"no notification channel configured, "+
				"set TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID or DISCORD_WEBHOOK_URL")
	}

	return nil
}

// normalize trims and lower-cases the configured domains and drops empty
// entries (a trailing comma in DOMAINS would otherwise produce one).
func (c *Config) normalize() {
	domains := make([]string, 0, len(c.Monitor.Domains))
	for _, d := range c.Monitor.Domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	c.Monitor.Domains = domains
}

// Load reads the configuration from the yaml file at configPath merged with
// environment variables. A missing file is not an error: the environment
// alone is used. The returned config is normalized and validated.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
