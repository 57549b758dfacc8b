package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from .env, environment and flags.
type Config struct {
	RunAddress  string     `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI string     `env:"DATABASE_URI"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret        string        `env:"JWT_SECRET"`
	JWTSecretFile    string        `env:"JWT_SECRET_FILE"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	PickerSessionTTL time.Duration `env:"PICKER_SESSION_TTL" envDefault:"15m"`

	CodeEncryptionKey     string `env:"CODE_ENCRYPTION_KEY"`
	CodeEncryptionKeyFile string `env:"CODE_ENCRYPTION_KEY_FILE"`
	CodeHashCost          int    `env:"CODE_HASH_COST" envDefault:"10"`
	CodeExpiryHour        int    `env:"CODE_EXPIRY_HOUR" envDefault:"14"`
	CodeTimezone          string `env:"CODE_TIMEZONE" envDefault:"Local"`

	RedisURL string `env:"REDIS_URL"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"safepick.withdrawals"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIURL   string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`

	NotifyWorkers   int           `env:"NOTIFY_WORKERS" envDefault:"2"`
	NotifyQueueSize int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"64"`
	NotifyDedupTTL  time.Duration `env:"NOTIFY_DEDUP_TTL" envDefault:"72h"`

	PickerLoginLimit  int           `env:"PICKER_LOGIN_LIMIT" envDefault:"5"`
	PickerLoginWindow time.Duration `env:"PICKER_LOGIN_WINDOW" envDefault:"15m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// TraceExporter selects the span exporter: none, stdout or otlp.
	TraceExporter string `env:"TRACE_EXPORTER" envDefault:"none"`
	TraceEndpoint string `env:"TRACE_ENDPOINT"`

	// Location is resolved from CodeTimezone.
	Location *time.Location `env:"-"`
}

// Trace exporters accepted by TraceExporter.
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterOTLP   = "otlp"
)

const (
	minSecretLength = 32

	defaultNotifyWorkers    = 2
	defaultNotifyQueueSize  = 64
	defaultShutdownTimeout  = 10 * time.Second
	defaultPickerSessionTTL = 15 * time.Minute
	defaultSessionTTL       = 24 * time.Hour
	defaultCodeExpiryHour   = 14
)

// Load parses configuration from an optional .env file, environment variables and flags.
func Load() (*Config, error) {
	environ := make(map[string]string)

	dotenv, err := godotenv.Read()
	switch {
	case err == nil:
		maps.Copy(environ, dotenv)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read .env: %w", err)
	}
	maps.Copy(environ, env.ToMap(os.Environ()))

	return load(os.Args[1:], environ)
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("safepick", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	brokers := strings.Join(cfg.KafkaBrokers, ",")

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	flags.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL")
	flags.StringVar(&brokers, "kafka-brokers", brokers, "Comma separated Kafka seed brokers")
	flags.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for withdrawal events")
	flags.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of notification workers")
	flags.IntVar(&cfg.CodeHashCost, "code-hash-cost", cfg.CodeHashCost, "bcrypt cost for pickup codes")
	flags.StringVar(&cfg.TraceExporter, "trace-exporter", cfg.TraceExporter, "Span exporter: none, stdout or otlp")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	cfg.KafkaBrokers = splitList(brokers)

	var err error
	if cfg.JWTSecret, err = secretValue(cfg.JWTSecret, cfg.JWTSecretFile); err != nil {
		return nil, fmt.Errorf("read jwt secret file: %w", err)
	}
	if cfg.CodeEncryptionKey, err = secretValue(cfg.CodeEncryptionKey, cfg.CodeEncryptionKeyFile); err != nil {
		return nil, fmt.Errorf("read code encryption key file: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(cfg.CodeTimezone); err != nil {
		return nil, fmt.Errorf("invalid code timezone: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	if c.NotifyWorkers <= 0 {
		c.NotifyWorkers = defaultNotifyWorkers
	}
	if c.NotifyQueueSize <= 0 {
		c.NotifyQueueSize = defaultNotifyQueueSize
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.PickerSessionTTL <= 0 {
		c.PickerSessionTTL = defaultPickerSessionTTL
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
	c.TraceExporter = strings.ToLower(strings.TrimSpace(c.TraceExporter))
	if c.TraceExporter == "" {
		c.TraceExporter = TraceExporterNone
	}
}

func (c *Config) validate() error {
	if c.DatabaseURI == "" {
		return fmt.Errorf("database URI must be provided")
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if len(c.CodeEncryptionKey) < minSecretLength {
		return fmt.Errorf("code encryption key must be at least %d characters", minSecretLength)
	}
	if c.CodeExpiryHour < 0 || c.CodeExpiryHour > 23 {
		return fmt.Errorf("code expiry hour must be within 0..23, got %d", c.CodeExpiryHour)
	}
	if c.CodeHashCost < 4 || c.CodeHashCost > 31 {
		return fmt.Errorf("code hash cost must be within 4..31, got %d", c.CodeHashCost)
	}
	switch c.TraceExporter {
	case TraceExporterNone, TraceExporterStdout, TraceExporterOTLP:
	default:
		return fmt.Errorf("unknown trace exporter %q", c.TraceExporter)
	}
	return nil
}

func secretValue(value, file string) (string, error) {
	if file == "" {
		return value, nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
