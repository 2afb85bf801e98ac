package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Database Database
	Redis    Redis
	Bot      Bot
	Reminder Reminder
	Log      Log
}

type App struct {
	Name    string `env:"APP_NAME"    envDefault:"home_maintenance"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
}

type HTTP struct {
	ListenAddress        string        `env:"HTTP_LISTEN_ADDRESS"         envDefault:":8080"`
	ProbeListenAddress   string        `env:"HTTP_PROBE_LISTEN_ADDRESS"   envDefault:":8081"`
	MetricsListenAddress string        `env:"HTTP_METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	ReadHeaderTimeout    time.Duration `env:"HTTP_READ_HEADER_TIMEOUT"    envDefault:"5s"`
	ShutdownTimeout      time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"       envDefault:"10s"`
	LogFieldMaxLen       int           `env:"HTTP_LOG_FIELD_MAX_LEN"      envDefault:"4096"`
}

// Database по умолчанию локальный файл SQLite, DB_DRIVER=pgx для PostgreSQL.
type Database struct {
	Driver          string        `env:"DB_DRIVER"            envDefault:"sqlite"`
	DSN             string        `env:"DB_DSN,notEmpty"      envDefault:"file:home_maintenance.db?_pragma=busy_timeout(5000)" json:"-"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"    envDefault:"5"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// Redis необязателен: без адреса напоминания работают в процессе сервиса.
type Redis struct {
	Address  string `env:"REDIS_ADDRESS"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD" json:"-"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

// Bot необязателен: без токена уведомления только логируются.
type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

type Reminder struct {
	Hour          int           `env:"REMINDER_HOUR"           envDefault:"8"`
	Timezone      string        `env:"REMINDER_TIMEZONE"       envDefault:"Local"`
	CheckInterval time.Duration `env:"REMINDER_CHECK_INTERVAL" envDefault:"1h"`
	DedupTTL      time.Duration `env:"REMINDER_DEDUP_TTL"      envDefault:"72h"`
}

// Location часовой пояс напоминаний.
func (r Reminder) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%q): %w", r.Timezone, err)
	}

	return loc, nil
}

type Log struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.Database.Driver)
	}

	if c.Reminder.Hour < 0 || c.Reminder.Hour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be within [0, 23], got %d", c.Reminder.Hour)
	}

	if _, err := c.Reminder.Location(); err != nil {
		return err
	}

	return nil
}
