package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL         = "https://qs-dev.idi.ntnu.no/api"
	defaultHTTPTimeout    = 15 * time.Second
	defaultWatchInterval  = 30 * time.Second
	defaultMigrationsPath = "migrations"
)

type Config struct {
	TelegramToken    string        `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN            string        `mapstructure:"DB_DSN"`
	Environment      string        `mapstructure:"ENV"`
	APIURL           string        `mapstructure:"QS_API_URL"`
	HTTPTimeout      time.Duration `mapstructure:"QS_HTTP_TIMEOUT"`
	LegacyCookieAuth bool          `mapstructure:"QS_LEGACY_COOKIE_AUTH"`
	WatchInterval    time.Duration `mapstructure:"WATCH_INTERVAL"`
	MigrationsPath   string        `mapstructure:"MIGRATIONS_PATH"`
}

// LoadConfig читает .env (если есть) и переменные окружения
func LoadConfig() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv собирает конфиг из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    getEnv("ENV", "development"),
		APIURL:         getEnv("QS_API_URL", defaultAPIURL),
		MigrationsPath: getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
	}

	var err error
	if cfg.HTTPTimeout, err = getDuration("QS_HTTP_TIMEOUT", defaultHTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.WatchInterval, err = getDuration("WATCH_INTERVAL", defaultWatchInterval); err != nil {
		return nil, err
	}
	if cfg.LegacyCookieAuth, err = getBool("QS_LEGACY_COOKIE_AUTH", false); err != nil {
		return nil, err
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("QS_HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}
	if cfg.WatchInterval < 0 {
		return nil, fmt.Errorf("WATCH_INTERVAL must not be negative, got %s", cfg.WatchInterval)
	}

	return cfg, nil
}

// WatchEnabled включён ли фоновый опрос очереди
func (c *Config) WatchEnabled() bool {
	return c.WatchInterval > 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
