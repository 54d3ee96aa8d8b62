package config

import (
	"fmt"
	"log"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	StoreDriver string `mapstructure:"STORE_DRIVER"`
	DBDSN       string `mapstructure:"DB_DSN"`

	HTTPAddr  string `mapstructure:"HTTP_ADDR"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`

	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	// Прокси, которым доверяем X-Forwarded-For. Пусто: ключ всегда по адресу соединения
	TrustedProxies []netip.Prefix `mapstructure:"TRUSTED_PROXIES"`

	RabbitMQURL        string        `mapstructure:"RABBITMQ_URL"`
	EventsQueue        string        `mapstructure:"EVENTS_QUEUE"`
	OutboxPollInterval time.Duration `mapstructure:"OUTBOX_POLL_INTERVAL"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения и проверяет её
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:   getEnv("ENV", "development"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		StoreDriver:   getEnv("STORE_DRIVER", StoreDriverPostgres),
		DBDSN:         os.Getenv("DB_DSN"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		EventsQueue:   getEnv("EVENTS_QUEUE", "slot_events"),
	}

	var err error
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.TrustedProxies, err = getPrefixes("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}
	if cfg.OutboxPollInterval, err = getDuration("OUTBOX_POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}

	// Проверяем обязательные поля
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

// RateLimitEnabled проверяет настроен ли Redis для ограничения запросов
func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != "" && c.RateLimitPerMinute > 0
}

// BotEnabled проверяет задан ли токен Telegram бота
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
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

// getPrefixes разбирает список через запятую: CIDR (10.0.0.0/8) или отдельные адреса
func getPrefixes(key string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, item := range strings.Split(os.Getenv(key), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", key, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
