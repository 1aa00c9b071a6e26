package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	DBDSN       string `envconfig:"DB_DSN" required:"true"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	ServerURL   string `envconfig:"SERVER_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	MigrationsAuto bool `envconfig:"MIGRATIONS_AUTO" default:"true"`

	Redis RedisConfig `envconfig:"REDIS"`
	Jobs  JobsConfig  `envconfig:"JOBS"`
	SMTP  SMTPConfig  `envconfig:"SMTP"`
	HTTP  HTTPConfig  `envconfig:"HTTP"`

	// Вложенные структуры читаются с префиксом: REDIS_ADDR, JOBS_MAX_ATTEMPTS, SMTP_HOST, HTTP_CORS_ORIGINS

	// Пустой токен отключает бота и уведомления в Telegram
	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`
}

type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0"`
}

type JobsConfig struct {
	Prefix            string        `envconfig:"PREFIX" default:"shelf:scheduler"`
	PollInterval      time.Duration `envconfig:"POLL_INTERVAL" default:"1s"`
	VisibilityTimeout time.Duration `envconfig:"VISIBILITY_TIMEOUT" default:"5m"`
	MaxAttempts       int           `envconfig:"MAX_ATTEMPTS" default:"5"`
}

type SMTPConfig struct {
	Host     string `envconfig:"HOST"`
	Port     int    `envconfig:"PORT" default:"587"`
	User     string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	From     string `envconfig:"FROM" default:"no-reply@shelf.nu"`
}

type HTTPConfig struct {
	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"*"`
	RateLimitRPS   float64  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"20"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Jobs.MaxAttempts < 1 {
		return fmt.Errorf("JOBS_MAX_ATTEMPTS must be positive, got %d", c.Jobs.MaxAttempts)
	}
	if c.Jobs.PollInterval <= 0 {
		return fmt.Errorf("JOBS_POLL_INTERVAL must be positive")
	}
	if c.HTTP.RateLimitRPS <= 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT_RPS must be positive")
	}
	return nil
}

// IsProduction проверяет окружение
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// EmailEnabled проверяет что SMTP настроен
func (c *Config) EmailEnabled() bool {
	return c.SMTP.Host != ""
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
