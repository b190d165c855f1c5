package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	DBDSN       string `mapstructure:"DB_DSN"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`

	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`
	SessionCookieSecure bool          `mapstructure:"SESSION_COOKIE_SECURE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	TelegramToken       string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramStaffChatID int64  `mapstructure:"TELEGRAM_STAFF_CHAT_ID"`

	Location *time.Location `mapstructure:"TIMEZONE"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminName     string `mapstructure:"ADMIN_NAME"`

	MigrationsOnStart bool `mapstructure:"MIGRATIONS_ON_START"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:   getenv("ENV"),
		DBDSN:         getenv("DB_DSN"),
		HTTPAddr:      getenv("HTTP_ADDR"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		AdminEmail:    getenv("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
		AdminName:     getenv("ADMIN_NAME"),
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error
	if cfg.SessionTTL, err = durationVar(getenv, "SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.SessionCookieSecure, err = boolVar(getenv, "SESSION_COOKIE_SECURE", cfg.IsProduction()); err != nil {
		return nil, err
	}
	if cfg.MigrationsOnStart, err = boolVar(getenv, "MIGRATIONS_ON_START", true); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(getenv("REDIS_DB")); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("parse REDIS_DB: %w", err)
		}
	}

	if v := strings.TrimSpace(getenv("TELEGRAM_STAFF_CHAT_ID")); v != "" {
		if cfg.TelegramStaffChatID, err = strconv.ParseInt(v, 10, 64); err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_STAFF_CHAT_ID: %w", err)
		}
	}

	tz := strings.TrimSpace(getenv("TIMEZONE"))
	if tz == "" {
		tz = "UTC"
	}
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", tz, err)
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// NotificationsEnabled - заданы и токен бота, и чат персонала
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != "" && c.TelegramStaffChatID != 0
}

// SeedAdmin - нужно ли создавать администратора при старте
func (c *Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func boolVar(getenv func(string) string, key string, def bool) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
