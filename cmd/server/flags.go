package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	storageDriverPostgres = "postgres"
	storageDriverMemory   = "memory"
)

// config хранит конфигурацию сервера. Значения берутся из окружения, флаги имеют приоритет.
type config struct {
	Port          string `env:"SERVER_PORT"    envDefault:"8080"`
	CertFile      string `env:"TLS_CERT_FILE"`
	KeyFile       string `env:"TLS_KEY_FILE"`
	DatabaseDSN   string `env:"DATABASE_DSN"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	JWTSecret     string `env:"JWT_SECRET"`
	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT"     envDefault:"json"`
	Timezone      string `env:"TIMEZONE"       envDefault:"UTC"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	LockTTL       time.Duration `env:"LOCK_TTL"       envDefault:"10s"`

	MinioEndpoint string `env:"MINIO_ENDPOINT"`
	MinioUser     string `env:"MINIO_USER"`
	MinioPassword string `env:"MINIO_PASSWORD"`
	MinioBucket   string `env:"MINIO_BUCKET"   envDefault:"vacation-reports"`
	MinioUseSSL   bool   `env:"MINIO_USE_SSL"  envDefault:"false"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// TLSEnabled сообщает, что заданы сертификат и ключ.
func (c *config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// parseFlags читает окружение, затем флаги из args и проверяет результат.
func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "Порт HTTP(S)-сервера (env: SERVER_PORT)")
	fs.StringVar(&cfg.CertFile, "cert-file", cfg.CertFile, "Путь к файлу TLS-сертификата (env: TLS_CERT_FILE)")
	fs.StringVar(&cfg.KeyFile, "key-file", cfg.KeyFile, "Путь к файлу TLS-ключа (env: TLS_KEY_FILE)")
	fs.StringVar(&cfg.DatabaseDSN, "database-dsn", cfg.DatabaseDSN,
		"Строка подключения к базе данных (env: DATABASE_DSN)")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver,
		"Хранилище заявок: postgres или memory (env: STORAGE_DRIVER)")
	fs.BoolVar(&cfg.RunMigrations, "migrate", cfg.RunMigrations, "Применять миграции при старте (env: RUN_MIGRATIONS)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Секрет проверки JWT (env: JWT_SECRET)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Уровень логирования (env: LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Формат логов: json или console (env: LOG_FORMAT)")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "Часовой пояс текущей даты (env: TIMEZONE)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr,
		"Адрес Redis для распределенных блокировок (env: REDIS_ADDR)")
	fs.DurationVar(&cfg.LockTTL, "lock-ttl", cfg.LockTTL, "Время жизни блокировки в Redis (env: LOCK_TTL)")
	fs.StringVar(&cfg.MinioEndpoint, "minio-endpoint", cfg.MinioEndpoint,
		"Адрес MinIO для архива отчетов (env: MINIO_ENDPOINT)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("ошибка разбора флагов: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case storageDriverPostgres:
		if c.DatabaseDSN == "" {
			return errors.New("не указана строка подключения к БД (--database-dsn или DATABASE_DSN)")
		}
	case storageDriverMemory:
	default:
		return fmt.Errorf("неизвестное хранилище '%s', ожидается postgres или memory", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("не указан секрет JWT (--jwt-secret или JWT_SECRET)")
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("TLS требует и сертификат (TLS_CERT_FILE), и ключ (TLS_KEY_FILE)")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("неизвестный часовой пояс '%s': %w", c.Timezone, err)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("время жизни блокировки должно быть положительным, получено %s", c.LockTTL)
	}
	return nil
}
