package config

import (
	"errors"
	"flag"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	// DevSecret секрет по умолчанию, допустим только в development.
	DevSecret = "dev-secret-key"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// ErrDefaultSecret секрет не задан явно вне development-окружения.
var ErrDefaultSecret = errors.New("SECRET_KEY must be set outside development")

type Config struct {
	// Хранилище: sqlite-файл или postgres:// URL
	DatabaseDSN string `env:"DATABASE_URL"`
	AuthSecret  string `env:"SECRET_KEY"`
	AppEnv      string `env:"APP_ENV"`

	// HTTP
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Файлы пользователей
	UploadDir   string `env:"UPLOAD_FOLDER"`
	UploadMaxMB int    `env:"UPLOAD_MAX_MB"`

	SessionTTL time.Duration `env:"SESSION_TTL"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// значения из env становятся значениями флагов по умолчанию
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (путь к sqlite или postgres://...)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи cookie сессии")
	flag.StringVar(&cfg.AppEnv, "env", cfg.AppEnv, "окружение: development | production")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера в виде host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "сервер за HTTPS (Secure cookie)")
	flag.StringVar(&cfg.UploadDir, "uploads", cfg.UploadDir, "корневая папка загрузок")
	flag.IntVar(&cfg.UploadMaxMB, "upload-max-mb", cfg.UploadMaxMB, "максимальный размер запроса загрузки, МБ")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "время жизни сессии")

	flag.Parse()

	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyDefaults() {
	if c.DatabaseDSN == "" {
		c.DatabaseDSN = "arquivista.db"
	}
	if c.AuthSecret == "" {
		c.AuthSecret = DevSecret
	}
	if c.AppEnv == "" {
		c.AppEnv = EnvDevelopment
	}
	// BaseURL: только "address:port" (без схемы и пути), иначе дефолт
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]*:\d{1,5}$`)
	if !hostPortRe.MatchString(c.BaseURL) {
		c.BaseURL = "localhost:8081"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.UploadMaxMB <= 0 {
		c.UploadMaxMB = 50
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
}

// IsDevelopment true для локального запуска.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// UploadMaxBytes лимит тела запроса загрузки.
func (c *Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxMB) << 20
}

// Validate проверяет, что конфигурация пригодна для запуска.
func (c *Config) Validate() error {
	if !c.IsDevelopment() && c.AuthSecret == DevSecret {
		return ErrDefaultSecret
	}
	return nil
}
