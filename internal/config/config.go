package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration

	ClientURL string
	UploadDir string

	Log      string
	LogLevel string
	Env      string // dev|prod
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	accessTTL, err := time.ParseDuration(def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "15m"))
	if err != nil {
		return nil, fmt.Errorf("некорректный ACCESS_TOKEN_EXPIRY: %w", err)
	}
	refreshTTL, err := time.ParseDuration(def(os.Getenv("REFRESH_TOKEN_EXPIRY"), "168h"))
	if err != nil {
		return nil, fmt.Errorf("некорректный REFRESH_TOKEN_EXPIRY: %w", err)
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTokenTTL:   accessTTL,
		RefreshTokenTTL:  refreshTTL,

		ClientURL: def(os.Getenv("CLIENT_URL"), "http://localhost:5173"),
		UploadDir: def(os.Getenv("UPLOAD_DIR"), "uploads"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
// Пустые JWT-секреты — фатальны: подпись токенов без секрета невозможна,
// и обнаружить это нужно на старте процесса, а не на первом запросе.
func (c *Config) Validate() (warnings []string, err error) {
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("неполная конфигурация БД (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET не задан")
	}
	if strings.TrimSpace(c.JWTRefreshSecret) == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET не задан")
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		warnings = append(warnings, "JWT_SECRET и JWT_REFRESH_SECRET совпадают — секреты должны быть независимыми")
	}

	if c.Port == "" {
		warnings = append(warnings, "PORT пуст, используется 8080")
	}

	return warnings, nil
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
