// config предоставляет структуру конфигурации сервиса и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Password  PasswordConfig  `yaml:"password"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	DB        DBConfig        `yaml:"db"`
	Redis     RedisConfig     `yaml:"redis"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Request time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"5s"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// AuthConfig содержит параметры выпуска и валидации токенов.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"1h"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"720h"`
	Issuer          string        `yaml:"issuer"   env:"ISSUER" env-default:"auth-service"`
	Audience        []string      `yaml:"audience" env:"AUDIENCE" env-default:"madcrow-api"`
	// SingleSession — при выпуске новой пары отзывать прежние сессии аккаунта.
	SingleSession bool `yaml:"single_session" env:"SINGLE_SESSION" env-default:"false"`
}

// Схемы хэширования паролей.
const (
	// SchemeArgon2id — memory-hard хэш, схема по умолчанию.
	SchemeArgon2id = "argon2id"
	// SchemeSHA256 — SHA-256(password||salt); поддерживается только ради
	// совместимости с данными, оставшимися после миграции со старой схемы.
	SchemeSHA256 = "sha256"
)

// PasswordConfig — политика и схема хэширования паролей.
type PasswordConfig struct {
	// Scheme — "argon2id" (по умолчанию) или "sha256" (legacy).
	Scheme string `yaml:"scheme" env:"PASSWORD_SCHEME" env-default:"argon2id"`
	// SaltLength — длина соли в байтах.
	SaltLength int `yaml:"salt_length" env:"PASSWORD_SALT_LENGTH" env-default:"32"`
	// Параметры argon2id.
	Argon2Time    uint32 `yaml:"argon2_time" env:"ARGON2_TIME" env-default:"1"`
	Argon2MemoryK uint32 `yaml:"argon2_memory_kib" env:"ARGON2_MEMORY_KIB" env-default:"65536"`
	Argon2Threads uint8  `yaml:"argon2_threads" env:"ARGON2_THREADS" env-default:"4"`
	Argon2KeyLen  uint32 `yaml:"argon2_key_len" env:"ARGON2_KEY_LEN" env-default:"32"`
}

// RateLimitConfig — лимит попыток входа (фиксированное окно от первой попытки).
type RateLimitConfig struct {
	MaxAttempts int           `yaml:"max_attempts" env:"RATE_LIMIT_MAX_ATTEMPTS" env-default:"5"`
	Window      time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"60s"`
	// SuccessClears — успешный вход сбрасывает счётчик неудач identity.
	SuccessClears bool `yaml:"success_clears" env:"RATE_LIMIT_SUCCESS_CLEARS" env-default:"true"`
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DatabaseURL string `yaml:"db_url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — настройки подключения к Redis.
// RedisURL может быть пустым: тогда счётчики лимитера живут в памяти процесса,
// а кэш сессий отключён.
type RedisConfig struct {
	RedisURL string `yaml:"redis_url" env:"REDIS_URL"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ВАЖНО: после чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}
