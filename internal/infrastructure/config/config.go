package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
}

// AuthConfig is the authentication and session lifetime surface.
type AuthConfig struct {
	SessionSecret string `env:"SESSION_SECRET"`
	// Scheme is the authentication scheme name stamped into every session.
	Scheme     string `env:"AUTHENTICATION_TYPE,  default=OptaTrack"`
	CookieName string `env:"SESSION_COOKIE_NAME,  default=optatrack_session"`
	// Secure cookies require TLS termination in front of the service.
	CookieSecure bool `env:"SESSION_COOKIE_SECURE, default=false"`

	DefaultLoginDuration    time.Duration `env:"DEFAULT_LOGIN_DURATION,     default=2h"`
	RememberMeLoginDuration time.Duration `env:"REMEMBER_ME_LOGIN_DURATION, default=720h"`

	InvalidCredentialsErrorMessage string `env:"INVALID_CREDENTIALS_MESSAGE, default=Invalid username or password"`
	DefaultPostSignInRedirectURL   string `env:"DEFAULT_POST_SIGNIN_REDIRECT_URL, default=/"`
	SignOutRedirectURL             string `env:"SIGNOUT_REDIRECT_URL, default=/account/login"`
	AutomaticRedirectAfterSignOut  bool   `env:"AUTOMATIC_REDIRECT_AFTER_SIGNOUT, default=false"`
}

// StoreConfig selects the credential store backend.
type StoreConfig struct {
	Driver string `env:"DB_DRIVER, default=mongo"` // mongo | postgres
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=account_service"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/account_service?sslmode=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	DB       int    `env:"REDIS_DB,   default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type RabbitMQConfig struct {
	// URL is optional; when empty, audit publishing is disabled.
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE, default=account.audit"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
