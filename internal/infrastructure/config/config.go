package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`

	JWT      JWTConfig
	Tokens   TokenConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Backend  BackendConfig
	Admin    AdminConfig
}

type JWTConfig struct {
	Secret   string `env:"JWT_SECRET, required"`
	Issuer   string `env:"JWT_ISSUER,   default=attireme-auth"`
	Audience string `env:"JWT_AUDIENCE, default=attireme"`
}

type TokenConfig struct {
	AccessTTL        time.Duration `env:"ACCESS_TOKEN_TTL,        default=60m"`
	RefreshTTL       time.Duration `env:"REFRESH_TOKEN_TTL,       default=168h"`
	RefreshRetention int           `env:"REFRESH_TOKEN_RETENTION, default=5"`
	ConfirmationTTL  time.Duration `env:"CONFIRMATION_TOKEN_TTL,  default=72h"`
	ResetTTL         time.Duration `env:"RESET_TOKEN_TTL,         default=24h"`
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=attireme_auth"`
	AppName        string        `env:"MONGO_APP_NAME,        default=attireme-auth"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

// SMTPConfig leaves Host empty to log emails instead of sending them.
type SMTPConfig struct {
	Host        string        `env:"SMTP_HOST"`
	Port        int           `env:"SMTP_PORT,         default=587"`
	User        string        `env:"SMTP_USER"`
	Pass        string        `env:"SMTP_PASS"`
	From        string        `env:"SMTP_FROM,         default=no-reply@attireme.com"`
	DisplayName string        `env:"SMTP_DISPLAY_NAME, default=AttireMe"`
	Timeout     time.Duration `env:"EMAIL_TIMEOUT,     default=10s"`
}

// BackendConfig leaves URL empty to disable confirmation notifications.
type BackendConfig struct {
	URL        string        `env:"BACKEND_URL"`
	Timeout    time.Duration `env:"BACKEND_TIMEOUT,     default=5s"`
	MaxRetries uint64        `env:"BACKEND_MAX_RETRIES, default=3"`
	Workers    int           `env:"NOTIFY_WORKERS,      default=4"`
}

type AdminConfig struct {
	Email            string `env:"ADMIN_EMAIL,             default=admin@attireme.com"`
	UserName         string `env:"ADMIN_USERNAME,          default=admin"`
	Password         string `env:"ADMIN_PASSWORD,          default=Admin123!"`
	BootstrapOnStart bool   `env:"ADMIN_BOOTSTRAP_ON_START, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// MustLoad is Load that panics on error.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	case StorePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("POSTGRES_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Tokens.RefreshRetention < 1 {
		return fmt.Errorf("REFRESH_TOKEN_RETENTION must be at least 1")
	}
	return nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool { return c.Env == "production" }
