package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth  AuthConfig
	Page  PageConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret      string        `env:"JWT_SECRET, required"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=1h"`
	CookieSecure   bool          `env:"COOKIE_SECURE, default=false"`
	AdminOverride  bool          `env:"AUTHZ_ADMIN_OVERRIDE, default=false"`
	// AdminUsernames sign up with the admin role.
	AdminUsernames []string `env:"ADMIN_USERNAMES"`
}

type PageConfig struct {
	DefaultSize int `env:"PAGE_SIZE_DEFAULT, default=10"`
	MaxSize     int `env:"PAGE_SIZE_MAX,     default=100"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=board"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,       default=localhost:6379"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,         default=0"`
	APIKeyTTL   time.Duration `env:"APIKEY_CACHE_TTL, default=10m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Page.MaxSize < 1 {
		errs = append(errs, errors.New("PAGE_SIZE_MAX must be at least 1"))
	}
	if c.Page.DefaultSize < 1 || c.Page.DefaultSize > c.Page.MaxSize {
		errs = append(errs, fmt.Errorf("PAGE_SIZE_DEFAULT must be within [1, %d]", c.Page.MaxSize))
	}
	if c.Redis.APIKeyTTL <= 0 {
		errs = append(errs, errors.New("APIKEY_CACHE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
