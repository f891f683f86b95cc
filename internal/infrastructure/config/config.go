package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"

	minProductionSecretLen = 32
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	BcryptCost  int    `env:"BCRYPT_COST,  default=10"`

	Session   SessionConfig
	Bootstrap BootstrapConfig
	Audit     AuditConfig
	Mongo     MongoConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
}

type SessionConfig struct {
	Secret      string        `env:"SESSION_SECRET, required"`
	CookieName  string        `env:"SESSION_COOKIE,       default=authuser.session"`
	TTL         time.Duration `env:"SESSION_TTL,          default=12h"`
	RememberTTL time.Duration `env:"SESSION_REMEMBER_TTL, default=336h"`
}

type BootstrapConfig struct {
	RoleAttempts  int           `env:"BOOTSTRAP_ROLE_ATTEMPTS, default=5"`
	RoleBackoff   time.Duration `env:"BOOTSTRAP_ROLE_BACKOFF,  default=500ms"`
	AdminEmail    string        `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string        `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=accounts.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.StoreDriver != DriverMongo && c.StoreDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, c.StoreDriver))
	}
	if c.IsProduction() && len(c.Session.Secret) < minProductionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes in production", minProductionSecretLen))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost))
	}
	if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
		errs = append(errs, errors.New("BOOTSTRAP_ADMIN_PASSWORD is required when BOOTSTRAP_ADMIN_EMAIL is set"))
	}
	return errors.Join(errs...)
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load without the .env step, reading from the given lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
