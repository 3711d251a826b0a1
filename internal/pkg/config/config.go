package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	devJWTSecret = "dev-insecure-jwt-secret"
)

// Config holds all application configuration. It is built once at startup
// and handed to the components that need it.
type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"prod"`
	AppHost string `env:"APP_HOST" envDefault:"localhost"`
	AppPort string `env:"APP_PORT" envDefault:"4000"`

	DBDriver      string `env:"DB_DRIVER"`
	DBHost        string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort        string `env:"DB_PORT"`
	DBUser        string `env:"DB_USER" envDefault:"poscloud"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME"`
	DBDSN         string `env:"DB_DSN"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	CacheEnabled  bool          `env:"CACHE_ENABLED" envDefault:"true"`
	CacheHost     string        `env:"CACHE_HOST" envDefault:"localhost"`
	CachePort     string        `env:"CACHE_PORT" envDefault:"6379"`
	CachePassword string        `env:"CACHE_PASSWORD"`
	PlanCacheTTL  time.Duration `env:"PLAN_CACHE_TTL" envDefault:"5m"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"poscloud"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	TrialDays int           `env:"TRIAL_DAYS" envDefault:"14"`

	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"*"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"120"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	// TrustedProxies lists the proxy IPs or CIDRs whose forwarding headers
	// are believed. Empty means the socket address is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	MetricsUser     string `env:"METRICS_USER" envDefault:"admin"`
	MetricsPassword string `env:"METRICS_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	loadEnvFile()
	return parse(env.Options{})
}

// LoadFrom builds a Config from an explicit variable map and ignores the
// process environment. Used by tests and tooling.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver == "" {
		c.DBDriver = DriverMySQL
		if c.IsDev() {
			c.DBDriver = DriverSQLite
		}
	}

	switch c.DBDriver {
	case DriverMySQL:
		if c.DBPort == "" {
			c.DBPort = "3306"
		}
	case DriverPostgres:
		if c.DBPort == "" {
			c.DBPort = "5432"
		}
	case DriverSQLite:
		if c.DBName == "" {
			c.DBName = "poscloud.db"
		}
		// There is no versioned migration set for sqlite.
		c.DBAutoMigrate = true
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBName == "" {
		c.DBName = "poscloud"
	}

	if c.JWTSecret == "" {
		if !c.IsDev() {
			return errors.New("JWT_SECRET is required outside of dev mode")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.TrialDays <= 0 {
		c.TrialDays = 14
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.AppEnv == EnvDev
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func (c *Config) CacheAddr() string {
	return fmt.Sprintf("%s:%s", c.CacheHost, c.CachePort)
}

// DSN returns the gorm data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	case DriverSQLite:
		return c.DBName
	default:
		// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
}

// MigrateURL returns the golang-migrate database URL for the configured driver.
func (c *Config) MigrateURL() string {
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	default:
		return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	}
}

func loadEnvFile() {
	// Look for .env file in project root
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/poscloud to project root
		"../../../.env", // Fallback for deeper nesting
	}
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		// Variables already set in the process environment win.
		if err := godotenv.Load(envFile); err == nil {
			return
		}
	}
}
