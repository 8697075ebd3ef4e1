package config

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Bvcott21/ai-store/internal/auth"
	pkgconfig "github.com/Bvcott21/ai-store/pkg/config"
	"github.com/Bvcott21/ai-store/pkg/database"
	"github.com/Bvcott21/ai-store/pkg/middleware"
	"github.com/Bvcott21/ai-store/pkg/tracing"
)

// ServiceName identifies the service in logs, metrics and traces.
const ServiceName = "store-auth"

const defaultJWTSecret = "change-this-to-a-secure-secret"

// minSecretLength is the shortest HS256 key accepted outside development.
const minSecretLength = 32

// Config holds all configuration for the auth service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost         string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort         int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser         string `env:"POSTGRES_USER" envDefault:"store"`
	PostgresPass         string `env:"POSTGRES_PASSWORD" envDefault:"store_secret"`
	PostgresDB           string `env:"POSTGRES_DB" envDefault:"store"`
	PostgresSSL          string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns           int32  `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns           int32  `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMin int    `env:"DB_MAX_CONN_LIFETIME_MINS" envDefault:"30"`
	DBMaxConnIdleTimeMin int    `env:"DB_MAX_CONN_IDLE_TIME_MINS" envDefault:"5"`
	SlowQueryThresholdMS int    `env:"SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Kafka. Empty disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Redis backs the login throttle.
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Login throttle
	LoginThrottleEnabled bool          `env:"LOGIN_THROTTLE_ENABLED" envDefault:"false"`
	LoginMaxAttempts     int64         `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginAttemptWindow   time.Duration `env:"LOGIN_ATTEMPT_WINDOW" envDefault:"15m"`

	// JWT
	JWTSecret string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"10h"`
	JWTIssuer string        `env:"JWT_ISSUER"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Per-IP limit on the public auth endpoints.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// PprofAllowedCIDRs enables /debug/pprof for these networks.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envSeparator:","`

	Tracing tracing.Config
}

// Load reads configuration from a .env file, if present, and the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithDotEnv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("load auth config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWTExpiry)
	}
	if c.LoginThrottleEnabled && (c.LoginMaxAttempts < 1 || c.LoginAttemptWindow <= 0) {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS and LOGIN_ATTEMPT_WINDOW must be positive when the login throttle is enabled")
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if !c.IsDevelopment() {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < minSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters long, got %d", minSecretLength, len(c.JWTSecret))
		}
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Postgres returns the pool configuration.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMin) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMin) * time.Minute,
	}
}

// SlowQueryThreshold is the duration above which queries are logged.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMS) * time.Millisecond
}

// Redis returns the client configuration for the login throttle.
func (c *Config) Redis() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.Host = c.RedisHost
	rc.Port = c.RedisPort
	rc.Password = c.RedisPassword
	rc.DB = c.RedisDB
	return rc
}

// Token returns the codec configuration.
func (c *Config) Token() auth.TokenConfig {
	return auth.TokenConfig{
		Secret: c.JWTSecret,
		Expiry: c.JWTExpiry,
		Issuer: c.JWTIssuer,
	}
}

// CORS returns the middleware configuration.
func (c *Config) CORS() middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = c.CORSAllowedOrigins
	cors.Environment = c.Environment
	return cors
}

// RateLimit returns the per-IP limiter configuration.
func (c *Config) RateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{RPS: c.RateLimitRPS, Burst: c.RateLimitBurst}
}

// TracingConfig fills the service identity into the tracing settings.
func (c *Config) TracingConfig(version string) tracing.Config {
	tc := c.Tracing
	tc.ServiceName = ServiceName
	tc.ServiceVersion = version
	tc.Environment = c.Environment
	return tc
}
