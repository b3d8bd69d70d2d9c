// Package config loads the fit engine settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Worker    WorkerConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	RateLimit       int
	RateWindow      time.Duration
}

type DatabaseConfig struct {
	// Driver is the database/sql driver: pgx or postgres (lib/pq).
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// URL wins over the individual fields when set.
	URL string
}

// DSN returns a URL connection string. Both drivers accept it.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	Enabled   bool
	ReportTTL time.Duration
}

type AuthConfig struct {
	JWTSecret     string
	Issuer        string
	TokenDuration time.Duration
}

type WorkerConfig struct {
	QueueSize int
}

type SchedulerConfig struct {
	Enabled bool
	// Schedule is a six-field cron spec, seconds first.
	Schedule string
}

type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads an optional .env file, then the environment, on top of defaults.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// A missing .env is normal outside local development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 5*time.Second)
	v.SetDefault("server.ratelimit", 100)
	v.SetDefault("server.ratewindow", time.Minute)

	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "kanso_user")
	v.SetDefault("database.name", "kanso_db")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.reportttl", 6*time.Hour)

	v.SetDefault("auth.issuer", "kanso-fit-engine")
	v.SetDefault("auth.tokenduration", 24*time.Hour)

	v.SetDefault("worker.queuesize", 100)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.schedule", "0 0 6 * * 1")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")

	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSLMODE")

	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.enabled", "REDIS_ENABLED")

	v.BindEnv("auth.jwtsecret", "JWT_SECRET")
	v.BindEnv("auth.tokenduration", "JWT_TTL")

	v.BindEnv("worker.queuesize", "PROGRESS_QUEUE_SIZE")

	v.BindEnv("scheduler.enabled", "REPORT_SCHEDULER_ENABLED")
	v.BindEnv("scheduler.schedule", "REPORT_SCHEDULE")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtsecret is required (JWT_SECRET)")
	}
	if c.IsProduction() && len(c.Auth.JWTSecret) < 32 {
		return errors.New("auth.jwtsecret must be at least 32 characters in production")
	}
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "") {
		return errors.New("database.url or database host and name are required")
	}
	if c.Database.Driver != "pgx" && c.Database.Driver != "postgres" {
		return fmt.Errorf("database.driver must be pgx or postgres, got %q", c.Database.Driver)
	}
	if c.Worker.QueueSize <= 0 {
		return errors.New("worker.queuesize must be positive")
	}
	if c.Server.RateLimit <= 0 {
		return errors.New("server.ratelimit must be positive")
	}
	return nil
}
