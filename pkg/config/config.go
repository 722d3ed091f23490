package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Idempotency  IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WAREMAP_APP_ENV" required:"true"`
	Port         string `envconfig:"WAREMAP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"WAREMAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WAREMAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WAREMAP_DB_DSN"`

	Host     string `envconfig:"WAREMAP_DB_HOST"`
	Port     int    `envconfig:"WAREMAP_DB_PORT" default:"5432"`
	User     string `envconfig:"WAREMAP_DB_USER"`
	Password string `envconfig:"WAREMAP_DB_PASSWORD"`
	Name     string `envconfig:"WAREMAP_DB_NAME"`
	SSLMode  string `envconfig:"WAREMAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WAREMAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WAREMAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WAREMAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WAREMAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a Postgres DSN from discrete fields when one was not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either WAREMAP_DB_DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"WAREMAP_REDIS_URL"`
	Address      string        `envconfig:"WAREMAP_REDIS_ADDR"`
	Password     string        `envconfig:"WAREMAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"WAREMAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WAREMAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WAREMAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WAREMAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WAREMAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WAREMAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The API can
// run without one; idempotency replay protection is skipped in that case.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WAREMAP_AUTO_MIGRATE" default:"false"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"WAREMAP_IDEMPOTENCY_TTL" default:"24h"`
}
