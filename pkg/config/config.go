package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	TenantAPI    TenantAPIConfig
	Billing      BillingConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"HISOBLY_APP_ENV" required:"true"`
	Port         string `envconfig:"HISOBLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HISOBLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HISOBLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HISOBLY_DB_DSN"`
	Driver string `envconfig:"HISOBLY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HISOBLY_DB_HOST"`
	LegacyPort     int    `envconfig:"HISOBLY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HISOBLY_DB_USER"`
	LegacyPassword string `envconfig:"HISOBLY_DB_PASSWORD"`
	LegacyName     string `envconfig:"HISOBLY_DB_NAME"`
	LegacySSLMode  string `envconfig:"HISOBLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HISOBLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HISOBLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HISOBLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HISOBLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HISOBLY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HISOBLY_REDIS_ADDR"`
	Password     string        `envconfig:"HISOBLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"HISOBLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HISOBLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HISOBLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HISOBLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HISOBLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HISOBLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HISOBLY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HISOBLY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HISOBLY_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TenantAPIConfig points at the authoritative tenant collaborator.
type TenantAPIConfig struct {
	BaseURL string        `envconfig:"HISOBLY_TENANT_API_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"HISOBLY_TENANT_API_TIMEOUT" default:"10s"`
}

// BillingConfig carries subscription fallback knobs.
type BillingConfig struct {
	FallbackPeriodDays int `envconfig:"HISOBLY_BILLING_FALLBACK_PERIOD_DAYS" default:"30"`
}

// FallbackPeriod returns the paid-period length assumed after a payment
// succeeds, before the authoritative refetch lands.
func (b BillingConfig) FallbackPeriod() time.Duration {
	if b.FallbackPeriodDays <= 0 {
		return 0
	}
	return time.Duration(b.FallbackPeriodDays) * 24 * time.Hour
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"HISOBLY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"HISOBLY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
