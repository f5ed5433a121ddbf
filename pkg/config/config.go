package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the backend.
const EnvPrefix = "LIVPLUS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "LIVPLUS_DB_DSN"
	EnvDBHost = "LIVPLUS_DB_HOST"
	EnvDBUser = "LIVPLUS_DB_USER"
	EnvDBName = "LIVPLUS_DB_NAME"
)

var requiredLegacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	CORS          CORSConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	AdminSeed     AdminSeedConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env      string `envconfig:"LIVPLUS_APP_ENV" required:"true"`
	Port     string `envconfig:"LIVPLUS_APP_PORT" required:"true"`
	LogLevel string `envconfig:"LIVPLUS_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LIVPLUS_DB_DSN"`
	Driver string `envconfig:"LIVPLUS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LIVPLUS_DB_HOST"`
	LegacyPort     int    `envconfig:"LIVPLUS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LIVPLUS_DB_USER"`
	LegacyPassword string `envconfig:"LIVPLUS_DB_PASSWORD"`
	LegacyName     string `envconfig:"LIVPLUS_DB_NAME"`
	LegacySSLMode  string `envconfig:"LIVPLUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LIVPLUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LIVPLUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LIVPLUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LIVPLUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LIVPLUS_REDIS_URL" required:"true"`
	Password     string        `envconfig:"LIVPLUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"LIVPLUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LIVPLUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LIVPLUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LIVPLUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LIVPLUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LIVPLUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LIVPLUS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LIVPLUS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LIVPLUS_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"LIVPLUS_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the redis session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LIVPLUS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LIVPLUS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LIVPLUS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LIVPLUS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LIVPLUS_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LIVPLUS_CORS_ALLOWED_ORIGINS" default:"*"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LIVPLUS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LIVPLUS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LIVPLUS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LIVPLUS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LIVPLUS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LIVPLUS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LIVPLUS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LIVPLUS_AUTO_MIGRATE" default:"false"`
}

// AdminSeedConfig bootstraps the first admin account. Admin access is a role
// claim on the user record, never an email comparison in handlers.
type AdminSeedConfig struct {
	Email       string `envconfig:"LIVPLUS_ADMIN_SEED_EMAIL"`
	Password    string `envconfig:"LIVPLUS_ADMIN_SEED_PASSWORD"`
	DisplayName string `envconfig:"LIVPLUS_ADMIN_SEED_DISPLAY_NAME" default:"Store Admin"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"LIVPLUS_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	CatalogTopic        string `envconfig:"LIVPLUS_PUBSUB_CATALOG_TOPIC" default:"livplus-catalog-events"`
	CatalogSubscription string `envconfig:"LIVPLUS_PUBSUB_CATALOG_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"LIVPLUS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"LIVPLUS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"LIVPLUS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

// PollInterval returns the publisher poll cadence.
func (o OutboxConfig) PollInterval() time.Duration {
	if o.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMS) * time.Millisecond
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
	for _, name := range requiredLegacyDBEnvVars {
		if legacyValues[name] == "" {
			missing = append(missing, name)
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
