package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	GCP      GCPConfig
	GCS      GCSConfig
	PubSub   PubSubConfig
	Checkout CheckoutConfig
	Features FeaturesConfig
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
	Env          string `envconfig:"PADELIVER_APP_ENV" required:"true"`
	Port         string `envconfig:"PADELIVER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PADELIVER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PADELIVER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PADELIVER_DB_DSN"`
	Driver string `envconfig:"PADELIVER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PADELIVER_DB_HOST"`
	LegacyPort     int    `envconfig:"PADELIVER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PADELIVER_DB_USER"`
	LegacyPassword string `envconfig:"PADELIVER_DB_PASSWORD"`
	LegacyName     string `envconfig:"PADELIVER_DB_NAME"`
	LegacySSLMode  string `envconfig:"PADELIVER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PADELIVER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PADELIVER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PADELIVER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PADELIVER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PADELIVER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PADELIVER_REDIS_ADDR"`
	Password     string        `envconfig:"PADELIVER_REDIS_PASSWORD"`
	DB           int           `envconfig:"PADELIVER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PADELIVER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PADELIVER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PADELIVER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PADELIVER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PADELIVER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PADELIVER_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"PADELIVER_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PADELIVER_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"PADELIVER_GCS_BUCKET_NAME" required:"true"`
}

type PubSubConfig struct {
	ProductsTopic        string `envconfig:"PADELIVER_PUBSUB_PRODUCTS_TOPIC" required:"true"`
	ProductsSubscription string `envconfig:"PADELIVER_PUBSUB_PRODUCTS_SUBSCRIPTION" required:"true"`
	EventsTopic          string `envconfig:"PADELIVER_PUBSUB_EVENTS_TOPIC" default:"padeliver-domain-events"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"PADELIVER_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type FeaturesConfig struct {
	AutoMigrate   bool `envconfig:"PADELIVER_AUTO_MIGRATE" default:"false"`
	PublishEvents bool `envconfig:"PADELIVER_PUBLISH_EVENTS" default:"true"`
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
