package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	GCP     GCPConfig
	GCS     GCSConfig
	Media   MediaConfig
	Alerts  AlertsConfig
	Cron    CronConfig
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
	Env          string `envconfig:"SHOPSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPSTOCK_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SHOPSTOCK_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHOPSTOCK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPSTOCK_DB_DSN"`
	Driver string `envconfig:"SHOPSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"SHOPSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPSTOCK_REDIS_URL" required:"true"`
	Password     string        `envconfig:"SHOPSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPSTOCK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPSTOCK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPSTOCK_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AccessTokenTTL returns the access token lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOPSTOCK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"SHOPSTOCK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOPSTOCK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName     string `envconfig:"SHOPSTOCK_GCS_BUCKET_NAME" required:"true"`
	ProductsFolder string `envconfig:"SHOPSTOCK_GCS_PRODUCTS_FOLDER" default:"products"`
	SlipsFolder    string `envconfig:"SHOPSTOCK_GCS_SLIPS_FOLDER" default:"slips"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"SHOPSTOCK_MAX_UPLOAD_MB" default:"10"`
}

type AlertsConfig struct {
	// LowStockRatio is the fraction of current stock below which a
	// product is flagged low. The threshold is rounded up.
	LowStockRatio float64       `envconfig:"SHOPSTOCK_ALERT_LOW_STOCK_RATIO" default:"0.2"`
	CacheTTL      time.Duration `envconfig:"SHOPSTOCK_ALERT_CACHE_TTL" default:"60s"`
}

type CronConfig struct {
	StockAlertInterval      time.Duration `envconfig:"SHOPSTOCK_CRON_STOCK_ALERT_INTERVAL" default:"5m"`
	NotificationRetention   time.Duration `envconfig:"SHOPSTOCK_CRON_NOTIFICATION_RETENTION" default:"720h"`
	NotificationCleanupHour int           `envconfig:"SHOPSTOCK_CRON_NOTIFICATION_CLEANUP_HOUR" default:"3"`
	LockTTL                 time.Duration `envconfig:"SHOPSTOCK_CRON_LOCK_TTL" default:"10m"`
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
