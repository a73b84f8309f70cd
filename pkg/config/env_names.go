package config

// EnvPrefix is handed to envconfig.Process; the explicit envconfig tags
// below already carry it, so Process only uses it for fallback lookups.
const EnvPrefix = "SHOPSTOCK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "SHOPSTOCK_APP_ENV"
	EnvPort                   = "SHOPSTOCK_APP_PORT"
	EnvLogLevel               = "SHOPSTOCK_LOG_LEVEL"
	EnvDBDSN                  = "SHOPSTOCK_DB_DSN"
	EnvDBHost                 = "SHOPSTOCK_DB_HOST"
	EnvDBUser                 = "SHOPSTOCK_DB_USER"
	EnvDBName                 = "SHOPSTOCK_DB_NAME"
	EnvRedisURL               = "SHOPSTOCK_REDIS_URL"
	EnvJWTSecret              = "SHOPSTOCK_JWT_SECRET"
	EnvJWTIssuer              = "SHOPSTOCK_JWT_ISSUER"
	EnvJWTExpMins             = "SHOPSTOCK_JWT_EXPIRATION_MINUTES"
	EnvGCPProjectID           = "SHOPSTOCK_GCP_PROJECT_ID"
	EnvGCSBucket              = "SHOPSTOCK_GCS_BUCKET_NAME"
	EnvLowStockRatio          = "SHOPSTOCK_ALERT_LOW_STOCK_RATIO"
	EnvCronStockAlertSchedule = "SHOPSTOCK_CRON_STOCK_ALERT_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
