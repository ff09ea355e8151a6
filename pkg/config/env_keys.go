package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for variables without a tag.
const EnvPrefix = "padeliver"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "PADELIVER_APP_ENV"
	EnvPort   = "PADELIVER_APP_PORT"

	EnvDBDSN  = "PADELIVER_DB_DSN"
	EnvDBHost = "PADELIVER_DB_HOST"
	EnvDBUser = "PADELIVER_DB_USER"
	EnvDBName = "PADELIVER_DB_NAME"

	EnvRedisURL = "PADELIVER_REDIS_URL"

	EnvGCPProjectID = "PADELIVER_GCP_PROJECT_ID"
	EnvGCSBucket    = "PADELIVER_GCS_BUCKET_NAME"

	EnvProductsTopic        = "PADELIVER_PUBSUB_PRODUCTS_TOPIC"
	EnvProductsSubscription = "PADELIVER_PUBSUB_PRODUCTS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
