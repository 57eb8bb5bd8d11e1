package config

// EnvPrefix namespaces every environment variable the process reads.
const EnvPrefix = "MARKETFORGE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "MARKETFORGE_APP_ENV"
	EnvPort       = "MARKETFORGE_APP_PORT"
	EnvDBDSN      = "MARKETFORGE_DB_DSN"
	EnvDBHost     = "MARKETFORGE_DB_HOST"
	EnvDBUser     = "MARKETFORGE_DB_USER"
	EnvDBName     = "MARKETFORGE_DB_NAME"
	EnvRedisURL   = "MARKETFORGE_REDIS_URL"
	EnvJWTSecret  = "MARKETFORGE_JWT_SECRET"
	EnvJWTIssuer  = "MARKETFORGE_JWT_ISSUER"
	EnvJWTExpMins = "MARKETFORGE_JWT_EXPIRATION_MINUTES"
	EnvRemoteURL  = "MARKETFORGE_REMOTE_BASE_URL"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
