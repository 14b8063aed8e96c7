package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// SKYCAST_* tags so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "SKYCAST_APP_ENV"
	EnvPort       = "SKYCAST_APP_PORT"
	EnvDBDSN      = "SKYCAST_DB_DSN"
	EnvDBHost     = "SKYCAST_DB_HOST"
	EnvDBUser     = "SKYCAST_DB_USER"
	EnvDBName     = "SKYCAST_DB_NAME"
	EnvRedisURL   = "SKYCAST_REDIS_URL"
	EnvJWTSecret  = "SKYCAST_JWT_SECRET"
	EnvJWTIssuer  = "SKYCAST_JWT_ISSUER"
	EnvJWTExpMins = "SKYCAST_JWT_EXPIRATION_MINUTES"
	EnvWeatherKey = "SKYCAST_WEATHER_API_KEY"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
