package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Weather       WeatherConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SKYCAST_APP_ENV" required:"true"`
	Port         string `envconfig:"SKYCAST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SKYCAST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKYCAST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SKYCAST_DB_DSN"`
	Driver string `envconfig:"SKYCAST_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SKYCAST_DB_HOST"`
	Port     int    `envconfig:"SKYCAST_DB_PORT" default:"5432"`
	User     string `envconfig:"SKYCAST_DB_USER"`
	Password string `envconfig:"SKYCAST_DB_PASSWORD"`
	Name     string `envconfig:"SKYCAST_DB_NAME"`
	SSLMode  string `envconfig:"SKYCAST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SKYCAST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SKYCAST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SKYCAST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKYCAST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SKYCAST_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SKYCAST_REDIS_ADDR"`
	Password     string        `envconfig:"SKYCAST_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKYCAST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKYCAST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKYCAST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKYCAST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKYCAST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKYCAST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SKYCAST_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SKYCAST_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SKYCAST_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SKYCAST_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SKYCAST_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SKYCAST_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SKYCAST_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SKYCAST_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SKYCAST_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SKYCAST_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SKYCAST_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SKYCAST_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SKYCAST_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SKYCAST_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SKYCAST_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type WeatherConfig struct {
	APIKey            string        `envconfig:"SKYCAST_WEATHER_API_KEY" required:"true"`
	BaseURL           string        `envconfig:"SKYCAST_WEATHER_BASE_URL" default:"https://api.weatherapi.com/v1"`
	RequestTimeout    time.Duration `envconfig:"SKYCAST_WEATHER_REQUEST_TIMEOUT" default:"10s"`
	IncludeAirQuality bool          `envconfig:"SKYCAST_WEATHER_INCLUDE_AQI" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SKYCAST_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
