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
	Remote        RemoteConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load builds the process-wide configuration exactly once; callers pass the
// resulting struct down explicitly instead of reaching for globals.
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
	Env          string `envconfig:"MARKETFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"MARKETFORGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MARKETFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARKETFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MARKETFORGE_DB_DSN"`
	Driver string `envconfig:"MARKETFORGE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MARKETFORGE_DB_HOST"`
	Port     int    `envconfig:"MARKETFORGE_DB_PORT" default:"5432"`
	User     string `envconfig:"MARKETFORGE_DB_USER"`
	Password string `envconfig:"MARKETFORGE_DB_PASSWORD"`
	Name     string `envconfig:"MARKETFORGE_DB_NAME"`
	SSLMode  string `envconfig:"MARKETFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARKETFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARKETFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARKETFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MARKETFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MARKETFORGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MARKETFORGE_REDIS_ADDR"`
	Password     string        `envconfig:"MARKETFORGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARKETFORGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARKETFORGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARKETFORGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARKETFORGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARKETFORGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARKETFORGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MARKETFORGE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MARKETFORGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MARKETFORGE_JWT_EXPIRATION_MINUTES" default:"60"`
	CookieName        string `envconfig:"MARKETFORGE_JWT_COOKIE_NAME" default:"mf_session"`
	CookieDomain      string `envconfig:"MARKETFORGE_JWT_COOKIE_DOMAIN"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MARKETFORGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MARKETFORGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MARKETFORGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MARKETFORGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MARKETFORGE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"MARKETFORGE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"MARKETFORGE_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"MARKETFORGE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"MARKETFORGE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"MARKETFORGE_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"MARKETFORGE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// RemoteConfig points proxy repositories at the API server.
type RemoteConfig struct {
	BaseURL string        `envconfig:"MARKETFORGE_REMOTE_BASE_URL"`
	Timeout time.Duration `envconfig:"MARKETFORGE_REMOTE_TIMEOUT" default:"30s"`
	Token   string        `envconfig:"MARKETFORGE_REMOTE_TOKEN"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MARKETFORGE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MARKETFORGE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
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
