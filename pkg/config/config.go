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
	Cart          CartConfig
	Checkout      CheckoutConfig
	Square        SquareConfig
	GCP           GCPConfig
	GCS           GCSConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"ROSSI_APP_ENV" required:"true"`
	Port         string `envconfig:"ROSSI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROSSI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROSSI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ROSSI_DB_DSN"`
	Driver string `envconfig:"ROSSI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROSSI_DB_HOST"`
	LegacyPort     int    `envconfig:"ROSSI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROSSI_DB_USER"`
	LegacyPassword string `envconfig:"ROSSI_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROSSI_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROSSI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROSSI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROSSI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROSSI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROSSI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROSSI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ROSSI_REDIS_ADDR"`
	Password     string        `envconfig:"ROSSI_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROSSI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROSSI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROSSI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROSSI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROSSI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROSSI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ROSSI_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ROSSI_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ROSSI_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ROSSI_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ROSSI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ROSSI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ROSSI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ROSSI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ROSSI_ARGON_KEY_LEN" default:"32"`
}

// CartConfig scopes the shopper cart session snapshot store. The TTL is the
// session boundary: an expired session starts with an empty cart.
type CartConfig struct {
	SessionTTL time.Duration `envconfig:"ROSSI_CART_SESSION_TTL" default:"4h"`
}

type CheckoutConfig struct {
	RedirectURL    string        `envconfig:"ROSSI_CHECKOUT_REDIRECT_URL" required:"true"`
	AskForShipping bool          `envconfig:"ROSSI_CHECKOUT_ASK_FOR_SHIPPING" default:"true"`
	InFlightTTL    time.Duration `envconfig:"ROSSI_CHECKOUT_IN_FLIGHT_TTL" default:"30s"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"ROSSI_SQUARE_ACCESS_TOKEN" required:"true"`
	LocationID  string `envconfig:"ROSSI_SQUARE_LOCATION_ID" required:"true"`
	Env         string `envconfig:"ROSSI_SQUARE_ENVIRONMENT" default:"sandbox"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ROSSI_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ROSSI_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ROSSI_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"ROSSI_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry time.Duration `envconfig:"ROSSI_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	PublicBaseURL   string        `envconfig:"ROSSI_GCS_PUBLIC_BASE_URL"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ROSSI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ROSSI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ROSSI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ROSSI_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ROSSI_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ROSSI_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROSSI_AUTO_MIGRATE" default:"false"`
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
