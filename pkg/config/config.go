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
	FeatureFlags  FeatureFlagsConfig
	Bunny         BunnyConfig
	Cron          CronConfig
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
	Env          string `envconfig:"EDUPLATFORM_APP_ENV" required:"true"`
	Port         string `envconfig:"EDUPLATFORM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"EDUPLATFORM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"EDUPLATFORM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"EDUPLATFORM_DB_DSN"`
	Driver string `envconfig:"EDUPLATFORM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"EDUPLATFORM_DB_HOST"`
	LegacyPort     int    `envconfig:"EDUPLATFORM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"EDUPLATFORM_DB_USER"`
	LegacyPassword string `envconfig:"EDUPLATFORM_DB_PASSWORD"`
	LegacyName     string `envconfig:"EDUPLATFORM_DB_NAME"`
	LegacySSLMode  string `envconfig:"EDUPLATFORM_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"EDUPLATFORM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"EDUPLATFORM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"EDUPLATFORM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"EDUPLATFORM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"EDUPLATFORM_REDIS_URL" required:"true"`
	Password     string        `envconfig:"EDUPLATFORM_REDIS_PASSWORD"`
	DB           int           `envconfig:"EDUPLATFORM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"EDUPLATFORM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"EDUPLATFORM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"EDUPLATFORM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"EDUPLATFORM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"EDUPLATFORM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"EDUPLATFORM_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"EDUPLATFORM_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"EDUPLATFORM_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"EDUPLATFORM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"EDUPLATFORM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"EDUPLATFORM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"EDUPLATFORM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"EDUPLATFORM_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"EDUPLATFORM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"EDUPLATFORM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"EDUPLATFORM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"EDUPLATFORM_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"EDUPLATFORM_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"EDUPLATFORM_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"EDUPLATFORM_AUTO_MIGRATE" default:"false"`
}

// BunnyConfig carries every setting the Bunny Stream integration needs. The
// signing pieces (LibraryID + StreamSecret) may legitimately be absent: playback
// then degrades to unsigned URLs, which callers must surface, not hide.
type BunnyConfig struct {
	LibraryID      string        `envconfig:"EDUPLATFORM_BUNNY_LIBRARY_ID"`
	APIKey         string        `envconfig:"EDUPLATFORM_BUNNY_API_KEY"`
	StreamSecret   string        `envconfig:"EDUPLATFORM_BUNNY_STREAM_SECRET"`
	APIBaseURL     string        `envconfig:"EDUPLATFORM_BUNNY_API_BASE_URL" default:"https://video.bunnycdn.com"`
	DeliveryHost   string        `envconfig:"EDUPLATFORM_BUNNY_DELIVERY_HOST" default:"iframe.mediadelivery.net"`
	TokenTTL       time.Duration `envconfig:"EDUPLATFORM_BUNNY_TOKEN_TTL" default:"2h"`
	RequestTimeout time.Duration `envconfig:"EDUPLATFORM_BUNNY_REQUEST_TIMEOUT" default:"15s"`
	UploadTimeout  time.Duration `envconfig:"EDUPLATFORM_BUNNY_UPLOAD_TIMEOUT" default:"10m"`
}

// SigningReady reports whether signed playback URLs can be produced.
func (b BunnyConfig) SigningReady() bool {
	return strings.TrimSpace(b.LibraryID) != "" && strings.TrimSpace(b.StreamSecret) != ""
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"EDUPLATFORM_CRON_INTERVAL" default:"24h"`
	NotificationRetentionDays int           `envconfig:"EDUPLATFORM_CRON_NOTIFICATION_RETENTION_DAYS" default:"90"`
	OrphanVideoGraceHours     int           `envconfig:"EDUPLATFORM_CRON_ORPHAN_VIDEO_GRACE_HOURS" default:"24"`
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
