package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	perrors "github.com/pkg/errors"
	"go.uber.org/zap"

	applog "printshop/internal/log"
)

// DevJWTSecret is the development signing key. Production refuses to start with it.
const DevJWTSecret = "dev-secret-change-me"

var ErrWeakJWTSecret = perrors.New("JWT_SECRET must be set to a non-default value in production")

type Config struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"5000"`

	DBDSN string `envconfig:"DB_DSN" default:"file:printshop.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	UploadDir   string   `envconfig:"UPLOAD_DIR" default:"./uploads"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`

	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"300"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	BodyLimitMB     int           `envconfig:"BODY_LIMIT_MB" default:"12"`

	QPay QPay `envconfig:"QPAY"`
}

// QPay fields are read as QPAY_<FIELD> (split_words avoids envconfig's
// unprefixed fallback lookup, so QPAY_USERNAME never reads $USERNAME).
type QPay struct {
	BaseURL        string        `split_words:"true" default:"https://merchant.qpay.mn/v2"`
	Username       string        `split_words:"true"`
	Password       string        `split_words:"true"`
	InvoiceCode    string        `split_words:"true"`
	CallbackURL    string        `split_words:"true" default:"http://localhost:5000/api/payments/qpay/callback"`
	CallbackSecret string        `split_words:"true"`
	Timeout        time.Duration `split_words:"true" default:"15s"`
}

func (c Config) Addr() string { return c.Host + ":" + c.Port }

func (c Config) Production() bool { return c.Env == "production" }

// Validate rejects settings that are only safe outside production.
func (c Config) Validate() error {
	if c.Production() && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return ErrWeakJWTSecret
	}
	return nil
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LogSummary prints the effective non-secret settings.
func (c Config) LogSummary() {
	applog.L().Info("config loaded",
		zap.String("env", c.Env),
		zap.String("addr", c.Addr()),
		zap.String("db_dsn", c.DBDSN),
		zap.Strings("cors_origins", c.CORSOrigins),
		zap.String("upload_dir", c.UploadDir),
		zap.String("qpay_base_url", c.QPay.BaseURL),
		zap.Bool("qpay_callback_signed", c.QPay.CallbackSecret != ""),
	)
}
