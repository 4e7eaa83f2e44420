package shared

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	AppEnv      string `env:"APP_ENV"      envDefault:"prod"`
	HTTPAddr    string `env:"HTTP_ADDR"    envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9100"`
	DataDir     string `env:"DATA_DIR"     envDefault:"data"`

	MySQLDSN string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/expedia?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`

	// Redis is only dialled when both an address and a TTL are set.
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPass       string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB"          envDefault:"0"`
	CacheTTLSeconds int    `env:"CACHE_TTL_SECONDS" envDefault:"0"`

	JWTSecret       string `env:"JWT_SECRET"        envDefault:"dev-secret-change-me"`
	TokenTTLMinutes int    `env:"TOKEN_TTL_MINUTES" envDefault:"30"`

	DevelopmentMode  bool   `env:"DEVELOPMENT_MODE"   envDefault:"true"`
	StaticOTP        string `env:"STATIC_OTP"         envDefault:"123456"`
	OTPExpiryMinutes int    `env:"OTP_EXPIRY_MINUTES" envDefault:"10"`

	SMTPHost     string `env:"SMTP_HOST"     envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	FromEmail    string `env:"FROM_EMAIL"    envDefault:"noreply@expedia-inspired.com"`

	CORSOrigins           []string `env:"CORS_ORIGINS"            envDefault:"*" envSeparator:","`
	RateLimitRPS          float64  `env:"RATE_LIMIT_RPS"          envDefault:"20"`
	RateLimitBurst        int      `env:"RATE_LIMIT_BURST"        envDefault:"40"`
	RequestTimeoutSeconds int      `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if c.JWTSecret == devJWTSecret && !c.IsDev() {
		log.Warn().Msg("JWT_SECRET is the development default")
	}
	return c, nil
}

func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

func (c Config) TokenTTL() time.Duration { return time.Duration(c.TokenTTLMinutes) * time.Minute }

func (c Config) OTPExpiry() time.Duration { return time.Duration(c.OTPExpiryMinutes) * time.Minute }

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheEnabled reports whether detail lookups should go through redis.
func (c Config) CacheEnabled() bool { return c.RedisAddr != "" && c.CacheTTLSeconds > 0 }
