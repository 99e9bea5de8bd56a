package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. It is parsed once at startup and passed
// explicitly to collaborators; nothing reads the environment after Load.
type Config struct {
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":5000"`
	MetricsAddr string   `env:"METRICS_ADDR" envDefault:":9100"`
	ClientURL   string   `env:"CLIENT_URL" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:kin.db?cache=shared&mode=rwc"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"./public/images"`

	// Each token flavor carries its own secret so a leaked reset token can
	// never double as a session credential.
	LoginSecret  string        `env:"JWT_LOGIN_SECRET,notEmpty"`
	LoginTTL     time.Duration `env:"JWT_LOGIN_TTL" envDefault:"24h"`
	VerifySecret string        `env:"JWT_VERIFY_SECRET,notEmpty"`
	VerifyTTL    time.Duration `env:"JWT_VERIFY_TTL" envDefault:"10m"`
	ResetSecret  string        `env:"JWT_RESET_SECRET,notEmpty"`
	ResetTTL     time.Duration `env:"JWT_RESET_TTL" envDefault:"5m"`

	CodeLength int `env:"ACTIVATION_CODE_LENGTH" envDefault:"4"`

	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"EMAIL_HOST_USER"`
	SMTPPass string `env:"EMAIL_HOST_PASSWORD"`
	MailFrom string `env:"MAIL_FROM" envDefault:"no-reply@kinsust.org"`

	RateLimitPerHour int `env:"RATE_LIMIT_PER_HOUR" envDefault:"100"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
