package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret          string        `env:"JWT_SECRET,required"`
	JWTIssuer          string        `env:"JWT_ISSUER" envDefault:"attendo"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"12h"`
	RestrictedTokenTTL time.Duration `env:"RESTRICTED_TOKEN_TTL" envDefault:"1h"`

	// Office zone as a fixed offset east of UTC; 330 is IST (+05:30).
	OfficeUTCOffsetMinutes int `env:"OFFICE_UTC_OFFSET_MINUTES" envDefault:"330"`
	OfficeCutoffHour       int `env:"OFFICE_CUTOFF_HOUR" envDefault:"19"`
	OfficeCutoffMinute     int `env:"OFFICE_CUTOFF_MINUTE" envDefault:"0"`

	ApprovalWindow time.Duration `env:"APPROVAL_WINDOW" envDefault:"1h"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
