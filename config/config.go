package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Delivery DeliveryConfig
	Payment  PaymentConfig
	CamPay   CamPayConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DeliveryConfig struct {
	BaseFeeXAF    int64
	FeePerKmXAF   int64
	MaxRadiusKm   float64
	ServiceFeePct float64
}

// PaymentConfig carries the orchestration timings. Tests override these
// with millisecond values.
type PaymentConfig struct {
	UssdGraceDelay time.Duration
	PollInterval   time.Duration
	Deadline       time.Duration
}

// CamPayConfig for mobile-money collection via the CamPay API.
type CamPayConfig struct {
	BaseURL     string
	AppUsername string
	AppPassword string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envOr("PORT", "8088"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DB_DSN", "chopwell:chopwell@tcp(localhost:3306)/chopwell?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  envOr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envOr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "chopwell",
		},
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envIntOr("REDIS_DB", 0),
		},
		Delivery: DeliveryConfig{
			BaseFeeXAF:    500,
			FeePerKmXAF:   100,
			MaxRadiusKm:   15,
			ServiceFeePct: 0.03,
		},
		Payment: PaymentConfig{
			UssdGraceDelay: 3 * time.Second,
			PollInterval:   5 * time.Second,
			Deadline:       120 * time.Second,
		},
		CamPay: CamPayConfig{
			BaseURL:     envOr("CAMPAY_BASE_URL", "https://demo.campay.net"),
			AppUsername: os.Getenv("CAMPAY_APP_USERNAME"),
			AppPassword: os.Getenv("CAMPAY_APP_PASSWORD"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
