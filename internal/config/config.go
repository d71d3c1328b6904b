package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	Timezone        string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	NATSSubject     string
	JWTSecret       string
	PublicBaseURL   string
	HistoryCacheTTL time.Duration
	ScanRateLimit   int
	PublicRateLimit int

	location *time.Location
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location returns the zone that defines calendar days for the daily scan limit.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUSPASS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Campus Pass API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.timezone", "Local")
	v.SetDefault("nats.subject", "campuspass.scans")
	v.SetDefault("public.base_url", "http://localhost:8080")
	v.SetDefault("history.cache_ttl", "2m")
	v.SetDefault("scan.rate_limit", 60)
	v.SetDefault("public.rate_limit", 120)

	ttlString := v.GetString("history.cache_ttl")
	if ttlString == "" {
		ttlString = "2m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid history cache ttl: %w", err)
	}

	timezone := strings.TrimSpace(v.GetString("app.timezone"))
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid app timezone %q: %w", timezone, err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		Timezone:        timezone,
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		NATSSubject:     v.GetString("nats.subject"),
		JWTSecret:       v.GetString("jwt.secret"),
		PublicBaseURL:   strings.TrimRight(v.GetString("public.base_url"), "/"),
		HistoryCacheTTL: ttl,
		ScanRateLimit:   v.GetInt("scan.rate_limit"),
		PublicRateLimit: v.GetInt("public.rate_limit"),
		location:        location,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ScanRateLimit <= 0 {
		cfg.ScanRateLimit = 60
	}

	if cfg.PublicRateLimit <= 0 {
		cfg.PublicRateLimit = 120
	}

	return cfg, nil
}
