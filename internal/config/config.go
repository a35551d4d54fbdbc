package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	SessionSecret     string
	DatabaseDriver    string
	DatabaseURL       string
	RedisURL          string
	AllowedOrigins    []string
	AllowCrossSiteDev bool
	CookieDomain      string
	HealthAdminKey    string
	StoreTimeout      time.Duration
	LogLevel          string
	SeedAdminPassword string
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load loads config from env and an optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("LOG_LEVEL", "info")

	env := v.GetString("APP_ENV")
	dbURL := v.GetString("DATABASE_URL_DEV")
	switch env {
	case "production":
		dbURL = v.GetString("DATABASE_URL_PROD")
	case "test":
		dbURL = v.GetString("DATABASE_URL_TEST")
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	secret := v.GetString("SESSION_SECRET")
	if env == "production" && secret == "" {
		return nil, errors.New("SESSION_SECRET is required in production")
	}

	return &Config{
		Env:               env,
		Port:              v.GetString("PORT"),
		SessionSecret:     secret,
		DatabaseDriver:    strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:       dbURL,
		RedisURL:          v.GetString("REDIS_URL"),
		AllowedOrigins:    origins,
		AllowCrossSiteDev: v.GetBool("ALLOW_CROSS_SITE_DEV"),
		CookieDomain:      v.GetString("COOKIE_DOMAIN"),
		HealthAdminKey:    v.GetString("HEALTH_ADMIN_KEY"),
		StoreTimeout:      v.GetDuration("STORE_TIMEOUT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		SeedAdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
	}, nil
}
