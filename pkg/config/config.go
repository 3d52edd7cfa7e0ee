package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Rate provider
	RateAPIBaseURL string        `mapstructure:"RATE_API_BASE_URL"`
	RateAPITimeout time.Duration `mapstructure:"RATE_API_TIMEOUT"`

	// Totals cache. Empty RedisURL disables caching.
	RedisURL string        `mapstructure:"REDIS_URL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	// Fallback display currency until the user picks one.
	DefaultCurrency string `mapstructure:"DEFAULT_CURRENCY"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_API_BASE_URL", "https://api.frankfurter.dev/v1")
	viper.SetDefault("RATE_API_TIMEOUT", "10s")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_TTL", "10m")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.RateAPIBaseURL = viper.GetString("RATE_API_BASE_URL")

	rateTimeoutStr := viper.GetString("RATE_API_TIMEOUT")
	rateTimeout, err := time.ParseDuration(rateTimeoutStr)
	if err != nil {
		rateTimeout = 10 * time.Second
		if rateTimeoutStr != "" {
			log.Printf("Warning: Invalid value for RATE_API_TIMEOUT ('%s'). Defaulting to %s.\n", rateTimeoutStr, rateTimeout.String())
		}
	}
	cfg.RateAPITimeout = rateTimeout

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cacheTTLStr := viper.GetString("CACHE_TTL")
	cacheTTL, err := time.ParseDuration(cacheTTLStr)
	if err != nil {
		cacheTTL = 10 * time.Minute
		if cacheTTLStr != "" {
			log.Printf("Warning: Invalid value for CACHE_TTL ('%s'). Defaulting to %s.\n", cacheTTLStr, cacheTTL.String())
		}
	}
	cfg.CacheTTL = cacheTTL

	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
		log.Println("Warning: DEFAULT_CURRENCY not set. Defaulting to USD.")
	}

	return cfg, nil
}
