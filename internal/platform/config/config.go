package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// External rate provider
	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderName    string
	FetchTimeout    time.Duration

	// Resolution / conversion
	CacheTTL         time.Duration
	ConversionMargin decimal.Decimal

	// Ingestion job
	IngestCron       string
	IngestMaxRetries int
	IngestRetryDelay time.Duration

	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("FX_API_BASE_URL", "")
	viper.SetDefault("FX_API_KEY", "")
	viper.SetDefault("FX_PROVIDER_NAME", "ExchangesRateAPI")
	viper.SetDefault("FX_FETCH_TIMEOUT", "10s")
	// Deliberately longer than the hourly ingestion period so one missed run
	// does not stampede the store.
	viper.SetDefault("FX_CACHE_TTL", "65m")
	viper.SetDefault("CONVERSION_MARGIN", "0.005")
	viper.SetDefault("FX_INGEST_CRON", "0 * * * *")
	viper.SetDefault("FX_INGEST_MAX_RETRIES", 3)
	viper.SetDefault("FX_INGEST_RETRY_DELAY", "5m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cfg.ProviderBaseURL = viper.GetString("FX_API_BASE_URL")
	if cfg.ProviderBaseURL == "" {
		log.Println("Warning: FX_API_BASE_URL not set. Rate ingestion will fail.")
	}
	cfg.ProviderAPIKey = viper.GetString("FX_API_KEY")
	if cfg.ProviderAPIKey == "" {
		log.Println("Warning: FX_API_KEY not set. Rate ingestion will fail.")
	}
	cfg.ProviderName = viper.GetString("FX_PROVIDER_NAME")

	cfg.FetchTimeout = parseDurationOr("FX_FETCH_TIMEOUT", 10*time.Second)
	cfg.CacheTTL = parseDurationOr("FX_CACHE_TTL", 65*time.Minute)
	cfg.IngestRetryDelay = parseDurationOr("FX_INGEST_RETRY_DELAY", 5*time.Minute)

	marginStr := viper.GetString("CONVERSION_MARGIN")
	margin, err := decimal.NewFromString(marginStr)
	if err != nil || margin.IsNegative() || margin.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		log.Printf("Warning: Invalid value for CONVERSION_MARGIN ('%s'). Defaulting to 0.005.\n", marginStr)
		margin = decimal.RequireFromString("0.005")
	}
	cfg.ConversionMargin = margin

	cfg.IngestCron = viper.GetString("FX_INGEST_CRON")
	cfg.IngestMaxRetries = viper.GetInt("FX_INGEST_MAX_RETRIES")
	if cfg.IngestMaxRetries < 1 {
		log.Printf("Warning: FX_INGEST_MAX_RETRIES must be at least 1, got %d. Defaulting to 3.\n", cfg.IngestMaxRetries)
		cfg.IngestMaxRetries = 3
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
