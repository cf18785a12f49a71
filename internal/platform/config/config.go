package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string
	LogLevel       string

	RateLimit          string   // ulule formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string // empty disables CORS

	KafkaBrokers      []string // empty disables event publishing
	KafkaPaymentTopic string

	DefaultPageSize int
	MaxPageSize     int
	CommitTimeout   time.Duration
	SearchFields    []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_PAYMENT_TOPIC", "ledger.payment_recorded")
	v.SetDefault("LEDGER_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("LEDGER_MAX_PAGE_SIZE", 100)
	v.SetDefault("COMMIT_TIMEOUT", "5s")
	v.SetDefault("LEDGER_SEARCH_FIELDS", "name,contact")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")
	cfg.LogLevel = strings.ToLower(v.GetString("LOG_LEVEL"))

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: expected %q or %q", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	cfg.RateLimit = v.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.KafkaPaymentTopic = v.GetString("KAFKA_PAYMENT_TOPIC")
	cfg.SearchFields = splitList(v.GetString("LEDGER_SEARCH_FIELDS"))

	cfg.DefaultPageSize = v.GetInt("LEDGER_DEFAULT_PAGE_SIZE")
	cfg.MaxPageSize = v.GetInt("LEDGER_MAX_PAGE_SIZE")
	if cfg.DefaultPageSize <= 0 || cfg.MaxPageSize <= 0 || cfg.DefaultPageSize > cfg.MaxPageSize {
		return nil, fmt.Errorf("invalid page sizes: default %d, max %d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}

	commitTimeoutStr := v.GetString("COMMIT_TIMEOUT")
	commitTimeout, err := time.ParseDuration(commitTimeoutStr)
	if err != nil || commitTimeout <= 0 {
		commitTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for COMMIT_TIMEOUT ('%s'). Defaulting to %s.\n", commitTimeoutStr, commitTimeout)
	}
	cfg.CommitTimeout = commitTimeout

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
