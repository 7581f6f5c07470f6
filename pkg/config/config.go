package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreBadger   = "badger"
	StoreRedis    = "redis"
	StorePostgres = "postgres"

	CatalogHTTP     = "http"
	CatalogPostgres = "postgres"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Catalog    CatalogConfig
	Telemetry  TelemetryConfig
	Thresholds ThresholdsConfig
	Optimizer  OptimizerConfig
	Mailjet    MailjetConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type StoreConfig struct {
	Backend    string
	BadgerPath string
	Key        string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type CatalogConfig struct {
	Mode                 string
	BaseURL              string
	APIKey               string
	Timeout              time.Duration
	MaxRetries           int
	BaseBackoff          time.Duration
	RateLimit            float64
	VariationsPerProduct int
}

type TelemetryConfig struct {
	HTTPURL     string
	Timeout     time.Duration
	NatsURL     string
	NatsTopic   string
	PostgresLog bool
}

type ThresholdsConfig struct {
	MinViews               int
	MinConversionRate      float64
	StaleDays              int
	TopPerformerPercentile float64
}

type OptimizerConfig struct {
	PurgeRemovedMetrics bool
	ReportEmail         string
	ReportName          string
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "My Brand Store Analytics"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8080"}),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second, &errs),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(getEnv("STORE_BACKEND", StoreBadger)),
			BadgerPath: getEnv("BADGER_PATH", "./data/metrics"),
			Key:        getEnv("STORE_KEY", "product_metrics"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "brand_store"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0, &errs),
		},
		Catalog: CatalogConfig{
			Mode:                 strings.ToLower(getEnv("CATALOG_MODE", CatalogHTTP)),
			BaseURL:              getEnv("CATALOG_BASE_URL", ""),
			APIKey:               getEnv("CATALOG_API_KEY", ""),
			Timeout:              getEnvDuration("CATALOG_TIMEOUT", 10*time.Second, &errs),
			MaxRetries:           getEnvInt("CATALOG_MAX_RETRIES", 3, &errs),
			BaseBackoff:          getEnvDuration("CATALOG_BASE_BACKOFF", 200*time.Millisecond, &errs),
			RateLimit:            getEnvFloat("CATALOG_RATE_LIMIT", 5, &errs),
			VariationsPerProduct: getEnvInt("CATALOG_VARIATIONS_PER_PRODUCT", 3, &errs),
		},
		Telemetry: TelemetryConfig{
			HTTPURL:     getEnv("TELEMETRY_URL", ""),
			Timeout:     getEnvDuration("TELEMETRY_TIMEOUT", 3*time.Second, &errs),
			NatsURL:     getEnv("NATS_URL", ""),
			NatsTopic:   getEnv("NATS_TOPIC", "product.telemetry"),
			PostgresLog: getEnvBool("TELEMETRY_POSTGRES_LOG", false, &errs),
		},
		Thresholds: ThresholdsConfig{
			MinViews:               getEnvInt("PERF_MIN_VIEWS", 50, &errs),
			MinConversionRate:      getEnvFloat("PERF_MIN_CONVERSION_RATE", 0.02, &errs),
			StaleDays:              getEnvInt("PERF_STALE_DAYS", 30, &errs),
			TopPerformerPercentile: getEnvFloat("PERF_TOP_PERCENTILE", 0.20, &errs),
		},
		Optimizer: OptimizerConfig{
			PurgeRemovedMetrics: getEnvBool("OPTIMIZER_PURGE_REMOVED_METRICS", false, &errs),
			ReportEmail:         getEnv("OPTIMIZER_REPORT_EMAIL", ""),
			ReportName:          getEnv("OPTIMIZER_REPORT_NAME", "Store Admin"),
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", ""),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", ""),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects combinations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBadger:
		if c.Store.BadgerPath == "" {
			return errors.New("missing badger path")
		}
	case StoreRedis:
	case StorePostgres:
		if c.Database.Password == "" {
			return errors.New("missing database password")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Catalog.Mode {
	case CatalogHTTP:
		if c.Catalog.BaseURL == "" {
			return errors.New("missing catalog base url")
		}
	case CatalogPostgres:
		if c.Database.Password == "" {
			return errors.New("missing database password")
		}
	default:
		return fmt.Errorf("unknown catalog mode %q", c.Catalog.Mode)
	}

	if c.Telemetry.PostgresLog && c.Database.Password == "" {
		return errors.New("missing database password")
	}

	if c.Thresholds.MinViews < 0 {
		return errors.New("min views cannot be negative")
	}
	if c.Thresholds.MinConversionRate < 0 {
		return errors.New("min conversion rate cannot be negative")
	}
	if c.Thresholds.StaleDays < 0 {
		return errors.New("stale days cannot be negative")
	}
	if c.Thresholds.TopPerformerPercentile <= 0 || c.Thresholds.TopPerformerPercentile > 1 {
		return errors.New("top performer percentile must be in (0, 1]")
	}
	if c.Catalog.VariationsPerProduct <= 0 {
		return errors.New("variations per product must be greater than 0")
	}
	if c.Catalog.MaxRetries < 1 {
		return errors.New("catalog max retries must be at least 1")
	}

	return nil
}

// UsesPostgres reports whether any component needs a database connection.
func (c *Config) UsesPostgres() bool {
	return c.Store.Backend == StorePostgres || c.Catalog.Mode == CatalogPostgres || c.Telemetry.PostgresLog
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	out := []string{}
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnvInt(key string, defaultVal int, errs *[]error) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}

	return n
}

func getEnvFloat(key string, defaultVal float64, errs *[]error) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}

	return f
}

func getEnvBool(key string, defaultVal bool, errs *[]error) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}

	return b
}

func getEnvDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}

	return d
}
