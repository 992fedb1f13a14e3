// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog resolution modes
const (
	CatalogModeStatic = "static"
	CatalogModeLive   = "live"
)

// Mock API event stores
const (
	MockStoreMemory   = "memory"
	MockStorePostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Mock     MockConfig
	Session  SessionConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration.
// Only used when the mock API keeps its events in Postgres.
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// CatalogConfig selects how the storefront resolves catalog data
type CatalogConfig struct {
	Mode           string
	RemoteBaseURL  string
	RequestTimeout time.Duration
}

// MockConfig configures the interception layer serving /api and /graphql
type MockConfig struct {
	Store       string
	FixturePath string
	LatencyMin  time.Duration
	LatencyMax  time.Duration
	SeedOnStart bool
}

// SessionConfig contains storefront session token configuration
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// CartConfig contains cart snapshot configuration
type CartConfig struct {
	Namespace   string
	SnapshotTTL time.Duration
}

// CheckoutConfig contains checkout configuration
type CheckoutConfig struct {
	ServiceFeePercent int64
	HandoffTTL        time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "EventHub Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "eventhub_db"),
			User:         getEnv("DB_USER", "eventhub_user"),
			Password:     getEnv("DB_PASSWORD", "eventhub_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Catalog: CatalogConfig{
			Mode:           strings.ToLower(getEnv("CATALOG_MODE", CatalogModeLive)),
			RemoteBaseURL:  getEnv("CATALOG_REMOTE_BASE_URL", ""),
			RequestTimeout: getEnvAsDuration("CATALOG_REQUEST_TIMEOUT", 10*time.Second),
		},
		Mock: MockConfig{
			Store:       strings.ToLower(getEnv("MOCK_STORE", MockStoreMemory)),
			FixturePath: getEnv("MOCK_FIXTURE_PATH", ""),
			LatencyMin:  getEnvAsDuration("MOCK_LATENCY_MIN", 200*time.Millisecond),
			LatencyMax:  getEnvAsDuration("MOCK_LATENCY_MAX", 500*time.Millisecond),
			SeedOnStart: getEnvAsBool("MOCK_SEED_ON_START", true),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "eventhub-session-secret-change-in-production"),
			TTL:        getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE_NAME", "eventhub_session"),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Cart: CartConfig{
			Namespace:   getEnv("CART_NAMESPACE", "eventhub-cart"),
			SnapshotTTL: getEnvAsDuration("CART_SNAPSHOT_TTL", 0),
		},
		Checkout: CheckoutConfig{
			ServiceFeePercent: getEnvAsInt64("CHECKOUT_SERVICE_FEE_PERCENT", 5),
			HandoffTTL:        getEnvAsDuration("CHECKOUT_HANDOFF_TTL", 10*time.Minute),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if config.Catalog.RemoteBaseURL == "" {
		config.Catalog.RemoteBaseURL = "http://localhost:" + config.Server.Port
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	switch c.Catalog.Mode {
	case CatalogModeStatic:
	case CatalogModeLive:
		if c.Catalog.RemoteBaseURL == "" {
			return fmt.Errorf("CATALOG_REMOTE_BASE_URL is required in live mode")
		}
	default:
		return fmt.Errorf("CATALOG_MODE must be %q or %q, got %q", CatalogModeStatic, CatalogModeLive, c.Catalog.Mode)
	}

	switch c.Mock.Store {
	case MockStoreMemory:
	case MockStorePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}
	default:
		return fmt.Errorf("MOCK_STORE must be %q or %q, got %q", MockStoreMemory, MockStorePostgres, c.Mock.Store)
	}

	if c.Mock.LatencyMin < 0 || c.Mock.LatencyMax < c.Mock.LatencyMin {
		return fmt.Errorf("MOCK_LATENCY_MIN must be >= 0 and <= MOCK_LATENCY_MAX")
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Cart.Namespace == "" {
		return fmt.Errorf("CART_NAMESPACE is required")
	}

	if c.Checkout.ServiceFeePercent < 0 {
		return fmt.Errorf("CHECKOUT_SERVICE_FEE_PERCENT cannot be negative")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsStaticCatalog reports whether the storefront resolves catalog data in-process
func (c *Config) IsStaticCatalog() bool {
	return c.Catalog.Mode == CatalogModeStatic
}

// UsesPostgres reports whether the mock API keeps its events in Postgres
func (c *Config) UsesPostgres() bool {
	return c.Mock.Store == MockStorePostgres
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
