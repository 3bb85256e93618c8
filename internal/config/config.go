package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Lock backends.
const (
	LockLocal = "local"
	LockRedis = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Store     StoreConfig
	Lock      LockConfig
	Redis     RedisConfig
	Inventory InventoryConfig
	Seed      SeedConfig
	Kafka     KafkaConfig
	Tracing   TracingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
	LockTimeoutMS   int
	AutoMigrate     bool
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string
}

// LockConfig holds per-order lock configuration.
type LockConfig struct {
	Backend   string
	TimeoutMS int
	TTLMS     int
}

// RedisConfig holds Redis connection settings for the redis lock backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// InventoryConfig holds inventory defaults.
type InventoryConfig struct {
	LowStockThreshold int
}

// SeedConfig holds initial data load configuration.
type SeedConfig struct {
	Enabled  bool
	Files    []string
	S3       S3Config
	Fallback bool // fall back to local files when the S3 load fails
}

// S3Config holds AWS S3 configuration for seed documents.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "seed/")
}

// KafkaConfig holds event publishing configuration.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// TracingConfig holds OpenTelemetry exporter configuration.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Insecure    bool
}

// Load loads configuration from a .env file, if present, and environment variables.
func Load() (*Config, error) {
	cfg := fromEnv(StorePostgres)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadCLI loads configuration for command-line tools. They serve no HTTP,
// so no API key is required, and the store defaults to memory.
func LoadCLI() (*Config, error) {
	cfg := fromEnv(StoreMemory)
	if err := cfg.validate(false); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func fromEnv(defaultStore string) *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "menuhub"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
			LockTimeoutMS:   getEnvAsInt("DB_LOCK_TIMEOUT_MS", 2000),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", defaultStore),
		},
		Lock: LockConfig{
			Backend:   getEnv("LOCK_BACKEND", LockLocal),
			TimeoutMS: getEnvAsInt("LOCK_TIMEOUT_MS", 2000),
			TTLMS:     getEnvAsInt("LOCK_TTL_MS", 30000),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Inventory: InventoryConfig{
			LowStockThreshold: getEnvAsInt("INVENTORY_LOW_STOCK_THRESHOLD", 5),
		},
		Seed: SeedConfig{
			Enabled:  getEnvAsBool("SEED_ENABLED", false),
			Files:    getEnvAsList("SEED_FILES", []string{"data/menu.json"}),
			Fallback: getEnvAsBool("SEED_S3_FALLBACK", true),
			S3: S3Config{
				Enabled: getEnvAsBool("S3_ENABLED", false),
				Bucket:  getEnv("S3_BUCKET", ""),
				Region:  getEnv("S3_REGION", "us-east-1"),
				Prefix:  getEnv("S3_PREFIX", "seed/"),
			},
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: getEnvAsList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "menuhub.events"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("TRACING_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "menuhub"),
			Insecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(requireAuth bool) error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be memory or postgres)", c.Store.Driver)
	}

	if requireAuth && c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Lock.Backend {
	case LockLocal:
	case LockRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when lock backend is redis")
		}
		if c.Lock.TTLMS <= c.Lock.TimeoutMS {
			return fmt.Errorf("lock TTL must exceed lock timeout")
		}
	default:
		return fmt.Errorf("invalid lock backend: %s (must be local or redis)", c.Lock.Backend)
	}

	if c.Lock.TimeoutMS < 1 {
		return fmt.Errorf("lock timeout must be at least 1ms")
	}

	if c.Inventory.LowStockThreshold < 1 {
		return fmt.Errorf("low stock threshold must be at least 1")
	}

	if c.Seed.S3.Enabled {
		if c.Seed.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Seed.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka topic is required when kafka is enabled")
		}
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when tracing is enabled")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.LockTimeoutMS < 0 {
		return fmt.Errorf("database lock timeout cannot be negative")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// LockTimeout returns the PostgreSQL lock_timeout session setting.
func (c *DatabaseConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMS) * time.Millisecond
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the maximum wait for a per-order lock.
func (c *LockConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// TTL returns the lease duration of a redis lock.
func (c *LockConfig) TTL() time.Duration {
	return time.Duration(c.TTLMS) * time.Millisecond
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
