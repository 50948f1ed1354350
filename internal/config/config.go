// Package config provides configuration loading for the PharmaDistrib service.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends accepted by storage.backend
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Config represents the complete service configuration
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	HTTP          HTTPConfig          `yaml:"http"`
	GRPC          GRPCConfig          `yaml:"grpc"`
	Storage       StorageConfig       `yaml:"storage"`
	Redis         RedisConfig         `yaml:"redis"`
	Postgres      DatabaseConfig      `yaml:"postgres"`
	MySQL         DatabaseConfig      `yaml:"mysql"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Tracing       TracingConfig       `yaml:"tracing"`
	Payment       PaymentConfig       `yaml:"payment"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Guard         GuardConfig         `yaml:"guard"`
}

// ServiceConfig identifies the running process
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

// IsDevelopment reports whether console logging should be used
func (s ServiceConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// HTTPConfig configures the REST listener
type HTTPConfig struct {
	Port           string          `yaml:"port"`
	RequestTimeout time.Duration   `yaml:"request_timeout"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig caps requests per caller over a sliding window, counted in redis
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// GRPCConfig configures the health/reflection listener
type GRPCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// StorageConfig selects where the state snapshot is kept
type StorageConfig struct {
	// Backend is one of memory, file, redis, postgres or mysql
	Backend string `yaml:"backend"`
	// Key is the slot key holding the whole-store blob
	Key string `yaml:"key"`
	// Dir is the directory used by the file backend
	Dir string `yaml:"dir"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DatabaseConfig configures a SQL backend
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// KafkaConfig configures store event publishing and consumption
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// TracingConfig configures the Jaeger exporter
type TracingConfig struct {
	Enabled        bool    `yaml:"enabled"`
	JaegerEndpoint string  `yaml:"jaeger_endpoint"`
	SampleRatio    float64 `yaml:"sample_ratio"`
}

// PaymentConfig configures the mock payment gateway
type PaymentConfig struct {
	Latency time.Duration `yaml:"latency"`
}

// NotificationsConfig configures the demo notification generator
type NotificationsConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Probability float64       `yaml:"probability"`
	RecipientID string        `yaml:"recipient_id"`
}

// GuardConfig toggles role gating on HTTP routes
type GuardConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "pharmadistrib",
			Environment: "development",
			LogLevel:    "info",
		},
		HTTP: HTTPConfig{
			Port:           "8080",
			RequestTimeout: 30 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:  false,
				Requests: 100,
				Window:   time.Minute,
			},
		},
		GRPC: GRPCConfig{
			Enabled: true,
			Port:    "9090",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Key:     "pharma-data-store",
			Dir:     "data",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Postgres: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "pharmadistrib",
			SSLMode:  "disable",
		},
		MySQL: DatabaseConfig{
			Host:     "localhost",
			Port:     "3306",
			User:     "root",
			Password: "",
			DBName:   "pharmadistrib",
		},
		Kafka: KafkaConfig{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topic:   "pharma-store-events",
			GroupID: "pharmadistrib-notifier",
		},
		Tracing: TracingConfig{
			Enabled:        false,
			JaegerEndpoint: "http://localhost:14268/api/traces",
			SampleRatio:    1,
		},
		Payment: PaymentConfig{
			Latency: 500 * time.Millisecond,
		},
		Notifications: NotificationsConfig{
			Enabled:     true,
			Interval:    10 * time.Second,
			Probability: 0.3,
			RecipientID: "1",
		},
		Guard: GuardConfig{
			Enabled: true,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	if c.HTTP.Port == "" {
		return fmt.Errorf("http.port is required")
	}
	if c.HTTP.RateLimit.Enabled && (c.HTTP.RateLimit.Requests <= 0 || c.HTTP.RateLimit.Window <= 0) {
		return fmt.Errorf("http.rate_limit needs positive requests and window")
	}
	if c.GRPC.Enabled && c.GRPC.Port == "" {
		return fmt.Errorf("grpc.port is required when grpc is enabled")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis, BackendPostgres, BackendMySQL:
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be between 0 and 1")
	}
	if c.Payment.Latency < 0 {
		return fmt.Errorf("payment.latency cannot be negative")
	}
	if c.Notifications.Enabled {
		if c.Notifications.Interval <= 0 {
			return fmt.Errorf("notifications.interval must be positive")
		}
		if c.Notifications.Probability < 0 || c.Notifications.Probability > 1 {
			return fmt.Errorf("notifications.probability must be between 0 and 1")
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load builds the effective configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = fileConfig
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides values from environment variables
func (c *Config) ApplyEnv() {
	c.Service.Name = getEnv("OTEL_SERVICE_NAME", c.Service.Name)
	c.Service.Environment = getEnv("ENVIRONMENT", c.Service.Environment)
	c.Service.LogLevel = getEnv("LOG_LEVEL", c.Service.LogLevel)

	c.HTTP.Port = getEnv("HTTP_PORT", c.HTTP.Port)
	c.HTTP.RequestTimeout = getEnvDuration("HTTP_REQUEST_TIMEOUT", c.HTTP.RequestTimeout)
	c.HTTP.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.HTTP.AllowedOrigins)
	c.HTTP.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.HTTP.RateLimit.Enabled)
	c.HTTP.RateLimit.Requests = getEnvInt("RATE_LIMIT_REQUESTS", c.HTTP.RateLimit.Requests)
	c.HTTP.RateLimit.Window = getEnvDuration("RATE_LIMIT_WINDOW", c.HTTP.RateLimit.Window)

	c.GRPC.Enabled = getEnvBool("GRPC_ENABLED", c.GRPC.Enabled)
	c.GRPC.Port = getEnv("GRPC_PORT", c.GRPC.Port)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.Key = getEnv("STORAGE_KEY", c.Storage.Key)
	c.Storage.Dir = getEnv("STORAGE_DIR", c.Storage.Dir)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	applyDatabaseEnv("DB", &c.Postgres)
	applyDatabaseEnv("MYSQL", &c.MySQL)

	c.Kafka.Enabled = getEnvBool("KAFKA_ENABLED", c.Kafka.Enabled)
	c.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", c.Kafka.GroupID)

	c.Tracing.Enabled = getEnvBool("TRACING_ENABLED", c.Tracing.Enabled)
	c.Tracing.JaegerEndpoint = getEnv("JAEGER_ENDPOINT", c.Tracing.JaegerEndpoint)

	c.Payment.Latency = getEnvDuration("PAYMENT_LATENCY", c.Payment.Latency)

	c.Notifications.Enabled = getEnvBool("NOTIFICATIONS_ENABLED", c.Notifications.Enabled)
	c.Notifications.Interval = getEnvDuration("NOTIFICATIONS_INTERVAL", c.Notifications.Interval)
	c.Notifications.RecipientID = getEnv("NOTIFICATIONS_RECIPIENT_ID", c.Notifications.RecipientID)

	c.Guard.Enabled = getEnvBool("GUARD_ENABLED", c.Guard.Enabled)
}

func applyDatabaseEnv(prefix string, db *DatabaseConfig) {
	db.Host = getEnv(prefix+"_HOST", db.Host)
	db.Port = getEnv(prefix+"_PORT", db.Port)
	db.User = getEnv(prefix+"_USER", db.User)
	db.Password = getEnv(prefix+"_PASSWORD", db.Password)
	db.DBName = getEnv(prefix+"_NAME", db.DBName)
	db.SSLMode = getEnv(prefix+"_SSLMODE", db.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if parsed, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return parsed
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if parsed, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return parsed
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if parsed, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return parsed
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
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
	return out
}
