package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Queue     QueueConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds the external auth authority settings
type AuthConfig struct {
	// Address is host:port of the auth service, e.g. "auth:5000"
	Address string
	Timeout time.Duration
}

// StorageConfig holds blob storage settings
type StorageConfig struct {
	// Backend selects the blob store implementation: "postgres" or "s3"
	Backend        string
	VideoBucket    string
	MP3Bucket      string
	MaxUploadBytes int64
	OpTimeout      time.Duration

	// S3/R2 settings, used when Backend == "s3"
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// QueueConfig holds conversion queue settings
type QueueConfig struct {
	Stream    string
	MaxLen    int64
	OpTimeout time.Duration
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof bool
	PprofPort   int
}

// RateLimitConfig holds login throttling settings
type RateLimitConfig struct {
	Enabled     bool
	LoginLimit  int64
	LoginWindow time.Duration
}

// Load reads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnvInt("DB_PORT", 5432),
			Database:    getEnv("DB_NAME", "gateway"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			MaxConns:    getEnvInt("DB_MAX_CONNS", 10),
			MinConns:    getEnvInt("DB_MIN_CONNS", 2),
			MaxIdleTime: getEnvDuration("DB_MAX_IDLE_TIME", 15*time.Minute),
			MaxLifetime: getEnvDuration("DB_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Address: getEnv("AUTH_SVC_ADDRESS", "localhost:5000"),
			Timeout: getEnvDuration("AUTH_TIMEOUT", 5*time.Second),
		},
		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", "postgres"),
			VideoBucket:    getEnv("VIDEO_BUCKET", "videos"),
			MP3Bucket:      getEnv("MP3_BUCKET", "mp3s"),
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_MB", 512)) << 20,
			OpTimeout:      getEnvDuration("STORAGE_TIMEOUT", 30*time.Second),
			S3Endpoint:     getEnv("S3_ENDPOINT", ""),
			S3Region:       getEnv("S3_REGION", "auto"),
			S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		},
		Queue: QueueConfig{
			Stream:    getEnv("CONVERT_STREAM", "video.convert"),
			MaxLen:    int64(getEnvInt("CONVERT_STREAM_MAXLEN", 10000)),
			OpTimeout: getEnvDuration("QUEUE_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:     getEnvBool("LOGIN_RATELIMIT_ENABLED", true),
			LoginLimit:  int64(getEnvInt("LOGIN_RATELIMIT", 10)),
			LoginWindow: getEnvDuration("LOGIN_RATELIMIT_WINDOW", time.Minute),
		},
		Telemetry: TelemetryConfig{
			EnablePprof: getEnvBool("ENABLE_PPROF", false),
			PprofPort:   getEnvInt("PPROF_PORT", 6060),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "postgres", "s3":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.Backend == "s3" && c.Storage.S3AccessKey == "" {
		return fmt.Errorf("s3 backend requires S3_ACCESS_KEY")
	}
	return nil
}

// DatabaseURL builds the Postgres connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr builds the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// AuthLoginURL is the auth authority's login endpoint
func (c *Config) AuthLoginURL() string {
	return fmt.Sprintf("http://%s/login", c.Auth.Address)
}

// AuthValidateURL is the auth authority's token introspection endpoint
func (c *Config) AuthValidateURL() string {
	return fmt.Sprintf("http://%s/validate", c.Auth.Address)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
