package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
	"github.com/platinummonkey/reel/pkg/storage/sqlstore"
)

// ConfigFileEnv names the optional YAML file read before the environment
const ConfigFileEnv = "REEL_CONFIG_FILE"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Observability configuration
	Observability ObservabilityConfig

	// File is the YAML file the configuration was read from, if any
	File string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// MaxBodyBytes limits request bodies; 0 disables the limit
	MaxBodyBytes int64
	CORSOrigins  []string
	RateLimit    RateLimitConfig
}

// RateLimitConfig holds per-client rate limit settings
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
	// Backend is "memory" or "redis"
	Backend string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled  bool
	DBStatsSchedule string

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8088",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			HealthPort:      "9090",
			MaxBodyBytes:    1 << 20,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerWindow: 600,
				Window:            time.Minute,
				Burst:             50,
				Backend:           "memory",
			},
		},
		Storage: storage.DefaultConfig(),
		Observability: ObservabilityConfig{
			LogLevel:           observability.InfoLevel,
			MetricsEnabled:     true,
			DBStatsSchedule:    "@every 15s",
			OTelEnabled:        false,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "reel",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

// LoadConfig loads the file named by REEL_CONFIG_FILE, if set, and then
// applies REEL_* environment variables on top
func LoadConfig() (*Config, error) {
	return Load(os.Getenv(ConfigFileEnv))
}

// Load reads path (skipped when empty), applies the environment and validates
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, err
		}
		fc.apply(cfg)
		cfg.File = path
	}

	loadServerConfig(&cfg.Server)
	loadStorageConfig(&cfg.Storage)
	loadObservabilityConfig(&cfg.Observability)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig overrides server settings from the environment
func loadServerConfig(cfg *ServerConfig) {
	cfg.Host = getEnv("REEL_HOST", cfg.Host)
	cfg.Port = getEnv("REEL_PORT", cfg.Port)
	cfg.ReadTimeout = getEnvDuration("REEL_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration("REEL_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = getEnvDuration("REEL_IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.ShutdownTimeout = getEnvDuration("REEL_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.HealthPort = getEnv("REEL_HEALTH_PORT", cfg.HealthPort)
	cfg.MaxBodyBytes = getEnvInt64("REEL_MAX_BODY_BYTES", cfg.MaxBodyBytes)
	if origins := getEnv("REEL_CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.RateLimit.Enabled = getEnvBool("REEL_RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.RequestsPerWindow = getEnvInt("REEL_RATE_LIMIT_REQUESTS", cfg.RateLimit.RequestsPerWindow)
	cfg.RateLimit.Window = getEnvDuration("REEL_RATE_LIMIT_WINDOW", cfg.RateLimit.Window)
	cfg.RateLimit.Burst = getEnvInt("REEL_RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.Backend = getEnv("REEL_RATE_LIMIT_BACKEND", cfg.RateLimit.Backend)
}

// loadStorageConfig overrides storage settings from the environment
func loadStorageConfig(cfg *storage.Config) {
	cfg.Type = getEnv("REEL_STORAGE_TYPE", cfg.Type)
	cfg.DatabaseURL = getEnv("REEL_DATABASE_URL", cfg.DatabaseURL)
	if replicaURLs := getEnv("REEL_DATABASE_REPLICA_URLS", ""); replicaURLs != "" {
		cfg.ReplicaURLs = sqlstore.ParseReplicaURLs(replicaURLs)
	}
	if maxConns := getEnvInt("REEL_DATABASE_MAX_CONNS", 0); maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns := getEnvInt("REEL_DATABASE_MIN_CONNS", 0); minConns > 0 {
		cfg.MinConns = minConns
	}
	if timeout := getEnvDuration("REEL_DATABASE_TIMEOUT", 0); timeout > 0 {
		cfg.Timeout = timeout
	}
	cfg.AutoMigrate = getEnvBool("REEL_DATABASE_AUTO_MIGRATE", cfg.AutoMigrate)

	// Redis config
	cfg.RedisURL = getEnv("REEL_REDIS_URL", cfg.RedisURL)
	cfg.RedisPassword = getEnv("REEL_REDIS_PASSWORD", cfg.RedisPassword)
	if redisDB := getEnvInt("REEL_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}
	if redisMaxRetries := getEnvInt("REEL_REDIS_MAX_RETRIES", 0); redisMaxRetries > 0 {
		cfg.RedisMaxRetries = redisMaxRetries
	}
	if redisPoolSize := getEnvInt("REEL_REDIS_POOL_SIZE", 0); redisPoolSize > 0 {
		cfg.RedisPoolSize = redisPoolSize
	}

	// Cache config
	cfg.CacheEnabled = getEnvBool("REEL_CACHE_ENABLED", cfg.CacheEnabled)
	cfg.CacheTTL = getEnvDuration("REEL_CACHE_TTL", cfg.CacheTTL)
	if l1CacheSize := getEnvInt("REEL_L1_CACHE_SIZE", 0); l1CacheSize > 0 {
		cfg.L1CacheSize = l1CacheSize
	}
}

// loadObservabilityConfig overrides observability settings from the environment
func loadObservabilityConfig(cfg *ObservabilityConfig) {
	if level := getEnv("REEL_LOG_LEVEL", ""); level != "" {
		cfg.LogLevel = observability.ParseLogLevel(level)
	}
	cfg.MetricsEnabled = getEnvBool("REEL_METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.DBStatsSchedule = getEnv("REEL_DB_STATS_SCHEDULE", cfg.DBStatsSchedule)
	cfg.OTelEnabled = getEnvBool("REEL_OTEL_ENABLED", cfg.OTelEnabled)
	cfg.OTelEndpoint = getEnv("REEL_OTEL_ENDPOINT", cfg.OTelEndpoint)
	cfg.OTelServiceName = getEnv("REEL_OTEL_SERVICE_NAME", cfg.OTelServiceName)
	cfg.OTelServiceVersion = getEnv("REEL_OTEL_SERVICE_VERSION", cfg.OTelServiceVersion)
	cfg.OTelInsecure = getEnvBool("REEL_OTEL_INSECURE", cfg.OTelInsecure)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("max body bytes must not be negative")
	}

	if rl := c.Server.RateLimit; rl.Enabled {
		if rl.RequestsPerWindow <= 0 || rl.Window <= 0 {
			return fmt.Errorf("rate limit requires positive requests and window")
		}
		switch rl.Backend {
		case "memory":
		case "redis":
			if c.Storage.RedisURL == "" {
				return fmt.Errorf("redis URL is required for the redis rate limit backend")
			}
		default:
			return fmt.Errorf("invalid rate limit backend: %s (must be memory or redis)", rl.Backend)
		}
	}

	// Validate storage config based on type
	if _, err := sqlstore.ParseDialect(c.Storage.Type); err != nil {
		return fmt.Errorf("invalid storage type: %s (must be sqlite or postgres)", c.Storage.Type)
	}
	if c.Storage.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}
	if c.Storage.CacheEnabled && c.Storage.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when the cache is enabled")
	}

	// Validate OpenTelemetry config
	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// fileConfig is the YAML layout. Zero values leave the default in place.
type fileConfig struct {
	Server struct {
		Host            string        `yaml:"host"`
		Port            string        `yaml:"port"`
		HealthPort      string        `yaml:"health_port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		IdleTimeout     time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		MaxBodyBytes    int64         `yaml:"max_body_bytes"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		RateLimit       struct {
			Enabled           *bool         `yaml:"enabled"`
			RequestsPerWindow int           `yaml:"requests_per_window"`
			Window            time.Duration `yaml:"window"`
			Burst             int           `yaml:"burst"`
			Backend           string        `yaml:"backend"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`

	Storage struct {
		Type          string        `yaml:"type"`
		DatabaseURL   string        `yaml:"database_url"`
		ReplicaURLs   []string      `yaml:"replica_urls"`
		MaxConns      int           `yaml:"max_conns"`
		MinConns      int           `yaml:"min_conns"`
		Timeout       time.Duration `yaml:"timeout"`
		AutoMigrate   *bool         `yaml:"auto_migrate"`
		RedisURL      string        `yaml:"redis_url"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		CacheEnabled  *bool         `yaml:"cache_enabled"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		L1CacheSize   int           `yaml:"l1_cache_size"`
	} `yaml:"storage"`

	Observability struct {
		LogLevel        string `yaml:"log_level"`
		MetricsEnabled  *bool  `yaml:"metrics_enabled"`
		DBStatsSchedule string `yaml:"db_stats_schedule"`
		OTelEnabled     *bool  `yaml:"otel_enabled"`
		OTelEndpoint    string `yaml:"otel_endpoint"`
		OTelServiceName string `yaml:"otel_service_name"`
		OTelInsecure    *bool  `yaml:"otel_insecure"`
	} `yaml:"observability"`
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config) {
	s := fc.Server
	setString(&cfg.Server.Host, s.Host)
	setString(&cfg.Server.Port, s.Port)
	setString(&cfg.Server.HealthPort, s.HealthPort)
	setDuration(&cfg.Server.ReadTimeout, s.ReadTimeout)
	setDuration(&cfg.Server.WriteTimeout, s.WriteTimeout)
	setDuration(&cfg.Server.IdleTimeout, s.IdleTimeout)
	setDuration(&cfg.Server.ShutdownTimeout, s.ShutdownTimeout)
	if s.MaxBodyBytes != 0 {
		cfg.Server.MaxBodyBytes = s.MaxBodyBytes
	}
	if len(s.CORSOrigins) > 0 {
		cfg.Server.CORSOrigins = s.CORSOrigins
	}
	setBool(&cfg.Server.RateLimit.Enabled, s.RateLimit.Enabled)
	setInt(&cfg.Server.RateLimit.RequestsPerWindow, s.RateLimit.RequestsPerWindow)
	setDuration(&cfg.Server.RateLimit.Window, s.RateLimit.Window)
	setInt(&cfg.Server.RateLimit.Burst, s.RateLimit.Burst)
	setString(&cfg.Server.RateLimit.Backend, s.RateLimit.Backend)

	st := fc.Storage
	setString(&cfg.Storage.Type, st.Type)
	setString(&cfg.Storage.DatabaseURL, st.DatabaseURL)
	if len(st.ReplicaURLs) > 0 {
		cfg.Storage.ReplicaURLs = st.ReplicaURLs
	}
	setInt(&cfg.Storage.MaxConns, st.MaxConns)
	setInt(&cfg.Storage.MinConns, st.MinConns)
	setDuration(&cfg.Storage.Timeout, st.Timeout)
	setBool(&cfg.Storage.AutoMigrate, st.AutoMigrate)
	setString(&cfg.Storage.RedisURL, st.RedisURL)
	setString(&cfg.Storage.RedisPassword, st.RedisPassword)
	setInt(&cfg.Storage.RedisDB, st.RedisDB)
	setBool(&cfg.Storage.CacheEnabled, st.CacheEnabled)
	setDuration(&cfg.Storage.CacheTTL, st.CacheTTL)
	setInt(&cfg.Storage.L1CacheSize, st.L1CacheSize)

	o := fc.Observability
	if o.LogLevel != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(o.LogLevel)
	}
	setBool(&cfg.Observability.MetricsEnabled, o.MetricsEnabled)
	setString(&cfg.Observability.DBStatsSchedule, o.DBStatsSchedule)
	setBool(&cfg.Observability.OTelEnabled, o.OTelEnabled)
	setString(&cfg.Observability.OTelEndpoint, o.OTelEndpoint)
	setString(&cfg.Observability.OTelServiceName, o.OTelServiceName)
	setBool(&cfg.Observability.OTelInsecure, o.OTelInsecure)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
