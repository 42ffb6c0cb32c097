package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
	"github.com/platinummonkey/reel/pkg/storage/sqlstore"
)

// Config holds the migration tool configuration
type Config struct {
	StorageType string
	DatabaseURL string
	Timeout     time.Duration
	LogLevel    string
	Check       bool
}

// reel-migrate applies the catalog schema and seeds the language table.
// With -check it only verifies that the database is reachable and migrated.
func main() {
	config := parseFlags()

	logger := setupLogger(config.LogLevel)
	logger.Info("Starting reel schema migration")

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	storeCfg := storage.DefaultConfig()
	storeCfg.Type = config.StorageType
	storeCfg.DatabaseURL = config.DatabaseURL
	storeCfg.ReplicaURLs = nil
	storeCfg.AutoMigrate = false

	storeLogger := observability.NewLogger(observability.ParseLogLevel(config.LogLevel), os.Stderr)
	store, err := sqlstore.Open(ctx, storeCfg, storeLogger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if !config.Check {
		start := time.Now()
		if err := store.Migrate(ctx); err != nil {
			logger.Fatalf("Migration failed: %v", err)
		}
		logger.Infof("Schema applied in %v", time.Since(start).Round(time.Millisecond))
	}

	languages, err := store.ListLanguages(ctx)
	if err != nil {
		logger.Fatalf("Schema check failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"type":      config.StorageType,
		"languages": len(languages),
	}).Info("Database is ready")
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.StorageType, "type", getEnv("REEL_STORAGE_TYPE", "sqlite"), "Storage type (sqlite, postgres)")
	flag.StringVar(&config.DatabaseURL, "db", getEnv("REEL_DATABASE_URL", "file:reel.db?_foreign_keys=on"), "Database connection string")
	flag.DurationVar(&config.Timeout, "timeout", 2*time.Minute, "Overall migration timeout")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&config.Check, "check", false, "Only verify the schema, do not apply it")

	flag.Parse()

	return config
}

func setupLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
