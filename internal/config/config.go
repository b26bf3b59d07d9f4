package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName    string
	AppVersion string
	Port       string

	Environment   string
	AdminAPIToken string

	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	// Stats cache, disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StatsCacheTTL        time.Duration
	StatsRefreshInterval time.Duration
	StatsWindow          time.Duration
	StatsRefreshBatch    int

	SnowflakeNodeID int64
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:              getenv("APP_SERVICE", "magic-dashboard"),
		AppVersion:           getenv("APP_VERSION", "0.1.0"),
		Port:                 getenv("PORT", "8081"),
		Environment:          getenv("ENVIRONMENT", "development"),
		AdminAPIToken:        strings.TrimSpace(getenv("ADMIN_API_TOKEN", "")),
		DBHost:               getenv("DB_HOST", "localhost"),
		DBPort:               getenv("DB_PORT", "5432"),
		DBName:               getenv("DB_NAME", "dashboard"),
		DBUser:               getenv("DB_USER", "postgres"),
		DBPassword:           getenv("DB_PASSWORD", "postgres"),
		DBSSLMode:            getenv("DB_SSL_MODE", "disable"),
		DBMaxIdleConn:        getenvInt("DB_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:        getenvInt("DB_MAX_OPEN_CONN", 100),
		DBConnMaxLifetime:    getenvInt("DB_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime:    getenvInt("DB_CONN_MAX_IDLE_TIME", 60),
		RedisAddr:            strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:        strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
		RedisDB:              getenvInt("REDIS_DB", 0),
		StatsCacheTTL:        time.Second * time.Duration(getenvInt("STATS_CACHE_TTL", 300)),
		StatsRefreshInterval: time.Second * time.Duration(getenvInt("STATS_REFRESH_INTERVAL", 60)),
		StatsWindow:          time.Hour * time.Duration(getenvInt("STATS_WINDOW_HOURS", 24*30)),
		StatsRefreshBatch:    getenvInt("STATS_REFRESH_BATCH", 100),
		SnowflakeNodeID:      getenvInt64("SNOWFLAKE_NODE_ID", 1),
	}

	return &cfg
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DSN builds the Postgres connection URL.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
