package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"craftopia-api/internal/store"
)

const defaultMongoHost = "cluster0.1gttryf.mongodb.net"

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	ShutdownTimeout         time.Duration
	RequestTimeout          time.Duration
	JWTSecret               string
	JWTTTL                  time.Duration
	StoreDriver             string
	MongoURI                string
	MongoDatabase           string
	MongoConnectTimeout     time.Duration
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	DBMaxConnLifetime       time.Duration
	AdminEmails             []string
	CORSOrigins             []string
	RateLimitRPM            int
	AuthRateLimitRPM        int
	LogLevel                string
	LogFormat               string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              firstEnv([]string{"PORT", "SERVER_PORT"}, "5000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:         getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		JWTSecret:               firstEnv([]string{"JWT_SECRET", "ACCESS_TOKEN_SECRET"}, ""),
		JWTTTL:                  getDuration("JWT_TTL", time.Hour),
		StoreDriver:             strings.ToLower(getEnv("STORE_DRIVER", store.DriverMongo)),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "craftopia"),
		MongoConnectTimeout:     getDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 2)),
		DBMaxConnLifetime:       getDuration("DB_MAX_CONN_LIFETIME", time.Hour),
		AdminEmails:             splitCSV(getEnv("ADMIN_EMAILS", "")),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 30),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               strings.ToLower(getEnv("LOG_FORMAT", "pretty")),
	}

	if cfg.MongoURI == "" {
		cfg.MongoURI = atlasURI(os.Getenv("DB_USER"), os.Getenv("DB_PASS"), getEnv("MONGO_HOST", defaultMongoHost))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if err := store.ValidDriver(c.StoreDriver); err != nil {
		return fmt.Errorf("STORE_DRIVER: %w", err)
	}

	switch c.StoreDriver {
	case store.DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI or DB_USER and DB_PASS are required for the mongo store")
		}
		if c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_DATABASE cannot be empty")
		}
	case store.DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS and DB_MAX_CONNS must satisfy 0 <= min <= max, max > 0")
		}
	}

	if c.LogFormat != "pretty" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be pretty or json")
	}

	return nil
}

// atlasURI builds the SRV connection string for the hosted cluster. Empty
// credentials yield an empty URI.
func atlasURI(user, pass, host string) string {
	user = strings.TrimSpace(user)
	pass = strings.TrimSpace(pass)
	if user == "" || pass == "" {
		return ""
	}

	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func firstEnv(keys []string, fallback string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return fallback
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
