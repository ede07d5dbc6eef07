package config

import (
	"os"
	"strconv"
	"strings"
)

// StoreConfig points at the backing store
type StoreConfig struct {
	// Location is either a SQLite file path or a postgres:// URL
	Location string
}

// ServerConfig process name and listen port
type ServerConfig struct {
	AppName string
	Port    string
}

// AuthConfig optional shared secret
type AuthConfig struct {
	Secret string
}

// LogConfig logger settings
type LogConfig struct {
	Debug bool
	File  string
}

// MQConfig RabbitMQ settings, empty URL disables publishing
type MQConfig struct {
	URL string
	// Concurrency is the number of messages the worker handles at once
	Concurrency int
}

// RedisConfig Redis settings, empty Addr disables de-duplication
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type Config struct {
	Store    StoreConfig
	Server   ServerConfig
	Auth     AuthConfig
	Log      LogConfig
	MQ       MQConfig
	Redis    RedisConfig
	// SeedFile is a YAML fixture; empty selects the built-in demo data
	SeedFile string
}

// Load builds the configuration from the environment. There is no config file.
func Load() *Config {
	cfg := &Config{
		Store: StoreConfig{Location: "data.db"},
		Server: ServerConfig{
			AppName: "WISE MCP Backbone",
			Port:    "8000",
		},
		MQ: MQConfig{Concurrency: 4},
	}

	OverrideStoreFromEnv(&cfg.Store)
	OverrideServerFromEnv(&cfg.Server)
	OverrideAuthFromEnv(&cfg.Auth)
	OverrideLogFromEnv(&cfg.Log)
	OverrideMQFromEnv(&cfg.MQ)
	OverrideRedisFromEnv(&cfg.Redis)
	cfg.SeedFile = GetEnv("SEED_FILE", cfg.SeedFile)

	return cfg
}

// OverrideStoreFromEnv reads DB_PATH
func OverrideStoreFromEnv(cfg *StoreConfig) {
	if loc := os.Getenv("DB_PATH"); loc != "" {
		cfg.Location = loc
	}
}

// OverrideServerFromEnv reads APP_NAME and PORT
func OverrideServerFromEnv(cfg *ServerConfig) {
	if name := os.Getenv("APP_NAME"); name != "" {
		cfg.AppName = name
	}
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			cfg.Port = port
		}
	}
}

// OverrideAuthFromEnv reads NORTH_SERVER_SECRET
func OverrideAuthFromEnv(cfg *AuthConfig) {
	if secret := os.Getenv("NORTH_SERVER_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideLogFromEnv reads DEBUG and LOG_FILE
func OverrideLogFromEnv(cfg *LogConfig) {
	if debug := os.Getenv("DEBUG"); debug != "" {
		cfg.Debug = ParseBool(debug)
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		cfg.File = file
	}
}

// OverrideMQFromEnv reads MQ_URL and WORKER_CONCURRENCY
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
	if n := os.Getenv("WORKER_CONCURRENCY"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.Concurrency = v
		}
	}
}

// OverrideRedisFromEnv reads REDIS_ADDR, REDIS_PASSWORD and REDIS_DB
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.DB = n
		}
	}
}

// ParseBool accepts 1, true, yes and y in any case.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

// GetEnv returns the environment value or the default when unset
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Addr returns the listen address for the configured port.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}
