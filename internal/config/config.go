package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultPort      = "5001"
	defaultMongoURI  = "mongodb://localhost:27017"
	defaultMongoDB   = "thinkvault"
	defaultCacheTTL  = "30s"
	defaultServerURL = "http://localhost:5001"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Mongo   MongoConfig   `toml:"mongo"`
	Redis   RedisConfig   `toml:"redis"`
	Client  ClientConfig  `toml:"client"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RedisConfig enables the list cache when Addr is set.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      string `toml:"ttl"`
}

type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Server:  ServerConfig{Port: defaultPort},
		Mongo:   MongoConfig{URI: defaultMongoURI, Database: defaultMongoDB},
		Redis:   RedisConfig{TTL: defaultCacheTTL},
		Client:  ClientConfig{URL: defaultServerURL},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads defaults, then the config file, then environment overrides.
// A missing config file is not an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// Path is THINKVAULT_CONFIG or ~/.config/thinkvault/config.toml.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv("THINKVAULT_CONFIG")); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "thinkvault", "config.toml"), nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Server.Port, "PORT")
	setFromEnv(&c.Mongo.URI, "MONGODB_URI")
	setFromEnv(&c.Mongo.Database, "MONGODB_DB")
	setFromEnv(&c.Redis.Addr, "REDIS_ADDR")
	setFromEnv(&c.Redis.TTL, "CACHE_TTL")
	setFromEnv(&c.Client.URL, "THINKVAULT_URL")
	setFromEnv(&c.Client.Timeout, "REQUEST_TIMEOUT")
	setFromEnv(&c.Logging.Level, "LOG_LEVEL")
}

func setFromEnv(dst *string, key string) {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		*dst = val
	}
}

func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
	if port == "" {
		port = defaultPort
	}
	return ":" + port
}

// CacheTTL falls back to the default for an empty or unparsable value.
func (c Config) CacheTTL() time.Duration {
	if d, ok := parseDuration(c.Redis.TTL); ok {
		return d
	}
	d, _ := time.ParseDuration(defaultCacheTTL)
	return d
}

// RequestTimeout is zero unless configured, leaving the transport default.
func (c Config) RequestTimeout() time.Duration {
	d, _ := parseDuration(c.Client.Timeout)
	return d
}

func (c Config) ServerURL() string {
	url := strings.TrimRight(strings.TrimSpace(c.Client.URL), "/")
	if url == "" {
		return defaultServerURL
	}
	return url
}

func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, false
	}
	return d, true
}
