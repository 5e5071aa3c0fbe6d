package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"

	DefaultPort          = "8080"
	DefaultSourceTimeout = 15 * time.Second
	DefaultTimeZone      = "Europe/Stockholm"

	// ConfigPathEnv names an optional YAML file read before environment overrides.
	ConfigPathEnv = "LUNCHMAP_CONFIG"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type CacheConfig struct {
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Redis   RedisConfig `yaml:"redis"`
}

type Config struct {
	Port           string        `yaml:"port"`
	Cache          CacheConfig   `yaml:"cache"`
	SourceTimeout  time.Duration `yaml:"source_timeout"`
	TimeZone       string        `yaml:"timezone"`
	BrowserSources []string      `yaml:"browser_sources"`
	StaticDir      string        `yaml:"static_dir"`
	MapsAPIKey     string        `yaml:"maps_api_key"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

func Default() *Config {
	return &Config{
		Port: DefaultPort,
		Cache: CacheConfig{
			Backend: BackendMemory,
			Dir:     DefaultCacheDir(),
		},
		SourceTimeout: DefaultSourceTimeout,
		TimeZone:      DefaultTimeZone,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "lunchmap")
}

// Load builds the configuration from defaults, then the YAML file at path (or $LUNCHMAP_CONFIG),
// then the environment. A .env file in the working directory is loaded into the environment
// first; variables already set win over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "APP_SERVER_PORT")
	setString(&c.Cache.Backend, "CACHE_BACKEND")
	setString(&c.Cache.Dir, "CACHE_DIR")
	setString(&c.Cache.Redis.Addr, "REDIS_ADDR")
	setString(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	setString(&c.TimeZone, "TIMEZONE")
	setString(&c.StaticDir, "STATIC_DIR")
	setString(&c.MapsAPIKey, "MAPS_API_KEY")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")

	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		c.Cache.Redis.DB = db
	}
	if v, ok := os.LookupEnv("REDIS_TLS"); ok {
		useTLS, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_TLS %q: %w", v, err)
		}
		c.Cache.Redis.TLS = useTLS
	}
	if v, ok := os.LookupEnv("SOURCE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SOURCE_TIMEOUT %q: %w", v, err)
		}
		c.SourceTimeout = d
	}
	if v, ok := os.LookupEnv("BROWSER_SOURCES"); ok {
		c.BrowserSources = splitList(v)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port number: %s", c.Port)
	}

	switch c.Cache.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Cache.Dir == "" {
			return errors.New("file cache needs a cache dir")
		}
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New("redis cache needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (valid: memory, file, redis)", c.Cache.Backend)
	}

	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive, got %s", c.SourceTimeout)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("unknown time zone %q: %w", c.TimeZone, err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (valid: text, json)", c.LogFormat)
	}
	return nil
}

// Location returns the configured time zone. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
