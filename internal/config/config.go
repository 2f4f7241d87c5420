package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server and client configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Auth   AuthConfig   `yaml:"auth"`
	MCP    MCPConfig    `yaml:"mcp"`
	Limits LimitsConfig `yaml:"limits"`
	Store  StoreConfig  `yaml:"store"`
	Cache  CacheConfig  `yaml:"cache"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DBConfig selects the durable store. Driver is sqlite or postgres.
type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// MCPConfig controls the agent tool endpoint. Transport is http (served
// at /mcp) or stdio, which runs tools for the single Tenant.
type MCPConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Transport      string        `yaml:"transport"`
	Tenant         string        `yaml:"tenant"`
	SessionTimeout time.Duration `yaml:"session_timeout"`
}

// LimitsConfig overrides the capacity rule per resource. Rules are
// expressions over current, max and tier.
type LimitsConfig struct {
	Projects    string `yaml:"projects"`
	Experiments string `yaml:"experiments"`
}

// StoreConfig points the CLI at a store server.
type StoreConfig struct {
	URL        string        `yaml:"url"`
	Token      string        `yaml:"token"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// Enabled reports whether both store values are present.
func (s StoreConfig) Enabled() bool {
	return s.URL != "" && s.Token != ""
}

// CacheConfig locates the CLI's local cache.
type CacheConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "modlab.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
		},
		MCP: MCPConfig{
			Enabled:        true,
			Transport:      "http",
			SessionTimeout: 30 * time.Minute,
		},
		Store: StoreConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 3,
			RetryDelay: time.Second,
		},
		Cache: CacheConfig{
			Path: defaultCachePath(),
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("MODLAB_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "MODLAB_SERVER_HOST")
	if err := setInt(&cfg.Server.Port, "MODLAB_SERVER_PORT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Server.RequestTimeout, "MODLAB_REQUEST_TIMEOUT"); err != nil {
		return err
	}
	setString(&cfg.DB.Driver, "MODLAB_DB_DRIVER")
	setString(&cfg.DB.DSN, "MODLAB_DB_DSN")
	setString(&cfg.Log.Level, "MODLAB_LOG_LEVEL")
	setString(&cfg.Log.Path, "MODLAB_LOG_PATH")
	if err := setDuration(&cfg.Auth.SessionTTL, "MODLAB_SESSION_TTL"); err != nil {
		return err
	}
	if err := setBool(&cfg.MCP.Enabled, "MODLAB_MCP_ENABLED"); err != nil {
		return err
	}
	setString(&cfg.MCP.Transport, "MODLAB_MCP_TRANSPORT")
	setString(&cfg.MCP.Tenant, "MODLAB_MCP_TENANT")
	setString(&cfg.Limits.Projects, "MODLAB_LIMIT_PROJECTS")
	setString(&cfg.Limits.Experiments, "MODLAB_LIMIT_EXPERIMENTS")
	setString(&cfg.Store.URL, "MODLAB_STORE_URL")
	setString(&cfg.Store.Token, "MODLAB_STORE_TOKEN")
	if err := setDuration(&cfg.Store.Timeout, "MODLAB_STORE_TIMEOUT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Store.MaxRetries, "MODLAB_STORE_MAX_RETRIES"); err != nil {
		return err
	}
	setString(&cfg.Cache.Path, "MODLAB_CACHE_PATH")
	return nil
}

func (c Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid db driver %q: want sqlite or postgres", c.DB.Driver)
	}
	switch c.MCP.Transport {
	case "http":
	case "stdio":
		if c.MCP.Tenant == "" {
			return fmt.Errorf("mcp stdio transport requires mcp.tenant")
		}
	default:
		return fmt.Errorf("invalid mcp transport %q: want http or stdio", c.MCP.Transport)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Store.MaxRetries < 0 {
		return fmt.Errorf("invalid store max_retries %d", c.Store.MaxRetries)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".modlab-cache"
	}
	return dir + string(os.PathSeparator) + "modlab"
}
