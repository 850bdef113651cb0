package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bassista/go_preview/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the preview server.
type Config struct {
	Server  ServerConfig
	Remote  RemoteConfig
	Preview PreviewConfig
	Watch   WatchConfig
	Cache   CacheConfig
	Misc    MiscConfig
	Stores  Stores
}

type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// RemoteConfig tunes outbound fetches to the storefront.
type RemoteConfig struct {
	FetchTimeout time.Duration
	UserAgent    string
}

// PreviewConfig locates components, snippets and fixtures on disk.
type PreviewConfig struct {
	ComponentsDir  string
	SnippetsDir    string
	FixtureFile    string
	TemplateExt    string
	InjectSettings bool
}

// WatchConfig controls the live-reload file watcher.
// A zero Debounce broadcasts once per file-system event.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// CacheConfig controls the remote asset cache.
// A zero TTL keeps entries for the lifetime of the process.
type CacheConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type MiscConfig struct {
	GinMode  string
	LogLevel string
}

// LoadConfig reads config.yaml (if any), .env and environment variables.
// Environment variables like GO_PREVIEW_SERVER_PORT override server.port.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WithComponent("config").Warnf("cannot load .env file: %v", err)
	}

	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(getEnvOrDefault("GO_PREVIEW_CONFIG_PATH", "./config"))

	setDefaults()

	viper.SetEnvPrefix("GO_PREVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Info("no config file found, using defaults and env vars")
	}

	port, err := getEnvOrViperPort("PORT", "server.port")
	if err != nil {
		return nil, err
	}

	stores := Stores{}
	if err := viper.UnmarshalKey("stores", &stores); err != nil {
		return nil, fmt.Errorf("decode stores: %w", err)
	}
	if len(stores) == 0 {
		logger.WithComponent("config").Info("no stores configured, using built-in store table")
		stores = DefaultStores()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               port,
			ReadTimeout:        viper.GetDuration("server.read_timeout"),
			WriteTimeout:       viper.GetDuration("server.write_timeout"),
			IdleTimeout:        viper.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    viper.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     viper.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: viper.GetString("server.cors_allowed_origins"),
		},
		Remote: RemoteConfig{
			FetchTimeout: viper.GetDuration("remote.fetch_timeout"),
			UserAgent:    viper.GetString("remote.user_agent"),
		},
		Preview: PreviewConfig{
			ComponentsDir:  viper.GetString("preview.components_dir"),
			SnippetsDir:    viper.GetString("preview.snippets_dir"),
			FixtureFile:    viper.GetString("preview.fixture_file"),
			TemplateExt:    viper.GetString("preview.template_ext"),
			InjectSettings: viper.GetBool("preview.inject_settings"),
		},
		Watch: WatchConfig{
			Enabled:  viper.GetBool("watch.enabled"),
			Debounce: viper.GetDuration("watch.debounce"),
		},
		Cache: CacheConfig{
			TTL:           viper.GetDuration("cache.ttl"),
			SweepInterval: viper.GetDuration("cache.sweep_interval"),
		},
		Misc: MiscConfig{
			GinMode:  viper.GetString("misc.gin_mode"),
			LogLevel: viper.GetString("misc.log_level"),
		},
		Stores: stores,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 3003)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.idle_timeout", 120*time.Second)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.request_timeout", 30*time.Second)
	viper.SetDefault("server.cors_allowed_origins", "*")

	viper.SetDefault("remote.fetch_timeout", 15*time.Second)
	viper.SetDefault("remote.user_agent", "go-preview/1.0")

	viper.SetDefault("preview.components_dir", "./src/components")
	viper.SetDefault("preview.snippets_dir", "./snippets")
	viper.SetDefault("preview.fixture_file", "mockData.json")
	viper.SetDefault("preview.template_ext", ".liquid")
	viper.SetDefault("preview.inject_settings", false)

	viper.SetDefault("watch.enabled", true)
	viper.SetDefault("watch.debounce", 0)

	viper.SetDefault("cache.ttl", 0)
	viper.SetDefault("cache.sweep_interval", time.Minute)

	viper.SetDefault("misc.gin_mode", "release")
	viper.SetDefault("misc.log_level", "info")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 || c.Server.ShutDownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	if c.Remote.FetchTimeout <= 0 {
		return errors.New("remote.fetch_timeout must be positive")
	}
	if strings.TrimSpace(c.Preview.ComponentsDir) == "" {
		return errors.New("preview.components_dir is required")
	}
	if strings.TrimSpace(c.Preview.FixtureFile) == "" {
		return errors.New("preview.fixture_file is required")
	}
	if !strings.HasPrefix(c.Preview.TemplateExt, ".") {
		return fmt.Errorf("preview.template_ext must start with a dot, got %q", c.Preview.TemplateExt)
	}
	if c.Watch.Debounce < 0 {
		return errors.New("watch.debounce cannot be negative")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Cache.TTL > 0 && c.Cache.SweepInterval <= 0 {
		return errors.New("cache.sweep_interval must be positive when cache.ttl is set")
	}
	if len(c.Stores) == 0 {
		return errors.New("at least one store must be configured")
	}

	v := validator.New()
	for id, store := range c.Stores {
		if err := v.Struct(store); err != nil {
			return fmt.Errorf("invalid store %q: %w", id, err)
		}
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvOrViperPort prefers the plain env var (e.g. PORT) over the viper key.
func getEnvOrViperPort(envKey, viperKey string) (int, error) {
	if v := os.Getenv(envKey); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", envKey, v, err)
		}
		return port, nil
	}
	return viper.GetInt(viperKey), nil
}
