package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the chat room server runtime parameters.
type Config struct {
	GRPCAddress         string        `mapstructure:"grpc_address"`
	HeartbeatInterval   time.Duration `mapstructure:"heartbeat_interval"`
	LogLevel            string        `mapstructure:"log_level"`
	ShutdownGracePeriod time.Duration `mapstructure:"shutdown_grace_period"`
	Admin               AdminConfig   `mapstructure:"admin"`
	Store               StoreConfig   `mapstructure:"store"`
}

// AdminConfig configures the HTTP side server (metrics, health, websocket).
// An empty Address disables it.
type AdminConfig struct {
	Address           string        `mapstructure:"address"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

const (
	DefaultPort                = 50051
	defaultHeartbeatInterval   = time.Second
	defaultLogLevel            = "info"
	defaultShutdownGracePeriod = 10 * time.Second
	defaultAdminAddress        = ":8080"
	defaultReadHeaderTimeout   = 5 * time.Second
	defaultStoreDriver         = "memory"
	defaultStoreDSN            = "file::memory:"
)

var defaultGRPCAddress = fmt.Sprintf(":%d", DefaultPort)

// New returns a viper instance with defaults and CHATROOM_ env bindings set.
// Callers may bind flags onto it before passing it to Decode.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CHATROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("grpc_address", defaultGRPCAddress)
	v.SetDefault("heartbeat_interval", defaultHeartbeatInterval.String())
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("shutdown_grace_period", defaultShutdownGracePeriod.String())
	v.SetDefault("admin.address", defaultAdminAddress)
	v.SetDefault("admin.read_header_timeout", defaultReadHeaderTimeout.String())
	v.SetDefault("store.driver", defaultStoreDriver)
	v.SetDefault("store.dsn", defaultStoreDSN)
	return v
}

// Load reads configuration from the provided file path (if any) and the environment.
func Load(path string) (Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return Config{}, err
	}
	return Decode(v)
}

func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.GRPCAddress == "" {
		cfg.GRPCAddress = defaultGRPCAddress
	}
	if cfg.HeartbeatInterval <= 0 {
		return Config{}, fmt.Errorf("invalid heartbeat_interval %s: must be positive", cfg.HeartbeatInterval)
	}
	if cfg.ShutdownGracePeriod <= 0 {
		cfg.ShutdownGracePeriod = defaultShutdownGracePeriod
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.Admin.ReadHeaderTimeout <= 0 {
		cfg.Admin.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = defaultStoreDriver
	}
	return cfg, nil
}
