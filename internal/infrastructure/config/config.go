package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full runtime configuration, read from the environment.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR, default=:3000"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`

	Backend BackendConfig
	Storage StorageConfig
	Refresh RefreshConfig
}

// BackendConfig points at the remote project-management API.
type BackendConfig struct {
	BaseURL string        `env:"BACKEND_URL,     default=http://127.0.0.1:8000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

// StorageConfig selects where credentials are persisted between runs:
// "file" (default), "redis", or "memory" for an explicit opt-out.
type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND,  default=file"`
	File    string `env:"CREDENTIALS_FILE, default=.projectman/credentials.json"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=projectman"`
}

// RefreshConfig tunes the background access-token refresher.
type RefreshConfig struct {
	Interval time.Duration `env:"REFRESH_INTERVAL, default=1m"`
	Leeway   time.Duration `env:"REFRESH_LEEWAY,   default=2m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
