package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	SyncBackendRedis  = "redis"
	SyncBackendMemory = "memory"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort        string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis             Redis  `yaml:"redis"`
	Sync              Sync   `yaml:"sync"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"results.db"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Sync struct {
	Backend    string        `yaml:"backend" env:"SYNC_BACKEND" env-default:"redis"`
	MaxRetries int           `yaml:"max-retries" env:"SYNC_MAX_RETRIES" env-default:"3"`
	GameTTL    time.Duration `yaml:"game-ttl" env:"SYNC_GAME_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Sync.Backend != SyncBackendRedis && config.Sync.Backend != SyncBackendMemory {
		return nil, fmt.Errorf("unknown sync backend %q", config.Sync.Backend)
	}

	if config.Sync.MaxRetries < 0 {
		return nil, fmt.Errorf("sync max-retries must not be negative, got %d", config.Sync.MaxRetries)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
