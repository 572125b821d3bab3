// Package config provides YAML configuration loading with environment
// overrides for t2048.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// Storage back ends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the complete t2048 configuration.
type Config struct {
	SaveFile             string  `yaml:"save_file" env:"T2048_SAVE_FILE" env-default:"~/.t2048/save.yaml"`
	DBPath               string  `yaml:"db_path" env:"T2048_DB_PATH" env-default:"~/.t2048/t2048.db"`
	LogLevel             string  `yaml:"log_level" env:"T2048_LOG_LEVEL" env-default:"info"`
	LogFile              string  `yaml:"log_file" env:"T2048_LOG_FILE"`
	TickRate             int     `yaml:"tick_rate" env:"T2048_TICK_RATE" env-default:"60"`
	SpawnFourProbability float64 `yaml:"spawn_four_probability" env:"T2048_SPAWN_FOUR_PROBABILITY" env-default:"0.1"`
	SwipeThreshold       int     `yaml:"swipe_threshold" env:"T2048_SWIPE_THRESHOLD" env-default:"3"`

	Storage Storage `yaml:"storage"`
	Redis   Redis   `yaml:"redis"`
	SSH     SSH     `yaml:"ssh"`
	Web     Web     `yaml:"web"`
	Theme   Theme   `yaml:"theme"`
}

// Storage selects where saved games go.
type Storage struct {
	Backend string `yaml:"backend" env:"T2048_STORAGE_BACKEND" env-default:"file"`
}

// Redis configures the Redis save-slot store.
type Redis struct {
	Addr      string `yaml:"addr" env:"T2048_REDIS_ADDR" env-default:"localhost:6379"`
	Password  string `yaml:"password" env:"T2048_REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"T2048_REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" env:"T2048_REDIS_KEY_PREFIX" env-default:"t2048:"`
}

// SSH configures the SSH server.
type SSH struct {
	Address     string        `yaml:"address" env:"T2048_SSH_ADDRESS" env-default:":23234"`
	HostKey     string        `yaml:"host_key" env:"T2048_SSH_HOST_KEY" env-default:"~/.t2048/host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"T2048_SSH_IDLE_TIMEOUT" env-default:"30m"`
}

// Web configures the HTTP/WebSocket server.
type Web struct {
	Address string `yaml:"address" env:"T2048_WEB_ADDRESS" env-default:":8080"`
}

// Theme maps tile values to 256-color palette codes.
type Theme struct {
	Tiles    map[int]uint8 `yaml:"tiles"`
	Overflow uint8         `yaml:"overflow"`
	Text     uint8         `yaml:"text"`
}

// TileTheme converts the palette codes into the renderer's theme.
// Missing entries keep the built-in colors.
func (t Theme) TileTheme() t2048.Theme {
	th := t2048.DefaultTheme()
	for v, code := range t.Tiles {
		th.Tiles[v] = core.ANSI(code)
	}
	if t.Overflow != 0 {
		th.Overflow = core.ANSI(t.Overflow)
	}
	if t.Text != 0 {
		th.Text = core.ANSI(t.Text)
	}
	return th
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.SpawnFourProbability < 0 || c.SpawnFourProbability > 1 {
		return fmt.Errorf("config: spawn_four_probability %v outside [0,1]", c.SpawnFourProbability)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive, got %d", c.TickRate)
	}
	if c.SwipeThreshold <= 0 {
		return fmt.Errorf("config: swipe_threshold must be positive, got %d", c.SwipeThreshold)
	}
	switch strings.ToLower(c.Storage.Backend) {
	case BackendFile, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	for v := range c.Theme.Tiles {
		if v != 0 && (v < 2 || v&(v-1) != 0) {
			return fmt.Errorf("config: theme tile %d is not a tile value", v)
		}
	}
	return nil
}

// Runtime returns the simulation settings derived from the config.
func (c Config) Runtime() core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.TickRate = c.TickRate
	return rc
}
