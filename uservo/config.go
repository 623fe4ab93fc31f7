package uservo

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Default bus settings for FashionStar servos.
const (
	DefaultBaudRate = 115200
	DefaultTimeout  = 100 * time.Millisecond
)

// Config holds the settings for one bus session. It is passed explicitly to
// the constructors; there is no package-level state.
type Config struct {
	// Port is the serial device path (e.g., "/dev/ttyUSB0"). Ignored when a
	// Transport is supplied directly.
	Port string `toml:"port"`

	// BaudRate is the bus speed. Default is 115200.
	BaudRate int `toml:"baud_rate"`

	// Timeout bounds each transaction. Default is 100ms.
	Timeout time.Duration `toml:"-"`

	// TimeoutMS mirrors Timeout for file-based configuration.
	TimeoutMS int `toml:"timeout_ms"`

	// Logger receives per-transaction debug traces. Nil disables logging.
	Logger *zerolog.Logger `toml:"-"`
}

func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.Timeout == 0 && c.TimeoutMS > 0 {
		c.Timeout = time.Duration(c.TimeoutMS) * time.Millisecond
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// LoadConfig reads a Config from a TOML file. Missing fields fall back to
// the defaults when the session is created.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
