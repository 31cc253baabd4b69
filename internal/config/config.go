// Package config loads server settings from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds server settings. Command-line flags override these values.
type Config struct {
	Host         string        `env:"TD_HOST" envDefault:"localhost"`
	Port         string        `env:"TD_PORT" envDefault:"5555"`
	DataDir      string        `env:"TD_DATA_DIR" envDefault:"data"`
	LogLevel     string        `env:"TD_LOG_LEVEL" envDefault:"INFO"`
	LogFile      string        `env:"TD_LOG_FILE"`
	Locale       string        `env:"TD_LOCALE" envDefault:"en-US"`
	StartStage   int           `env:"TD_START_STAGE" envDefault:"101"`
	BaseHP       int           `env:"TD_BASE_HP" envDefault:"100"`
	IdleTimeout  time.Duration `env:"TD_IDLE_TIMEOUT" envDefault:"30m"`
	WriteTimeout time.Duration `env:"TD_WRITE_TIMEOUT" envDefault:"10s"`
	MaxFrameSize uint32        `env:"TD_MAX_FRAME_SIZE" envDefault:"65536"`
}

// Address returns host:port
func (c Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Load reads an optional dotenv file and parses the environment.
// Missing dotenv files are ignored.
func Load(dotenvFiles ...string) (Config, error) {
	for _, path := range dotenvFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with. Zero is not
// accepted as "use the default" for stage or base hp.
func (c Config) Validate() error {
	switch {
	case c.MaxFrameSize == 0:
		return fmt.Errorf("TD_MAX_FRAME_SIZE must be positive")
	case c.StartStage <= 0:
		return fmt.Errorf("TD_START_STAGE must be positive, got %d", c.StartStage)
	case c.BaseHP <= 0:
		return fmt.Errorf("TD_BASE_HP must be positive, got %d", c.BaseHP)
	case c.WriteTimeout <= 0:
		return fmt.Errorf("TD_WRITE_TIMEOUT must be positive, got %s", c.WriteTimeout)
	}
	return nil
}
