package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Input    InputConfig    `toml:"input"`
	Output   OutputConfig   `toml:"output"`
	Parse    ParseConfig    `toml:"parse"`
	Wiki     WikiConfig     `toml:"wiki"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type InputConfig struct {
	Files  []string `toml:"files"`  // merged in order
	Schema string   `toml:"schema"` // "auto" or "v1".."v4"
}

type OutputConfig struct {
	Dir       string `toml:"dir"`
	Plaintext string `toml:"plaintext"` // decoded dump path, "" to skip
}

type ParseConfig struct {
	Strict bool `toml:"strict"` // abort on evolution tier gaps
}

type WikiConfig struct {
	NamesFile string `toml:"names_file"` // YAML English-name overlay
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables the page archive
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config { return defaults() }

func (c *Config) validate() error {
	switch c.Input.Schema {
	case "", "auto", "v1", "v2", "v3", "v4":
	default:
		return fmt.Errorf("input.schema: unknown character schema %q", c.Input.Schema)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Input: InputConfig{
			Files: []string{
				"inputs/getSPMaster2.csv",
				"inputs/getSPMaster3.csv",
				"inputs/getSPMaster4.csv",
				"inputs/getSPMaster6.csv",
				"inputs/getSPMaster7.csv",
			},
			Schema: "auto",
		},
		Output: OutputConfig{
			Dir:       "outputs",
			Plaintext: "outputs/getMaster.txt",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
