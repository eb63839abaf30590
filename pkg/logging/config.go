package logging

import (
	"os"
	"strconv"
	"strings"
)

// Env names the environment variables read by Config.
type Env struct {
	Level     string
	Format    string
	AddSource string
}

// Config holds logging configuration settings.
type Config struct {
	Level  Level  `toml:"level"`
	Format Format `toml:"format"`

	// AddSource annotates each record with the emitting file and line.
	AddSource bool `toml:"add_source"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.AddSource {
		c.AddSource = true
	}
}

func (c *Config) loadDefaults() {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Level != "" {
		if v := os.Getenv(env.Level); v != "" {
			c.Level = Level(strings.ToLower(v))
		}
	}
	if env.Format != "" {
		if v := os.Getenv(env.Format); v != "" {
			c.Format = Format(strings.ToLower(v))
		}
	}
	if env.AddSource != "" {
		if b, err := strconv.ParseBool(os.Getenv(env.AddSource)); err == nil {
			c.AddSource = b
		}
	}
}

func (c *Config) validate() error {
	if err := c.Level.Validate(); err != nil {
		return err
	}
	return c.Format.Validate()
}
