package converter

import (
	"fmt"
	"os"
	"time"
)

// Env names the environment variables read by Config.
type Env struct {
	Binary       string
	Timeout      string
	ProbeTimeout string
	TempDir      string
	Grace        string
}

// Config controls the headless LibreOffice conversion process.
type Config struct {
	// Binary is an explicit soffice/libreoffice path or command name.
	// Empty searches the platform install locations and PATH.
	Binary string `toml:"binary"`

	Timeout      string `toml:"timeout"`
	ProbeTimeout string `toml:"probe_timeout"`

	// TempDir holds the per-request input and output directories.
	// Default: <os temp>/pdf-conversion
	TempDir string `toml:"temp_dir"`

	// Grace is added to Timeout by callers that bound the whole conversion.
	Grace string `toml:"grace"`
}

func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *Config) ProbeTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ProbeTimeout)
	return d
}

func (c *Config) GraceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Grace)
	return d
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
	if overlay.Binary != "" {
		c.Binary = overlay.Binary
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.ProbeTimeout != "" {
		c.ProbeTimeout = overlay.ProbeTimeout
	}
	if overlay.TempDir != "" {
		c.TempDir = overlay.TempDir
	}
	if overlay.Grace != "" {
		c.Grace = overlay.Grace
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.ProbeTimeout == "" {
		c.ProbeTimeout = "10s"
	}
	if c.Grace == "" {
		c.Grace = "5s"
	}
	if c.TempDir == "" {
		c.TempDir = defaultTempDir()
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Binary != "" {
		if v := os.Getenv(env.Binary); v != "" {
			c.Binary = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.ProbeTimeout != "" {
		if v := os.Getenv(env.ProbeTimeout); v != "" {
			c.ProbeTimeout = v
		}
	}
	if env.TempDir != "" {
		if v := os.Getenv(env.TempDir); v != "" {
			c.TempDir = v
		}
	}
	if env.Grace != "" {
		if v := os.Getenv(env.Grace); v != "" {
			c.Grace = v
		}
	}
}

func (c *Config) validate() error {
	for name, v := range map[string]string{
		"timeout":       c.Timeout,
		"probe_timeout": c.ProbeTimeout,
		"grace":         c.Grace,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid converter %s: %w", name, err)
		}
		if d <= 0 && name != "grace" {
			return fmt.Errorf("converter %s must be positive", name)
		}
		if d < 0 {
			return fmt.Errorf("converter %s must not be negative", name)
		}
	}
	return nil
}
