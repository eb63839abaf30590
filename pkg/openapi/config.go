package openapi

import (
	"os"
	"strings"
)

// Config describes the generated document's info block and server list.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`

	// Servers are advertised in addition to the service domain, e.g. a
	// reverse proxy URL.
	Servers []string `toml:"servers"`
}

type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Servers != nil {
		c.Servers = overlay.Servers
	}
}

// Apply writes the configured info and servers onto spec.
func (c *Config) Apply(spec *Spec) {
	spec.Info.Title = c.Title
	spec.SetDescription(c.Description)
	for _, url := range c.Servers {
		spec.AddServer(url)
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Docgen API"
	}
	if c.Description == "" {
		c.Description = "Template placeholder extraction, document generation, and PDF conversion."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.Title != "" {
		if v := os.Getenv(env.Title); v != "" {
			c.Title = v
		}
	}
	if env.Description != "" {
		if v := os.Getenv(env.Description); v != "" {
			c.Description = v
		}
	}
	if env.Servers != "" {
		if v := os.Getenv(env.Servers); v != "" {
			c.Servers = nil
			for url := range strings.SplitSeq(v, ",") {
				if trimmed := strings.TrimSpace(url); trimmed != "" {
					c.Servers = append(c.Servers, trimmed)
				}
			}
		}
	}
}
