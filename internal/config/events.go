package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvEventsEnabled = "EVENTS_ENABLED"
	EnvEventsBrokers = "EVENTS_BROKERS"
	EnvEventsTopic   = "EVENTS_TOPIC"
)

// EventsConfig controls publication of activity entries to Kafka.
type EventsConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

func (c *EventsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *EventsConfig) Merge(overlay *EventsConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Brokers != nil {
		c.Brokers = overlay.Brokers
	}
	if overlay.Topic != "" {
		c.Topic = overlay.Topic
	}
}

func (c *EventsConfig) loadDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.Topic == "" {
		c.Topic = "docgen.activity"
	}
}

func (c *EventsConfig) loadEnv() {
	if v := os.Getenv(EnvEventsEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvEventsBrokers); v != "" {
		c.Brokers = nil
		for broker := range strings.SplitSeq(v, ",") {
			if trimmed := strings.TrimSpace(broker); trimmed != "" {
				c.Brokers = append(c.Brokers, trimmed)
			}
		}
	}
	if v := os.Getenv(EnvEventsTopic); v != "" {
		c.Topic = v
	}
}

func (c *EventsConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("brokers required when enabled")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic required when enabled")
	}
	return nil
}
