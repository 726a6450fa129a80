// Package config holds the configuration of the catalog command.
package config

import (
	"fmt"
	"strings"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	Store   config.StoreConfig   `koanf:"store"`
	Log     config.LogConfig     `koanf:"log"`
	Metrics config.MetricsConfig `koanf:"metrics"`
}

// Defaults are loaded below every other configuration source.
func Defaults() map[string]any {
	return map[string]any{
		"store.path": "products.json",
		"store.perm": "0644",
		"log.level":  "info",
	}
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString(c.Store.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.Metrics.String())

	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
