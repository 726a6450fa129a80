package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type StoreConfig struct {
	Path string `koanf:"path"`
	Perm string `koanf:"perm"`
}

const defaultStorePerm = "0644"

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  path: %s\n", c.Path))
	b.WriteString(fmt.Sprintf("  perm: %s\n", c.Perm))
	return b.String()
}

func (c *StoreConfig) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("store path is not configured")
	}
	if c.Perm == "" {
		c.Perm = defaultStorePerm
	}
	if _, err := c.FileMode(); err != nil {
		return err
	}
	return nil
}

// FileMode parses Perm as an octal permission, e.g. "0644".
func (c *StoreConfig) FileMode() (os.FileMode, error) {
	perm := c.Perm
	if perm == "" {
		perm = defaultStorePerm
	}
	mode, err := strconv.ParseUint(perm, 8, 32)
	if err != nil || mode > 0o777 {
		return 0, fmt.Errorf("invalid store file permission: %q", c.Perm)
	}
	return os.FileMode(mode), nil
}
